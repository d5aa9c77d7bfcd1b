package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks/ledger_core_app/internal/apperrors"
	"github.com/openbooks/ledger_core_app/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_core_app/internal/core/ports/repositories"
	"github.com/openbooks/ledger_core_app/internal/models"
	"github.com/openbooks/ledger_core_app/internal/utils/mapping"
)

// PgxLedgerRepository persists the bootstrap entities: accounts and their
// names, currencies, domains and sub-journals.
type PgxLedgerRepository struct {
	BaseRepository
}

// NewLedgerRepository creates the pgx-backed ledger repository.
func NewLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

const accountColumns = `account_id, code, parent_account_id, is_category, allows_debit, allows_credit, extra, balance, row_updated_at, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.ParentAccountID,
		&m.IsCategory,
		&m.AllowsDebit,
		&m.AllowsCredit,
		&m.Extra,
		&m.Balance,
		&m.RowUpdatedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// CountAccountsInTx returns the number of accounts visible to tx.
func (r *PgxLedgerRepository) CountAccountsInTx(ctx context.Context, tx pgx.Tx) (int64, error) {
	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM accounts;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// SaveAccountInTx persists a new account within the given transaction.
func (r *PgxLedgerRepository) SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	m, err := mapping.ToModelAccount(account)
	if err != nil {
		return fmt.Errorf("failed to serialize account %s: %w", account.Code, err)
	}
	query := `
		INSERT INTO accounts (account_id, code, parent_account_id, is_category, allows_debit, allows_credit, extra, balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.ParentAccountID,
		m.IsCategory,
		m.AllowsDebit,
		m.AllowsCredit,
		m.Extra,
		m.Balance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "account "+m.Code)
	}
	return nil
}

// SaveNamesInTx persists a batch of localized names within the transaction.
func (r *PgxLedgerRepository) SaveNamesInTx(ctx context.Context, tx pgx.Tx, names []domain.Name) error {
	if len(names) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO entity_names (name_id, owner_id, language, text, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, n := range names {
		m := mapping.ToModelName(n)
		batch.Queue(query,
			m.NameID,
			m.OwnerID,
			m.Language,
			m.Text,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return mapWriteError(err, "entity names")
	}
	return nil
}

// SaveCurrencyInTx persists a new currency within the transaction.
func (r *PgxLedgerRepository) SaveCurrencyInTx(ctx context.Context, tx pgx.Tx, currency domain.Currency) error {
	m := mapping.ToModelCurrency(currency)
	query := `
		INSERT INTO currencies (currency_code, symbol, precision, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := tx.Exec(ctx, query,
		m.CurrencyCode,
		m.Symbol,
		m.Precision,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "currency "+m.CurrencyCode)
	}
	return nil
}

// SaveDomainInTx persists a new domain partition within the transaction.
func (r *PgxLedgerRepository) SaveDomainInTx(ctx context.Context, tx pgx.Tx, d domain.Domain) error {
	m := mapping.ToModelDomain(d)
	query := `
		INSERT INTO domains (domain_id, code, default_currency_code, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := tx.Exec(ctx, query,
		m.DomainID,
		m.Code,
		m.DefaultCurrencyCode,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "domain "+m.Code)
	}
	return nil
}

// SaveSubJournalInTx persists a new sub-journal within the transaction.
func (r *PgxLedgerRepository) SaveSubJournalInTx(ctx context.Context, tx pgx.Tx, sj domain.SubJournal) error {
	m := mapping.ToModelSubJournal(sj)
	query := `
		INSERT INTO sub_journals (sub_journal_id, code, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := tx.Exec(ctx, query,
		m.SubJournalID,
		m.Code,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "sub-journal "+m.Code)
	}
	return nil
}

// FindAccountByCodeInTx retrieves an account by code within the transaction.
func (r *PgxLedgerRepository) FindAccountByCodeInTx(ctx context.Context, tx pgx.Tx, code string) (*domain.Account, error) {
	row := tx.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE code = $1;`, code)
	m, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	acc, err := mapping.ToDomainAccount(m)
	if err != nil {
		return nil, fmt.Errorf("failed to decode account %s: %w", code, err)
	}
	return &acc, nil
}

// FindAccountByID retrieves an account with its names.
func (r *PgxLedgerRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1;`, accountID)
	return r.hydrateAccount(ctx, row, "id "+accountID)
}

// FindAccountByCode retrieves an account with its names by its code.
func (r *PgxLedgerRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE code = $1;`, code)
	return r.hydrateAccount(ctx, row, "code "+code)
}

// FindRootAccount retrieves the single account with no parent.
func (r *PgxLedgerRepository) FindRootAccount(ctx context.Context) (*domain.Account, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE parent_account_id IS NULL;`)
	return r.hydrateAccount(ctx, row, "root")
}

func (r *PgxLedgerRepository) hydrateAccount(ctx context.Context, row pgx.Row, what string) (*domain.Account, error) {
	m, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by %s: %w", what, err)
	}
	acc, err := mapping.ToDomainAccount(m)
	if err != nil {
		return nil, fmt.Errorf("failed to decode account %s: %w", m.Code, err)
	}
	names, err := r.findNamesByOwner(ctx, acc.AccountID)
	if err != nil {
		return nil, err
	}
	acc.Names = names
	return &acc, nil
}

func (r *PgxLedgerRepository) findNamesByOwner(ctx context.Context, ownerID string) ([]domain.Name, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT name_id, owner_id, language, text, created_at, created_by, last_updated_at, last_updated_by
		FROM entity_names WHERE owner_id = $1 ORDER BY language;
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query names for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	modelNames, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.EntityName, error) {
		var n models.EntityName
		err := row.Scan(&n.NameID, &n.OwnerID, &n.Language, &n.Text, &n.CreatedAt, &n.CreatedBy, &n.LastUpdatedAt, &n.LastUpdatedBy)
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan names for owner %s: %w", ownerID, err)
	}

	names := make([]domain.Name, len(modelNames))
	for i, m := range modelNames {
		names[i] = mapping.ToDomainName(m)
	}
	return names, nil
}

// ListAccounts retrieves a paginated list of accounts ordered by code.
func (r *PgxLedgerRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code LIMIT $1 OFFSET $2;`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	modelAccounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Account, error) {
		return scanAccount(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan accounts: %w", err)
	}

	accounts := make([]domain.Account, len(modelAccounts))
	for i, m := range modelAccounts {
		acc, err := mapping.ToDomainAccount(m)
		if err != nil {
			return nil, fmt.Errorf("failed to decode account %s: %w", m.Code, err)
		}
		accounts[i] = acc
	}
	return accounts, nil
}

// UpdateAccount persists a rename/flag/extra update and replaces the
// account's names when the update carries any, all in one transaction.
func (r *PgxLedgerRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m, err := mapping.ToModelAccount(account)
	if err != nil {
		return fmt.Errorf("failed to serialize account %s: %w", account.Code, err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
		UPDATE accounts
		SET code = $2, allows_debit = $3, allows_credit = $4, extra = $5, last_updated_at = $6, last_updated_by = $7
		WHERE account_id = $1;
	`,
		m.AccountID,
		m.Code,
		m.AllowsDebit,
		m.AllowsCredit,
		m.Extra,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "account "+m.Code)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if len(account.Names) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM entity_names WHERE owner_id = $1;`, m.AccountID); err != nil {
			return fmt.Errorf("failed to clear names for account %s: %w", m.Code, err)
		}
		if err := r.SaveNamesInTx(ctx, tx, account.Names); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// FindCurrencyByCode retrieves a currency by its code.
func (r *PgxLedgerRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	var m models.Currency
	err := r.Pool.QueryRow(ctx, `
		SELECT currency_code, symbol, precision, created_at, created_by, last_updated_at, last_updated_by
		FROM currencies WHERE currency_code = $1;
	`, currencyCode).Scan(
		&m.CurrencyCode,
		&m.Symbol,
		&m.Precision,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency by code %s: %w", currencyCode, err)
	}
	c := mapping.ToDomainCurrency(m)
	return &c, nil
}

// ListCurrencies retrieves all currencies ordered by code.
func (r *PgxLedgerRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT currency_code, symbol, precision, created_at, created_by, last_updated_at, last_updated_by
		FROM currencies ORDER BY currency_code;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	modelCurrencies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Currency, error) {
		var c models.Currency
		err := row.Scan(&c.CurrencyCode, &c.Symbol, &c.Precision, &c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan currencies: %w", err)
	}
	return mapping.ToDomainCurrencySlice(modelCurrencies), nil
}

// ListDomains retrieves all domain partitions with their names.
func (r *PgxLedgerRepository) ListDomains(ctx context.Context) ([]domain.Domain, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT domain_id, code, default_currency_code, created_at, created_by, last_updated_at, last_updated_by
		FROM domains ORDER BY code;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query domains: %w", err)
	}
	defer rows.Close()

	modelDomains, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Domain, error) {
		var d models.Domain
		err := row.Scan(&d.DomainID, &d.Code, &d.DefaultCurrencyCode, &d.CreatedAt, &d.CreatedBy, &d.LastUpdatedAt, &d.LastUpdatedBy)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan domains: %w", err)
	}

	out := make([]domain.Domain, len(modelDomains))
	for i, m := range modelDomains {
		d := mapping.ToDomainDomain(m)
		names, err := r.findNamesByOwner(ctx, d.DomainID)
		if err != nil {
			return nil, err
		}
		d.Names = names
		out[i] = d
	}
	return out, nil
}

// ListSubJournals retrieves all sub-journals with their names.
func (r *PgxLedgerRepository) ListSubJournals(ctx context.Context) ([]domain.SubJournal, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT sub_journal_id, code, created_at, created_by, last_updated_at, last_updated_by
		FROM sub_journals ORDER BY code;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sub-journals: %w", err)
	}
	defer rows.Close()

	modelSubJournals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.SubJournal, error) {
		var sj models.SubJournal
		err := row.Scan(&sj.SubJournalID, &sj.Code, &sj.CreatedAt, &sj.CreatedBy, &sj.LastUpdatedAt, &sj.LastUpdatedBy)
		return sj, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan sub-journals: %w", err)
	}

	out := make([]domain.SubJournal, len(modelSubJournals))
	for i, m := range modelSubJournals {
		sj := mapping.ToDomainSubJournal(m)
		names, err := r.findNamesByOwner(ctx, sj.SubJournalID)
		if err != nil {
			return nil, err
		}
		sj.Names = names
		out[i] = sj
	}
	return out, nil
}
