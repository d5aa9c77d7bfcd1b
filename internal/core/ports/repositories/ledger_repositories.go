package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/openbooks/ledger_core_app/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves an account (with its names) by identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account (with its names) by its code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindRootAccount retrieves the single account with no parent.
	FindRootAccount(ctx context.Context) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts ordered by code.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for existing accounts.
type AccountWriter interface {
	// UpdateAccount persists a rename/flag/extra update. Names, when present,
	// replace the account's existing names in the same transaction.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// BootstrapWriter defines the create operations used by the one-shot ledger
// bootstrap. Every method takes the caller's transaction so the whole
// bootstrap commits or rolls back as a unit.
type BootstrapWriter interface {
	// CountAccountsInTx returns the number of accounts visible to tx.
	CountAccountsInTx(ctx context.Context, tx pgx.Tx) (int64, error)

	// SaveCurrencyInTx persists a new currency.
	SaveCurrencyInTx(ctx context.Context, tx pgx.Tx, currency domain.Currency) error

	// SaveDomainInTx persists a new domain partition.
	SaveDomainInTx(ctx context.Context, tx pgx.Tx, d domain.Domain) error

	// SaveSubJournalInTx persists a new sub-journal.
	SaveSubJournalInTx(ctx context.Context, tx pgx.Tx, sj domain.SubJournal) error

	// SaveAccountInTx persists a new account.
	SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error

	// SaveNamesInTx persists a batch of localized names.
	SaveNamesInTx(ctx context.Context, tx pgx.Tx, names []domain.Name) error

	// FindAccountByCodeInTx retrieves an account by code within tx.
	FindAccountByCodeInTx(ctx context.Context, tx pgx.Tx, code string) (*domain.Account, error)
}

// LedgerReader defines read operations for the remaining bootstrap entities.
type LedgerReader interface {
	// FindCurrencyByCode retrieves a currency by its code.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all currencies ordered by code.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// ListDomains retrieves all domain partitions with their names.
	ListDomains(ctx context.Context) ([]domain.Domain, error)

	// ListSubJournals retrieves all sub-journals with their names.
	ListSubJournals(ctx context.Context) ([]domain.SubJournal, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	AccountReader
	AccountWriter
	BootstrapWriter
	LedgerReader
}

// LedgerRepositoryWithTx extends the facade with transaction capabilities.
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
