package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger_core_app/internal/apperrors"
	"github.com/openbooks/ledger_core_app/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_core_app/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_core_app/internal/core/ports/services"
	"github.com/openbooks/ledger_core_app/internal/dto"
	"github.com/openbooks/ledger_core_app/internal/utils"
	"github.com/openbooks/ledger_core_app/internal/utils/revision"
)

// DefaultRootCode is the account code the ledger root receives when the
// bootstrap request does not name one.
const DefaultRootCode = "ROOT"

// saltBytes is the length of the random ledger salt before hex encoding.
const saltBytes = 32

// ledgerService bootstraps a brand-new ledger and serves reads over the
// entities the bootstrap creates.
type ledgerService struct {
	BaseService
	repo         portsrepo.LedgerRepositoryWithTx
	templates    portssvc.ChartTemplateLoader
	audit        portssvc.AuditRecorder
	chart        *ChartBuilder
	templatePath string
}

// NewLedgerService creates the ledger bootstrap service. templatePath may be
// empty, in which case requests asking for the template fail with invalid
// data.
func NewLedgerService(repo portsrepo.LedgerRepositoryWithTx, templates portssvc.ChartTemplateLoader, audit portssvc.AuditRecorder, templatePath string) portssvc.LedgerSvcFacade {
	return &ledgerService{
		repo:         repo,
		templates:    templates,
		audit:        audit,
		chart:        NewChartBuilder(repo),
		templatePath: templatePath,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateLedger bootstraps the ledger inside one transaction: precondition,
// currencies, domains, sub-journals, root account, then the chart tree. Any
// failure rolls the whole unit of work back; no partial ledger is ever
// observable.
func (s *ledgerService) CreateLedger(ctx context.Context, req dto.CreateLedgerRequest, creatorUserID string) (*dto.CreateLedgerResponse, error) {
	logger := s.GetLogger(ctx)

	templateSpecs, err := s.loadTemplate(req)
	if err != nil {
		return nil, err
	}

	currencySet, err := validateLedgerSpec(req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	// No-op once the transaction is committed.
	defer s.repo.Rollback(ctx, tx)

	count, err := s.repo.CountAccountsInTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.NewDetailed(apperrors.ErrRuleViolation,
			fmt.Sprintf("ledger already contains %d accounts", count))
	}

	for _, c := range req.Currencies {
		currency := domain.Currency{
			CurrencyCode: c.Code,
			Symbol:       c.Symbol,
			Precision:    c.Decimals,
			AuditFields:  auditNow(creatorUserID, now),
		}
		if err := s.repo.SaveCurrencyInTx(ctx, tx, currency); err != nil {
			return nil, err
		}
	}

	for _, d := range req.Domains {
		if _, ok := currencySet[d.DefaultCurrencyCode]; !ok {
			// Caught again here in case validation and persistence ever drift.
			return nil, apperrors.NewDetailed(apperrors.ErrBadRequest,
				fmt.Sprintf("domain %s references unknown currency %s", d.Code, d.DefaultCurrencyCode))
		}
		dom := domain.Domain{
			DomainID:            uuid.NewString(),
			Code:                d.Code,
			DefaultCurrencyCode: d.DefaultCurrencyCode,
			AuditFields:         auditNow(creatorUserID, now),
		}
		if err := s.repo.SaveDomainInTx(ctx, tx, dom); err != nil {
			return nil, err
		}
		if err := s.repo.SaveNamesInTx(ctx, tx, namesFromSpecs(dom.DomainID, d.Names, creatorUserID, now)); err != nil {
			return nil, err
		}
	}

	for _, sj := range req.SubJournals {
		sub := domain.SubJournal{
			SubJournalID: uuid.NewString(),
			Code:         sj.Code,
			AuditFields:  auditNow(creatorUserID, now),
		}
		if err := s.repo.SaveSubJournalInTx(ctx, tx, sub); err != nil {
			return nil, err
		}
		if err := s.repo.SaveNamesInTx(ctx, tx, namesFromSpecs(sub.SubJournalID, sj.Names, creatorUserID, now)); err != nil {
			return nil, err
		}
	}

	root, salt, err := s.createRoot(ctx, tx, req, creatorUserID, now)
	if err != nil {
		return nil, err
	}

	createdAccounts, err := s.chart.Build(ctx, tx, templateSpecs, req.Accounts, root, creatorUserID, now)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Ledger bootstrapped",
		slog.String("root_account_id", root.AccountID),
		slog.Int("accounts", len(createdAccounts)),
		slog.Int("currencies", len(req.Currencies)),
		slog.Int("domains", len(req.Domains)),
		slog.Int("sub_journals", len(req.SubJournals)),
	)
	s.audit.Record(ctx, "ledger.bootstrap", map[string]any{
		"rootAccountID": root.AccountID,
		"accounts":      len(createdAccounts),
		"currencies":    len(req.Currencies),
		"domains":       len(req.Domains),
		"subJournals":   len(req.SubJournals),
	})

	// Re-read the root so the response carries the storage-maintained row
	// timestamp inside its revision token.
	persisted, err := s.repo.FindAccountByID(ctx, root.AccountID)
	if err != nil {
		return nil, fmt.Errorf("%w: root account vanished after commit: %v", apperrors.ErrIntegrity, err)
	}
	token := revision.Compute(salt, persisted.ServerUpdatedAt, persisted.LastUpdatedAt)

	rootResp := dto.ToAccountResponse(persisted, token)
	return &dto.CreateLedgerResponse{Root: rootResp, Accounts: createdAccounts}, nil
}

// loadTemplate fetches the configured chart template when the request asks
// for it.
func (s *ledgerService) loadTemplate(req dto.CreateLedgerRequest) ([]dto.AccountSpec, error) {
	if !req.UseTemplate {
		return nil, nil
	}
	if s.templatePath == "" {
		return nil, apperrors.NewDetailed(apperrors.ErrInvalidData, "no chart template is configured")
	}
	return s.templates.Load(s.templatePath)
}

// createRoot persists the root account with a freshly generated ledger salt
// embedded in its extra payload. The salt never changes for the lifetime of
// the ledger.
func (s *ledgerService) createRoot(ctx context.Context, tx pgx.Tx, req dto.CreateLedgerRequest, creatorUserID string, now time.Time) (domain.Account, string, error) {
	salt, err := utils.GenerateSecureRandomString(saltBytes)
	if err != nil {
		return domain.Account{}, "", fmt.Errorf("failed to generate ledger salt: %w", err)
	}

	rootCode := req.RootCode
	if rootCode == "" {
		rootCode = DefaultRootCode
	}

	root := domain.Account{
		AccountID:    uuid.NewString(),
		Code:         rootCode,
		IsCategory:   true,
		AllowsDebit:  true,
		AllowsCredit: true,
		Extra:        map[string]any{domain.SaltExtraKey: salt},
		Balance:      decimal.Zero,
		AuditFields:  auditNow(creatorUserID, now),
	}

	if err := s.repo.SaveAccountInTx(ctx, tx, root); err != nil {
		return domain.Account{}, "", err
	}
	if err := s.repo.SaveNamesInTx(ctx, tx, namesFromSpecs(root.AccountID, req.RootNames, creatorUserID, now)); err != nil {
		return domain.Account{}, "", err
	}

	return root, salt, nil
}

func auditNow(userID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}

// GetRootAccount returns the ledger root with its current revision token.
func (s *ledgerService) GetRootAccount(ctx context.Context) (*dto.AccountResponse, error) {
	root, err := s.repo.FindRootAccount(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewDetailed(apperrors.ErrBadAccount, "ledger has not been bootstrapped")
		}
		return nil, err
	}
	token := revision.Compute(root.Salt(), root.ServerUpdatedAt, root.LastUpdatedAt)
	resp := dto.ToAccountResponse(root, token)
	return &resp, nil
}

// ListCurrencies returns all currencies.
func (s *ledgerService) ListCurrencies(ctx context.Context) ([]dto.CurrencyResponse, error) {
	currencies, err := s.repo.ListCurrencies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list currencies")
		return nil, err
	}
	out := make([]dto.CurrencyResponse, len(currencies))
	for i, c := range currencies {
		out[i] = dto.ToCurrencyResponse(c)
	}
	return out, nil
}

// ListDomains returns all domain partitions.
func (s *ledgerService) ListDomains(ctx context.Context) ([]dto.DomainResponse, error) {
	domains, err := s.repo.ListDomains(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list domains")
		return nil, err
	}
	out := make([]dto.DomainResponse, len(domains))
	for i, d := range domains {
		out[i] = dto.ToDomainResponse(d)
	}
	return out, nil
}

// ListSubJournals returns all sub-journals.
func (s *ledgerService) ListSubJournals(ctx context.Context) ([]dto.SubJournalResponse, error) {
	subs, err := s.repo.ListSubJournals(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list sub-journals")
		return nil, err
	}
	out := make([]dto.SubJournalResponse, len(subs))
	for i, sj := range subs {
		out[i] = dto.ToSubJournalResponse(sj)
	}
	return out, nil
}

// validateLedgerSpec cross-checks the bootstrap request and accumulates every
// problem into one bad-request error. It returns the set of declared
// currency codes.
func validateLedgerSpec(req dto.CreateLedgerRequest) (map[string]struct{}, error) {
	var details []string

	currencySet := make(map[string]struct{}, len(req.Currencies))
	for _, c := range req.Currencies {
		if _, dup := currencySet[c.Code]; dup {
			details = append(details, fmt.Sprintf("duplicate currency code %s", c.Code))
		}
		currencySet[c.Code] = struct{}{}
		if c.Decimals < 0 {
			details = append(details, fmt.Sprintf("currency %s has negative decimals", c.Code))
		}
	}
	if len(currencySet) == 0 {
		details = append(details, "at least one currency is required")
	}

	domainCodes := make(map[string]struct{}, len(req.Domains))
	for _, d := range req.Domains {
		if _, dup := domainCodes[d.Code]; dup {
			details = append(details, fmt.Sprintf("duplicate domain code %s", d.Code))
		}
		domainCodes[d.Code] = struct{}{}
		if _, ok := currencySet[d.DefaultCurrencyCode]; !ok {
			details = append(details, fmt.Sprintf("domain %s references unknown currency %s", d.Code, d.DefaultCurrencyCode))
		}
	}

	subJournalCodes := make(map[string]struct{}, len(req.SubJournals))
	for _, sj := range req.SubJournals {
		if _, dup := subJournalCodes[sj.Code]; dup {
			details = append(details, fmt.Sprintf("duplicate sub-journal code %s", sj.Code))
		}
		subJournalCodes[sj.Code] = struct{}{}
	}

	if len(details) > 0 {
		return nil, apperrors.NewDetailed(apperrors.ErrBadRequest, details...)
	}
	return currencySet, nil
}
