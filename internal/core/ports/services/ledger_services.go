package services

import (
	"context"

	"github.com/openbooks/ledger_core_app/internal/dto"
)

// LedgerSvcFacade exposes the ledger bootstrap and the read surface over the
// entities it creates.
type LedgerSvcFacade interface {
	// CreateLedger bootstraps a brand-new ledger from the supplied spec plus
	// the configured chart template, atomically.
	CreateLedger(ctx context.Context, req dto.CreateLedgerRequest, creatorUserID string) (*dto.CreateLedgerResponse, error)

	// GetRootAccount returns the ledger root with its revision token.
	GetRootAccount(ctx context.Context) (*dto.AccountResponse, error)

	ListCurrencies(ctx context.Context) ([]dto.CurrencyResponse, error)
	ListDomains(ctx context.Context) ([]dto.DomainResponse, error)
	ListSubJournals(ctx context.Context) ([]dto.SubJournalResponse, error)
}

// AccountSvcFacade exposes account reads and revision-fenced updates.
type AccountSvcFacade interface {
	// GetAccountByID returns the account with its current revision token.
	GetAccountByID(ctx context.Context, accountID string) (*dto.AccountResponse, error)

	// UpdateAccount applies a rename/flag/extra update after validating the
	// caller-supplied revision token against the stored entity.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*dto.AccountResponse, error)
}

// ChartTemplateLoader loads a chart-of-accounts template from external
// storage. A malformed template surfaces as apperrors.ErrInvalidData.
type ChartTemplateLoader interface {
	Load(path string) ([]dto.AccountSpec, error)
}

// AuditRecorder records audit events, fire-and-forget: failures are logged,
// never propagated.
type AuditRecorder interface {
	Record(ctx context.Context, eventKind string, payload map[string]any)
}
