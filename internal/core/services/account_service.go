package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openbooks/ledger_core_app/internal/apperrors"
	"github.com/openbooks/ledger_core_app/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_core_app/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_core_app/internal/core/ports/services"
	"github.com/openbooks/ledger_core_app/internal/dto"
	"github.com/openbooks/ledger_core_app/internal/utils/revision"
	"github.com/openbooks/ledger_core_app/internal/utils/structmerge"
)

// accountService serves account reads and revision-fenced mutations.
type accountService struct {
	BaseService
	repo  portsrepo.LedgerRepositoryWithTx
	audit portssvc.AuditRecorder
}

// NewAccountService creates the account service.
func NewAccountService(repo portsrepo.LedgerRepositoryWithTx, audit portssvc.AuditRecorder) portssvc.AccountSvcFacade {
	return &accountService{repo: repo, audit: audit}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetAccountByID returns the account with its current revision token.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*dto.AccountResponse, error) {
	account, salt, err := s.fetchWithSalt(ctx, accountID)
	if err != nil {
		return nil, err
	}
	token := revision.Compute(salt, account.ServerUpdatedAt, account.LastUpdatedAt)
	resp := dto.ToAccountResponse(account, token)
	return &resp, nil
}

// UpdateAccount applies a rename/flag/extra update. The caller-supplied
// revision token is validated against the stored entity before any write
// transaction is opened; a stale token fails with a revision mismatch and
// leaves the account untouched.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*dto.AccountResponse, error) {
	logger := s.GetLogger(ctx)

	account, salt, err := s.fetchWithSalt(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := revision.Check(req.Revision, salt, account.ServerUpdatedAt, account.LastUpdatedAt); err != nil {
		logger.Warn("Revision check failed for account update", slog.String("account_id", accountID))
		return nil, err
	}

	if req.Code != nil {
		if *req.Code == "" {
			return nil, apperrors.NewDetailed(apperrors.ErrBadRequest, "account code must not be empty")
		}
		account.Code = *req.Code
	}
	if req.AllowsDebit != nil {
		account.AllowsDebit = *req.AllowsDebit
	}
	if req.AllowsCredit != nil {
		account.AllowsCredit = *req.AllowsCredit
	}
	if !account.IsCategory && !account.AllowsDebit && !account.AllowsCredit {
		return nil, apperrors.NewDetailed(apperrors.ErrRuleViolation,
			fmt.Sprintf("account %s must allow debit or credit postings", account.Code))
	}

	if req.Extra != nil {
		// Overrides merge into the stored payload; sibling keys survive.
		merged := structmerge.MergeMaps(account.Extra, req.Extra)
		if account.IsRoot() {
			// The ledger salt is immutable.
			merged[domain.SaltExtraKey] = salt
		}
		account.Extra = merged
	}

	now := time.Now().UTC()
	if len(req.Names) > 0 {
		account.Names = namesFromSpecs(account.AccountID, req.Names, userID, now)
	} else {
		account.Names = nil
	}
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	if err := s.repo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	s.audit.Record(ctx, "account.update", map[string]any{
		"accountID": accountID,
		"code":      account.Code,
	})

	// Re-read so the new revision token reflects the stored row timestamp.
	updated, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: account %s unreadable after update: %v", apperrors.ErrIntegrity, accountID, err)
	}
	token := revision.Compute(salt, updated.ServerUpdatedAt, updated.LastUpdatedAt)
	resp := dto.ToAccountResponse(updated, token)
	return &resp, nil
}

// fetchWithSalt loads an account together with the ledger salt from the root
// account's extra payload.
func (s *accountService) fetchWithSalt(ctx context.Context, accountID string) (*domain.Account, string, error) {
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.NewDetailed(apperrors.ErrBadAccount,
				fmt.Sprintf("account %s not found", accountID))
		}
		return nil, "", err
	}

	if account.IsRoot() {
		return account, account.Salt(), nil
	}

	root, err := s.repo.FindRootAccount(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("%w: ledger root not found while loading account %s: %v", apperrors.ErrIntegrity, accountID, err)
	}
	salt := root.Salt()
	if salt == "" {
		return nil, "", fmt.Errorf("%w: ledger root carries no salt", apperrors.ErrIntegrity)
	}
	return account, salt, nil
}
