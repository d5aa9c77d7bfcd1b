package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger_core_app/internal/apperrors"
	"github.com/openbooks/ledger_core_app/internal/core/domain"
	portsrepo "github.com/openbooks/ledger_core_app/internal/core/ports/repositories"
	"github.com/openbooks/ledger_core_app/internal/dto"
	"github.com/openbooks/ledger_core_app/internal/utils/structmerge"
)

// ChartBuilder creates a tree of accounts from an unordered collection of
// specs. Input accounts may reference a parent by code before that parent is
// declared, so resolution runs as repeated passes until a pass creates
// nothing (fixed point). All writes go through the caller's transaction.
type ChartBuilder struct {
	BaseService
	repo portsrepo.BootstrapWriter
}

func NewChartBuilder(repo portsrepo.BootstrapWriter) *ChartBuilder {
	return &ChartBuilder{repo: repo}
}

// createdNode carries the fields of an already-created account that child
// invariant checks need.
type createdNode struct {
	id           string
	isCategory   bool
	allowsDebit  bool
	allowsCredit bool
	isRoot       bool
}

// Build merges requestSpecs over templateSpecs keyed by code (request wins on
// conflict, template fills gaps), then resolves and persists the whole set.
// It returns the code -> identifier map for every account it created, root
// included. Unresolvable parents (missing or cyclic) fail the build with a
// bad-request error listing the affected codes.
func (b *ChartBuilder) Build(ctx context.Context, tx pgx.Tx, templateSpecs, requestSpecs []dto.AccountSpec, root domain.Account, creatorUserID string, now time.Time) (map[string]string, error) {
	working, err := mergeSpecs(templateSpecs, requestSpecs)
	if err != nil {
		return nil, err
	}
	if _, clash := working[root.Code]; clash {
		return nil, apperrors.NewDetailed(apperrors.ErrBadRequest,
			fmt.Sprintf("account code %s is reserved for the ledger root", root.Code))
	}

	created := map[string]createdNode{
		root.Code: {
			id:           root.AccountID,
			isCategory:   root.IsCategory,
			allowsDebit:  root.AllowsDebit,
			allowsCredit: root.AllowsCredit,
			isRoot:       true,
		},
	}
	result := map[string]string{root.Code: root.AccountID}

	for len(working) > 0 {
		progress := false

		codes := make([]string, 0, len(working))
		for code := range working {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		for _, code := range codes {
			spec := working[code]

			parentCode := root.Code
			if spec.ParentCode != nil {
				parentCode = *spec.ParentCode
			}

			parent, ok := created[parentCode]
			if !ok {
				// The parent may already exist in storage from an earlier
				// accounts batch.
				existing, err := b.repo.FindAccountByCodeInTx(ctx, tx, parentCode)
				if err != nil {
					if errors.Is(err, apperrors.ErrNotFound) {
						continue // maybe resolvable in a later pass
					}
					return nil, err
				}
				parent = createdNode{
					id:           existing.AccountID,
					isCategory:   existing.IsCategory,
					allowsDebit:  existing.AllowsDebit,
					allowsCredit: existing.AllowsCredit,
					isRoot:       existing.IsRoot(),
				}
				created[parentCode] = parent
			}

			node, err := b.createAccount(ctx, tx, spec, parent, creatorUserID, now)
			if err != nil {
				return nil, err
			}
			created[code] = node
			result[code] = node.id
			delete(working, code)
			progress = true
		}

		if !progress {
			break
		}
	}

	if len(working) > 0 {
		codes := make([]string, 0, len(working))
		for code := range working {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		details := make([]string, len(codes))
		for i, code := range codes {
			details[i] = "unresolved account code: " + code
		}
		return nil, apperrors.NewDetailed(apperrors.ErrBadRequest, details...)
	}

	return result, nil
}

// createAccount enforces the structural invariants for one account and
// persists it with its names.
func (b *ChartBuilder) createAccount(ctx context.Context, tx pgx.Tx, spec dto.AccountSpec, parent createdNode, creatorUserID string, now time.Time) (createdNode, error) {
	isCategory := spec.IsCategory != nil && *spec.IsCategory
	if isCategory && !parent.isCategory && !parent.isRoot {
		return createdNode{}, apperrors.NewDetailed(apperrors.ErrRuleViolation,
			fmt.Sprintf("category account %s must have a category or root parent", spec.Code))
	}

	// Polarity flags are inherited from the parent when omitted.
	allowsDebit := parent.allowsDebit
	if spec.AllowsDebit != nil {
		allowsDebit = *spec.AllowsDebit
	}
	allowsCredit := parent.allowsCredit
	if spec.AllowsCredit != nil {
		allowsCredit = *spec.AllowsCredit
	}
	if !isCategory && !allowsDebit && !allowsCredit {
		return createdNode{}, apperrors.NewDetailed(apperrors.ErrRuleViolation,
			fmt.Sprintf("account %s must allow debit or credit postings", spec.Code))
	}

	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            spec.Code,
		ParentAccountID: parent.id,
		IsCategory:      isCategory,
		AllowsDebit:     allowsDebit,
		AllowsCredit:    allowsCredit,
		Extra:           spec.Extra,
		Balance:         decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := b.repo.SaveAccountInTx(ctx, tx, account); err != nil {
		return createdNode{}, err
	}
	names := namesFromSpecs(account.AccountID, spec.Names, creatorUserID, now)
	if err := b.repo.SaveNamesInTx(ctx, tx, names); err != nil {
		return createdNode{}, err
	}

	return createdNode{
		id:           account.AccountID,
		isCategory:   account.IsCategory,
		allowsDebit:  account.AllowsDebit,
		allowsCredit: account.AllowsCredit,
	}, nil
}

// mergeSpecs combines the template and request account lists keyed by code
// using the structural merge rules, so request entries win field-by-field
// while template-only fields and accounts survive.
func mergeSpecs(templateSpecs, requestSpecs []dto.AccountSpec) (map[string]dto.AccountSpec, error) {
	templateMap, err := specsToShape(templateSpecs)
	if err != nil {
		return nil, err
	}
	requestMap, err := specsToShape(requestSpecs)
	if err != nil {
		return nil, err
	}

	merged := structmerge.MergeMaps(templateMap, requestMap)

	out := make(map[string]dto.AccountSpec, len(merged))
	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode merged account specs: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, apperrors.NewDetailed(apperrors.ErrBadRequest,
			fmt.Sprintf("merged account specs are not well-formed: %v", err))
	}
	for code, spec := range out {
		spec.Code = code
		out[code] = spec
	}
	return out, nil
}

// specsToShape turns a spec list into the JSON-shaped code-keyed map the
// merge engine operates on. Duplicate codes within one list are rejected so a
// later entry cannot silently swallow an earlier one. Note the array rule:
// when both sides declare names for the same account the lists concatenate
// (one name per language is a convention, not an enforced constraint).
func specsToShape(specs []dto.AccountSpec) (map[string]any, error) {
	out := make(map[string]any, len(specs))
	var duplicates []string
	reported := make(map[string]struct{})
	for _, spec := range specs {
		if _, dup := out[spec.Code]; dup {
			if _, done := reported[spec.Code]; !done {
				reported[spec.Code] = struct{}{}
				duplicates = append(duplicates, "duplicate account code: "+spec.Code)
			}
			continue
		}
		raw, err := json.Marshal(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to encode account spec %s: %w", spec.Code, err)
		}
		var shaped map[string]any
		if err := json.Unmarshal(raw, &shaped); err != nil {
			return nil, fmt.Errorf("failed to shape account spec %s: %w", spec.Code, err)
		}
		out[spec.Code] = shaped
	}
	if len(duplicates) > 0 {
		sort.Strings(duplicates)
		return nil, apperrors.NewDetailed(apperrors.ErrBadRequest, duplicates...)
	}
	return out, nil
}

// namesFromSpecs materializes domain names for a freshly created owner.
func namesFromSpecs(ownerID string, specs []dto.NameSpec, creatorUserID string, now time.Time) []domain.Name {
	names := make([]domain.Name, len(specs))
	for i, n := range specs {
		names[i] = domain.Name{
			NameID:   uuid.NewString(),
			OwnerID:  ownerID,
			Language: n.Language,
			Text:     n.Text,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
	}
	return names
}
