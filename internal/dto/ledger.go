package dto

import (
	"time"

	"github.com/openbooks/ledger_core_app/internal/core/domain"
)

// NameSpec is one localized label supplied for an entity being created.
type NameSpec struct {
	Language string `json:"language" binding:"required"`
	Text     string `json:"text" binding:"required"`
}

// AccountSpec describes one account to create during bootstrap. The category
// and polarity flags are pointers so an omitted flag never clobbers a value
// the template declared: polarity is inherited from the parent, category
// defaults to false only when neither side sets it.
type AccountSpec struct {
	Code         string         `json:"code" binding:"required"`
	ParentCode   *string        `json:"parentCode,omitempty"` // nil binds to the root
	IsCategory   *bool          `json:"isCategory,omitempty"`
	AllowsDebit  *bool          `json:"allowsDebit,omitempty"`
	AllowsCredit *bool          `json:"allowsCredit,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"`
	Names        []NameSpec     `json:"names,omitempty"`
}

// CurrencySpec describes one currency to create during bootstrap.
type CurrencySpec struct {
	Code     string `json:"code" binding:"required,entitycode"`
	Symbol   string `json:"symbol,omitempty"`
	Decimals int    `json:"decimals" binding:"gte=0"`
}

// DomainSpec describes one domain partition. DefaultCurrencyCode must name a
// currency declared in the same bootstrap request.
type DomainSpec struct {
	Code                string     `json:"code" binding:"required,entitycode"`
	DefaultCurrencyCode string     `json:"defaultCurrencyCode" binding:"required"`
	Names               []NameSpec `json:"names,omitempty"`
}

// SubJournalSpec describes one subsidiary ledger channel.
type SubJournalSpec struct {
	Code  string     `json:"code" binding:"required,entitycode"`
	Names []NameSpec `json:"names,omitempty"`
}

// CreateLedgerRequest is the full bootstrap specification for a new ledger.
type CreateLedgerRequest struct {
	RootCode    string           `json:"rootCode,omitempty"` // defaults to "ROOT"
	RootNames   []NameSpec       `json:"rootNames,omitempty"`
	Currencies  []CurrencySpec   `json:"currencies" binding:"required,min=1,dive"`
	Domains     []DomainSpec     `json:"domains,omitempty" binding:"dive"`
	SubJournals []SubJournalSpec `json:"subJournals,omitempty" binding:"dive"`
	Accounts    []AccountSpec    `json:"accounts,omitempty" binding:"dive"`
	// UseTemplate controls whether the configured chart template is merged
	// underneath the request accounts.
	UseTemplate bool `json:"useTemplate,omitempty"`
}

// CreateLedgerResponse reports the created root and the code->identifier map
// for every account created by the bootstrap.
type CreateLedgerResponse struct {
	Root     AccountResponse   `json:"root"`
	Accounts map[string]string `json:"accounts"`
}

// AccountResponse is the external representation of an account. Revision is
// the optimistic-concurrency token guarding subsequent updates.
type AccountResponse struct {
	AccountID       string         `json:"accountID"`
	Code            string         `json:"code"`
	ParentAccountID string         `json:"parentAccountID,omitempty"`
	IsCategory      bool           `json:"isCategory"`
	AllowsDebit     bool           `json:"allowsDebit"`
	AllowsCredit    bool           `json:"allowsCredit"`
	Extra           map[string]any `json:"extra,omitempty"`
	Names           []NameResponse `json:"names,omitempty"`
	Balance         string         `json:"balance"`
	Revision        string         `json:"revision,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	LastUpdatedAt   time.Time      `json:"lastUpdatedAt"`
}

// NameResponse is the external representation of a localized label.
type NameResponse struct {
	Language string `json:"language"`
	Text     string `json:"text"`
}

// ToAccountResponse maps a domain account to its response shape. revisionToken
// may be empty when the caller has no salt in scope.
func ToAccountResponse(a *domain.Account, revisionToken string) AccountResponse {
	names := make([]NameResponse, len(a.Names))
	for i, n := range a.Names {
		names[i] = NameResponse{Language: n.Language, Text: n.Text}
	}
	extra := a.Extra
	if a.IsRoot() && extra != nil {
		// The ledger salt never leaves the server.
		redacted := make(map[string]any, len(extra))
		for k, v := range extra {
			if k == domain.SaltExtraKey {
				continue
			}
			redacted[k] = v
		}
		extra = redacted
	}
	return AccountResponse{
		AccountID:       a.AccountID,
		Code:            a.Code,
		ParentAccountID: a.ParentAccountID,
		IsCategory:      a.IsCategory,
		AllowsDebit:     a.AllowsDebit,
		AllowsCredit:    a.AllowsCredit,
		Extra:           extra,
		Names:           names,
		Balance:         a.Balance.String(),
		Revision:        revisionToken,
		CreatedAt:       a.CreatedAt,
		LastUpdatedAt:   a.LastUpdatedAt,
	}
}
