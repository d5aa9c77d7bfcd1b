package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaltExtraKey is the key under which the per-ledger revision salt is stored
// inside the root account's extra payload. The salt is generated once at root
// creation and is read-only for the lifetime of the ledger.
const SaltExtraKey = "ledgerSalt"

// Account is one node in the chart of accounts. Exactly one account per
// ledger has an empty ParentAccountID: the root. Category accounts are
// structural only and cannot receive postings.
type Account struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"`
	ParentAccountID string          `json:"parentAccountID"` // empty only for the root
	IsCategory      bool            `json:"isCategory"`
	AllowsDebit     bool            `json:"allowsDebit"`
	AllowsCredit    bool            `json:"allowsCredit"`
	Extra           map[string]any  `json:"extra,omitempty"` // opaque application payload
	Names           []Name          `json:"names,omitempty"`
	Balance         decimal.Decimal `json:"balance"`
	// ServerUpdatedAt is the storage-maintained row timestamp, preferred over
	// LastUpdatedAt when computing revision tokens. Nil when the backend does
	// not maintain one.
	ServerUpdatedAt *time.Time `json:"-"`
	AuditFields
}

// IsRoot reports whether this account is the ledger root.
func (a Account) IsRoot() bool {
	return a.ParentAccountID == ""
}

// Salt returns the ledger salt from the extra payload, or "" when absent.
// Only the root account carries a salt.
func (a Account) Salt() string {
	if a.Extra == nil {
		return ""
	}
	s, _ := a.Extra[SaltExtraKey].(string)
	return s
}
