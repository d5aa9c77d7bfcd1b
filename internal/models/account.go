package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the persistence model for one chart-of-accounts node.
// Extra is stored as a JSONB payload; the root account keeps the ledger salt
// in there. RowUpdatedAt is maintained by a database trigger and feeds the
// revision token as the authoritative timestamp; it is nullable because not
// every backend maintains it.
type Account struct {
	AccountID       string          `db:"account_id"`
	Code            string          `db:"code"`
	ParentAccountID *string         `db:"parent_account_id"` // NULL only for the root
	IsCategory      bool            `db:"is_category"`
	AllowsDebit     bool            `db:"allows_debit"`
	AllowsCredit    bool            `db:"allows_credit"`
	Extra           []byte          `db:"extra"`
	Balance         decimal.Decimal `db:"balance"`
	RowUpdatedAt    *time.Time      `db:"row_updated_at"`
	AuditFields
}
