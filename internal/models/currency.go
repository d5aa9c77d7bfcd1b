package models

// Currency is the persistence model for a ledger currency.
type Currency struct {
	CurrencyCode string `db:"currency_code"`
	Symbol       string `db:"symbol"`
	Precision    int    `db:"precision"`
	AuditFields
}
