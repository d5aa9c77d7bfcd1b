package domain

// Currency represents a supported currency in the ledger.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol       string `json:"symbol,omitempty"`
	Precision    int    `json:"precision"` // decimal places, non-negative
	AuditFields
}
