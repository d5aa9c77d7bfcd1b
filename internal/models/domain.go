package models

// Domain is the persistence model for a ledger domain partition.
type Domain struct {
	DomainID            string `db:"domain_id"`
	Code                string `db:"code"`
	DefaultCurrencyCode string `db:"default_currency_code"`
	AuditFields
}
