package domain

// Domain partitions journals and balances within a ledger. Its default
// currency must reference a currency created in the same bootstrap.
type Domain struct {
	DomainID            string `json:"domainID"`
	Code                string `json:"code"`
	DefaultCurrencyCode string `json:"defaultCurrencyCode"`
	Names               []Name `json:"names,omitempty"`
	AuditFields
}
