package domain

// Name is a localized display label owned by an account, domain, currency or
// sub-journal. The owner reference is a back-reference, not ownership; names
// are created in the same transaction as their owner.
type Name struct {
	NameID   string `json:"nameID"`
	OwnerID  string `json:"ownerID"`
	Language string `json:"language"`
	Text     string `json:"text"`
	AuditFields
}
