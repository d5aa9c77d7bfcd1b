package dto

// UpdateAccountRequest carries the rename/flag-update mutation for an
// existing account. Revision is mandatory; the update is rejected with a
// revision mismatch when it no longer matches the stored entity.
type UpdateAccountRequest struct {
	Revision     string         `json:"revision" binding:"required"`
	Code         *string        `json:"code,omitempty"`
	AllowsDebit  *bool          `json:"allowsDebit,omitempty"`
	AllowsCredit *bool          `json:"allowsCredit,omitempty"`
	Extra        map[string]any `json:"extra,omitempty"`
	Names        []NameSpec     `json:"names,omitempty"`
}
