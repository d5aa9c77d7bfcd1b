package models

// EntityName is the persistence model for a localized label. OwnerID points
// at whichever entity the label belongs to.
type EntityName struct {
	NameID   string `db:"name_id"`
	OwnerID  string `db:"owner_id"`
	Language string `db:"language"`
	Text     string `db:"text"`
	AuditFields
}
