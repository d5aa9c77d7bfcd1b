package domain

// SubJournal is an optional subsidiary ledger channel.
type SubJournal struct {
	SubJournalID string `json:"subJournalID"`
	Code         string `json:"code"`
	Names        []Name `json:"names,omitempty"`
	AuditFields
}
