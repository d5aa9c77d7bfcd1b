package models

// SubJournal is the persistence model for a subsidiary ledger channel.
type SubJournal struct {
	SubJournalID string `db:"sub_journal_id"`
	Code         string `db:"code"`
	AuditFields
}
