package mapping

import (
	"github.com/openbooks/ledger_core_app/internal/core/domain"
	"github.com/openbooks/ledger_core_app/internal/models"
)

// ToModelDomain converts a domain partition to its persistence model.
func ToModelDomain(d domain.Domain) models.Domain {
	return models.Domain{
		DomainID:            d.DomainID,
		Code:                d.Code,
		DefaultCurrencyCode: d.DefaultCurrencyCode,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDomain converts a persistence model to a domain partition.
func ToDomainDomain(m models.Domain) domain.Domain {
	return domain.Domain{
		DomainID:            m.DomainID,
		Code:                m.Code,
		DefaultCurrencyCode: m.DefaultCurrencyCode,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelSubJournal converts a sub-journal to its persistence model.
func ToModelSubJournal(s domain.SubJournal) models.SubJournal {
	return models.SubJournal{
		SubJournalID: s.SubJournalID,
		Code:         s.Code,
		AuditFields:  ToModelAuditFields(s.AuditFields),
	}
}

// ToDomainSubJournal converts a persistence model to a sub-journal.
func ToDomainSubJournal(m models.SubJournal) domain.SubJournal {
	return domain.SubJournal{
		SubJournalID: m.SubJournalID,
		Code:         m.Code,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
