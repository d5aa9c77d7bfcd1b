package mapping

import (
	"github.com/openbooks/ledger_core_app/internal/core/domain"
	"github.com/openbooks/ledger_core_app/internal/models"
)

// ToModelAuditFields converts domain audit fields to their model shape.
func ToModelAuditFields(af domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     af.CreatedAt,
		CreatedBy:     af.CreatedBy,
		LastUpdatedAt: af.LastUpdatedAt,
		LastUpdatedBy: af.LastUpdatedBy,
	}
}

// ToDomainAuditFields converts model audit fields to their domain shape.
func ToDomainAuditFields(af models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     af.CreatedAt,
		CreatedBy:     af.CreatedBy,
		LastUpdatedAt: af.LastUpdatedAt,
		LastUpdatedBy: af.LastUpdatedBy,
	}
}
