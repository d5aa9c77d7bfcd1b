package mapping

import (
	"github.com/openbooks/ledger_core_app/internal/core/domain"
	"github.com/openbooks/ledger_core_app/internal/models"
)

// ToModelCurrency converts a domain currency to its persistence model.
func ToModelCurrency(c domain.Currency) models.Currency {
	return models.Currency{
		CurrencyCode: c.CurrencyCode,
		Symbol:       c.Symbol,
		Precision:    c.Precision,
		AuditFields:  ToModelAuditFields(c.AuditFields),
	}
}

// ToDomainCurrency converts a persistence model to a domain currency.
func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		CurrencyCode: m.CurrencyCode,
		Symbol:       m.Symbol,
		Precision:    m.Precision,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCurrencySlice converts a slice of currency models.
func ToDomainCurrencySlice(ms []models.Currency) []domain.Currency {
	out := make([]domain.Currency, len(ms))
	for i, m := range ms {
		out[i] = ToDomainCurrency(m)
	}
	return out
}
