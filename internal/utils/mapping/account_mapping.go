package mapping

import (
	"encoding/json"

	"github.com/openbooks/ledger_core_app/internal/core/domain"
	"github.com/openbooks/ledger_core_app/internal/models"
)

// ToModelAccount converts a domain account to its persistence model.
// The extra payload is serialized to JSON for the JSONB column.
func ToModelAccount(a domain.Account) (models.Account, error) {
	var extra []byte
	if a.Extra != nil {
		b, err := json.Marshal(a.Extra)
		if err != nil {
			return models.Account{}, err
		}
		extra = b
	}
	var parentID *string
	if a.ParentAccountID != "" {
		p := a.ParentAccountID
		parentID = &p
	}
	return models.Account{
		AccountID:       a.AccountID,
		Code:            a.Code,
		ParentAccountID: parentID,
		IsCategory:      a.IsCategory,
		AllowsDebit:     a.AllowsDebit,
		AllowsCredit:    a.AllowsCredit,
		Extra:           extra,
		Balance:         a.Balance,
		AuditFields:     ToModelAuditFields(a.AuditFields),
	}, nil
}

// ToDomainAccount converts a persistence model to a domain account.
func ToDomainAccount(m models.Account) (domain.Account, error) {
	var extra map[string]any
	if len(m.Extra) > 0 {
		if err := json.Unmarshal(m.Extra, &extra); err != nil {
			return domain.Account{}, err
		}
	}
	parentID := ""
	if m.ParentAccountID != nil {
		parentID = *m.ParentAccountID
	}
	return domain.Account{
		AccountID:       m.AccountID,
		Code:            m.Code,
		ParentAccountID: parentID,
		IsCategory:      m.IsCategory,
		AllowsDebit:     m.AllowsDebit,
		AllowsCredit:    m.AllowsCredit,
		Extra:           extra,
		Balance:         m.Balance,
		ServerUpdatedAt: m.RowUpdatedAt,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainName converts a persisted entity name to its domain shape.
func ToDomainName(m models.EntityName) domain.Name {
	return domain.Name{
		NameID:      m.NameID,
		OwnerID:     m.OwnerID,
		Language:    m.Language,
		Text:        m.Text,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelName converts a domain name to its persistence model.
func ToModelName(n domain.Name) models.EntityName {
	return models.EntityName{
		NameID:      n.NameID,
		OwnerID:     n.OwnerID,
		Language:    n.Language,
		Text:        n.Text,
		AuditFields: ToModelAuditFields(n.AuditFields),
	}
}
