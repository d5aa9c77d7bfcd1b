package dto

import "github.com/openbooks/ledger_core_app/internal/core/domain"

// CurrencyResponse is the external representation of a currency.
type CurrencyResponse struct {
	Code     string `json:"code"`
	Symbol   string `json:"symbol,omitempty"`
	Decimals int    `json:"decimals"`
}

// DomainResponse is the external representation of a domain partition.
type DomainResponse struct {
	DomainID            string         `json:"domainID"`
	Code                string         `json:"code"`
	DefaultCurrencyCode string         `json:"defaultCurrencyCode"`
	Names               []NameResponse `json:"names,omitempty"`
}

// SubJournalResponse is the external representation of a sub-journal.
type SubJournalResponse struct {
	SubJournalID string         `json:"subJournalID"`
	Code         string         `json:"code"`
	Names        []NameResponse `json:"names,omitempty"`
}

func toNameResponses(names []domain.Name) []NameResponse {
	out := make([]NameResponse, len(names))
	for i, n := range names {
		out[i] = NameResponse{Language: n.Language, Text: n.Text}
	}
	return out
}

// ToCurrencyResponse maps a domain currency to its response shape.
func ToCurrencyResponse(c domain.Currency) CurrencyResponse {
	return CurrencyResponse{Code: c.CurrencyCode, Symbol: c.Symbol, Decimals: c.Precision}
}

// ToDomainResponse maps a domain partition to its response shape.
func ToDomainResponse(d domain.Domain) DomainResponse {
	return DomainResponse{
		DomainID:            d.DomainID,
		Code:                d.Code,
		DefaultCurrencyCode: d.DefaultCurrencyCode,
		Names:               toNameResponses(d.Names),
	}
}

// ToSubJournalResponse maps a sub-journal to its response shape.
func ToSubJournalResponse(s domain.SubJournal) SubJournalResponse {
	return SubJournalResponse{SubJournalID: s.SubJournalID, Code: s.Code, Names: toNameResponses(s.Names)}
}
