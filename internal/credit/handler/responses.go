package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"credito/internal/credit/models"
)

func init() {
	// amounts go over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// CreditResponse is the wire shape of a credit.
type CreditResponse struct {
	ID                      int64           `json:"id"`
	ConstitutedCreditNumber string          `json:"constitutedCreditNumber"`
	NfseNumber              string          `json:"nfseNumber"`
	ConstitutionDate        models.Date     `json:"constitutionDate"`
	IssqnValue              decimal.Decimal `json:"issqnValue"`
	CreditType              string          `json:"creditType"`
	Description             string          `json:"description,omitempty"`
	Status                  string          `json:"status"`
	RegisteredAt            time.Time       `json:"registeredAt"`
	UpdatedAt               *time.Time      `json:"updatedAt"`
	Responsible             string          `json:"responsible,omitempty"`
	CompanyTaxID            string          `json:"companyTaxId,omitempty"`
}

func toCreditResponse(c *models.Credit) CreditResponse {
	return CreditResponse{
		ID:                      c.ID,
		ConstitutedCreditNumber: c.ConstitutedCreditNumber,
		NfseNumber:              c.NfseNumber,
		ConstitutionDate:        c.ConstitutionDate,
		IssqnValue:              c.IssqnValue.Round(2),
		CreditType:              string(c.CreditType),
		Description:             c.Description,
		Status:                  string(c.Status),
		RegisteredAt:            c.RegisteredAt,
		UpdatedAt:               c.UpdatedAt,
		Responsible:             c.Responsible,
		CompanyTaxID:            c.CompanyTaxID,
	}
}

func toCreditResponses(list []*models.Credit) []CreditResponse {
	out := make([]CreditResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCreditResponse(c))
	}
	return out
}

func toPageResponse(p models.Page[*models.Credit]) models.Page[CreditResponse] {
	return models.MapPage(p, toCreditResponse)
}
