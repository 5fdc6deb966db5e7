package handler

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"credito/internal/credit/models"
	dErrors "credito/pkg/domain-errors"
)

// CreditRequest is the wire body for create and update. Identity and
// server-stamped fields (id, registeredAt, updatedAt) are accepted and
// ignored.
type CreditRequest struct {
	ConstitutedCreditNumber string           `json:"constitutedCreditNumber"`
	NfseNumber              string           `json:"nfseNumber"`
	ConstitutionDate        models.Date      `json:"constitutionDate"`
	IssqnValue              *decimal.Decimal `json:"issqnValue"`
	CreditType              string           `json:"creditType"`
	Description             string           `json:"description"`
	Status                  string           `json:"status"`
	Responsible             string           `json:"responsible"`
	CompanyTaxID            string           `json:"companyTaxId"`
}

// CreateCreditRequest requires every field the table declares NOT NULL,
// except status which defaults to ACTIVE.
type CreateCreditRequest struct {
	CreditRequest
}

func (r *CreateCreditRequest) Validate() error {
	r.normalize()
	if err := required("constitutedCreditNumber", r.ConstitutedCreditNumber); err != nil {
		return err
	}
	if r.ConstitutionDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "constitutionDate is required")
	}
	if r.CreditType == "" {
		return dErrors.New(dErrors.CodeValidation, "creditType is required")
	}
	return r.validateCommon()
}

// UpdateCreditRequest requires the overwritten NOT NULL fields. Number, date
// and type are ignored by the update path.
type UpdateCreditRequest struct {
	CreditRequest
}

func (r *UpdateCreditRequest) Validate() error {
	r.normalize()
	if r.Status == "" {
		return dErrors.New(dErrors.CodeValidation, "status is required")
	}
	return r.validateCommon()
}

func (r *CreditRequest) normalize() {
	r.ConstitutedCreditNumber = strings.TrimSpace(r.ConstitutedCreditNumber)
	r.NfseNumber = strings.TrimSpace(r.NfseNumber)
	r.CreditType = strings.ToUpper(strings.TrimSpace(r.CreditType))
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	r.Responsible = strings.TrimSpace(r.Responsible)
	r.CompanyTaxID = strings.TrimSpace(r.CompanyTaxID)
}

func (r *CreditRequest) validateCommon() error {
	if err := required("nfseNumber", r.NfseNumber); err != nil {
		return err
	}
	if r.IssqnValue == nil {
		return dErrors.New(dErrors.CodeValidation, "issqnValue is required")
	}
	if r.IssqnValue.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "issqnValue must not be negative")
	}
	if !models.IssqnValueFits(*r.IssqnValue) {
		return dErrors.New(dErrors.CodeValidation, "issqnValue must be less than "+models.MaxIssqnValue.String())
	}
	if r.CreditType != "" {
		if _, err := models.ParseCreditType(r.CreditType); err != nil {
			return err
		}
	}
	if r.Status != "" {
		if _, err := models.ParseStatus(r.Status); err != nil {
			return err
		}
	}
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"constitutedCreditNumber", r.ConstitutedCreditNumber, models.MaxConstitutedNumberLen},
		{"nfseNumber", r.NfseNumber, models.MaxNfseNumberLen},
		{"description", r.Description, models.MaxDescriptionLen},
		{"responsible", r.Responsible, models.MaxResponsibleLen},
		{"companyTaxId", r.CompanyTaxID, models.MaxCompanyTaxIDLen},
	}
	for _, c := range checks {
		if len([]rune(c.value)) > c.max {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be at most %d characters", c.field, c.max))
		}
	}
	return nil
}

// ToInput maps a validated request onto the service input.
func (r *CreditRequest) ToInput() models.CreditInput {
	in := models.CreditInput{
		ConstitutedCreditNumber: r.ConstitutedCreditNumber,
		NfseNumber:              r.NfseNumber,
		ConstitutionDate:        r.ConstitutionDate,
		CreditType:              models.CreditType(r.CreditType),
		Description:             r.Description,
		Status:                  models.Status(r.Status),
		Responsible:             r.Responsible,
		CompanyTaxID:            r.CompanyTaxID,
	}
	if r.IssqnValue != nil {
		in.IssqnValue = *r.IssqnValue
	}
	return in
}

func required(field, value string) error {
	if value == "" {
		return dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	return nil
}
