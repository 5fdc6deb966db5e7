// Package models holds the credit entity, its enums and the paging types
// shared by the store, service and handler layers.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column bounds enforced by the schema and by request validation.
const (
	MaxConstitutedNumberLen = 50
	MaxNfseNumberLen        = 50
	MaxDescriptionLen       = 255
	MaxResponsibleLen       = 100
	MaxCompanyTaxIDLen      = 20
)

// MaxIssqnValue is the exclusive bound of a NUMERIC(15,2) column.
var MaxIssqnValue = decimal.New(1, 13)

// IssqnValueFits reports whether v is storable once rounded to cents.
func IssqnValueFits(v decimal.Decimal) bool {
	return v.Round(2).Abs().LessThan(MaxIssqnValue)
}

// Credit is a constituted tax credit derived from an NFS-e invoice.
type Credit struct {
	ID                      int64
	ConstitutedCreditNumber string
	NfseNumber              string
	ConstitutionDate        Date
	IssqnValue              decimal.Decimal
	CreditType              CreditType
	Description             string
	Status                  Status
	RegisteredAt            time.Time
	UpdatedAt               *time.Time
	Responsible             string
	CompanyTaxID            string
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (c *Credit) Clone() *Credit {
	if c == nil {
		return nil
	}
	out := *c
	if c.UpdatedAt != nil {
		t := *c.UpdatedAt
		out.UpdatedAt = &t
	}
	return &out
}

// CreditInput is the client supplied payload for create and update.
// Identity and server-stamped fields are ignored when present.
type CreditInput struct {
	ConstitutedCreditNumber string
	NfseNumber              string
	ConstitutionDate        Date
	IssqnValue              decimal.Decimal
	CreditType              CreditType
	Description             string
	Status                  Status
	Responsible             string
	CompanyTaxID            string
}

// NewCredit maps an input onto a fresh entity. Status defaults to ACTIVE
// only when the input leaves it empty.
func NewCredit(in CreditInput, registeredAt time.Time) *Credit {
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	return &Credit{
		ConstitutedCreditNumber: in.ConstitutedCreditNumber,
		NfseNumber:              in.NfseNumber,
		ConstitutionDate:        in.ConstitutionDate,
		IssqnValue:              in.IssqnValue.Round(2),
		CreditType:              in.CreditType,
		Description:             in.Description,
		Status:                  status,
		RegisteredAt:            registeredAt,
		Responsible:             in.Responsible,
		CompanyTaxID:            in.CompanyTaxID,
	}
}

// ApplyUpdate overwrites the mutable fields from in and stamps UpdatedAt.
// The constituted number, constitution date and registration time are
// immutable here. The credit type is also kept from the existing entity
// whatever the input carries.
// TODO: confirm with product whether the type should be updatable; until then
// the update path deliberately leaves it untouched.
func (c *Credit) ApplyUpdate(in CreditInput, now time.Time) {
	c.NfseNumber = in.NfseNumber
	c.IssqnValue = in.IssqnValue.Round(2)
	c.Description = in.Description
	c.Status = in.Status
	c.Responsible = in.Responsible
	c.CompanyTaxID = in.CompanyTaxID
	c.UpdatedAt = &now
}

// ApplyStatus overwrites only the status and stamps UpdatedAt.
func (c *Credit) ApplyStatus(status Status, now time.Time) {
	c.Status = status
	c.UpdatedAt = &now
}
