package handler

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credito/internal/credit/models"
	dErrors "credito/pkg/domain-errors"
)

func validRequest() CreditRequest {
	v := decimal.RequireFromString("10.50")
	return CreditRequest{
		ConstitutedCreditNumber: " CR001 ",
		NfseNumber:              "NFS001",
		ConstitutionDate:        models.NewDate(2024, 1, 15),
		IssqnValue:              &v,
		CreditType:              "principal",
		Status:                  "pending",
		CompanyTaxID:            "12345678000190",
	}
}

func TestCreateCreditRequestValidate(t *testing.T) {
	t.Run("normalizes and accepts a complete body", func(t *testing.T) {
		req := CreateCreditRequest{validRequest()}
		require.NoError(t, req.Validate())

		in := req.ToInput()
		assert.Equal(t, "CR001", in.ConstitutedCreditNumber)
		assert.Equal(t, models.CreditTypePrincipal, in.CreditType)
		assert.Equal(t, models.StatusPending, in.Status)
	})

	t.Run("status may be omitted", func(t *testing.T) {
		req := CreateCreditRequest{validRequest()}
		req.Status = ""
		require.NoError(t, req.Validate())
	})

	cases := map[string]func(r *CreditRequest){
		"missing number":   func(r *CreditRequest) { r.ConstitutedCreditNumber = "  " },
		"missing nfse":     func(r *CreditRequest) { r.NfseNumber = "" },
		"missing date":     func(r *CreditRequest) { r.ConstitutionDate = models.Date{} },
		"missing type":     func(r *CreditRequest) { r.CreditType = "" },
		"missing value":    func(r *CreditRequest) { r.IssqnValue = nil },
		"negative value":   func(r *CreditRequest) { v := decimal.NewFromInt(-1); r.IssqnValue = &v },
		"value too large":  func(r *CreditRequest) { v := decimal.New(1, 13); r.IssqnValue = &v },
		"unknown type":     func(r *CreditRequest) { r.CreditType = "BONUS" },
		"unknown status":   func(r *CreditRequest) { r.Status = "ATIVO" },
		"long nfse":        func(r *CreditRequest) { r.NfseNumber = strings.Repeat("9", models.MaxNfseNumberLen+1) },
		"long responsible": func(r *CreditRequest) { r.Responsible = strings.Repeat("a", models.MaxResponsibleLen+1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := CreateCreditRequest{validRequest()}
			mutate(&req.CreditRequest)
			err := req.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}

	t.Run("largest storable value is allowed", func(t *testing.T) {
		req := CreateCreditRequest{validRequest()}
		v := decimal.RequireFromString("9999999999999.99")
		req.IssqnValue = &v
		require.NoError(t, req.Validate())
	})

	t.Run("zero value is allowed", func(t *testing.T) {
		req := CreateCreditRequest{validRequest()}
		zero := decimal.Zero
		req.IssqnValue = &zero
		require.NoError(t, req.Validate())
	})
}

func TestUpdateCreditRequestValidate(t *testing.T) {
	t.Run("number, date and type are optional", func(t *testing.T) {
		req := UpdateCreditRequest{validRequest()}
		req.ConstitutedCreditNumber = ""
		req.ConstitutionDate = models.Date{}
		req.CreditType = ""
		require.NoError(t, req.Validate())
	})

	t.Run("status is required", func(t *testing.T) {
		req := UpdateCreditRequest{validRequest()}
		req.Status = ""
		err := req.Validate()
		require.Error(t, err)
		assert.Equal(t, "status is required", dErrors.Message(err))
	})
}
