package models

import (
	"strings"

	dErrors "credito/pkg/domain-errors"
)

// CreditType classifies how a credit was constituted.
type CreditType string

const (
	CreditTypePrincipal     CreditType = "PRINCIPAL"
	CreditTypeSupplementary CreditType = "SUPPLEMENTARY"
	CreditTypeAdditional    CreditType = "ADDITIONAL"
	CreditTypeRectification CreditType = "RECTIFICATION"
	CreditTypeCancellation  CreditType = "CANCELLATION"
)

var creditTypeLabels = map[CreditType]string{
	CreditTypePrincipal:     "Principal",
	CreditTypeSupplementary: "Supplementary",
	CreditTypeAdditional:    "Additional",
	CreditTypeRectification: "Rectification",
	CreditTypeCancellation:  "Cancellation",
}

// ParseCreditType accepts enum names case-insensitively.
func ParseCreditType(s string) (CreditType, error) {
	t := CreditType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid credit type: "+s)
	}
	return t, nil
}

func (t CreditType) IsValid() bool {
	_, ok := creditTypeLabels[t]
	return ok
}

// Label is the human readable name of the type.
func (t CreditType) Label() string { return creditTypeLabels[t] }

func (t CreditType) String() string { return string(t) }

// Status is the lifecycle label of a credit. Any status may move to any other.
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusInactive   Status = "INACTIVE"
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusError      Status = "ERROR"
)

var statusLabels = map[Status]string{
	StatusActive:     "Active",
	StatusInactive:   "Inactive",
	StatusPending:    "Pending",
	StatusProcessing: "Processing",
	StatusError:      "Error",
}

// ParseStatus accepts enum names case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid status: "+s)
	}
	return st, nil
}

func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the human readable name of the status.
func (s Status) Label() string { return statusLabels[s] }

func (s Status) String() string { return string(s) }
