package models

import (
	"math"
	"strings"

	dErrors "credito/pkg/domain-errors"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 2000
)

// Direction orders a sorted page.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection accepts asc/desc in any case.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "invalid sort direction: "+s)
}

// SortField names a sortable credit attribute by its JSON name.
type SortField string

const (
	SortByID                      SortField = "id"
	SortByConstitutedCreditNumber SortField = "constitutedCreditNumber"
	SortByNfseNumber              SortField = "nfseNumber"
	SortByConstitutionDate        SortField = "constitutionDate"
	SortByIssqnValue              SortField = "issqnValue"
	SortByCreditType              SortField = "creditType"
	SortByStatus                  SortField = "status"
	SortByRegisteredAt            SortField = "registeredAt"
	SortByUpdatedAt               SortField = "updatedAt"
)

var sortFields = map[SortField]struct{}{
	SortByID:                      {},
	SortByConstitutedCreditNumber: {},
	SortByNfseNumber:              {},
	SortByConstitutionDate:        {},
	SortByIssqnValue:              {},
	SortByCreditType:              {},
	SortByStatus:                  {},
	SortByRegisteredAt:            {},
	SortByUpdatedAt:               {},
}

// ParseSortField only accepts whitelisted attributes.
func ParseSortField(s string) (SortField, error) {
	f := SortField(strings.TrimSpace(s))
	if _, ok := sortFields[f]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, "invalid sort field: "+s)
	}
	return f, nil
}

// Sort is an optional ordering; the zero value means "by id ascending".
type Sort struct {
	Field     SortField
	Direction Direction
}

// OrDefault fills empty parts with id / ASC.
func (s Sort) OrDefault() Sort {
	if s.Field == "" {
		s.Field = SortByID
	}
	if s.Direction == "" {
		s.Direction = Asc
	}
	return s
}

// PageRequest selects a zero-based page of a list result.
type PageRequest struct {
	Page int
	Size int
	Sort Sort
}

// NewPageRequest validates the bounds and caps the size at MaxPageSize.
func NewPageRequest(page, size int) (PageRequest, error) {
	if page < 0 {
		return PageRequest{}, dErrors.New(dErrors.CodeValidation, "page index must not be less than zero")
	}
	if size < 1 {
		return PageRequest{}, dErrors.New(dErrors.CodeValidation, "page size must not be less than one")
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page > math.MaxInt/size {
		return PageRequest{}, dErrors.New(dErrors.CodeValidation, "page index too large")
	}
	return PageRequest{Page: page, Size: size}, nil
}

// WithSort returns a copy ordered by s.
func (p PageRequest) WithSort(s Sort) PageRequest {
	p.Sort = s
	return p
}

// Offset is the number of rows to skip. It saturates at math.MaxInt for
// requests built without NewPageRequest.
func (p PageRequest) Offset() int {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// TotalPages is the number of pages of this size needed to hold total rows.
func (p PageRequest) TotalPages(total int64) int {
	if p.Size <= 0 {
		return 0
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

// Page is a bounded slice of a list result plus paging metadata.
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Size             int   `json:"size"`
	Number           int   `json:"number"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

// NewPage assembles the metadata for content fetched with req.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := req.TotalPages(total)
	return Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Size:             req.Size,
		Number:           req.Page,
		NumberOfElements: len(content),
		First:            req.Page == 0,
		Last:             req.Page >= totalPages-1,
		Empty:            len(content) == 0,
	}
}

// MapPage converts the content of a page, keeping its metadata.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Content))
	for _, item := range p.Content {
		out = append(out, fn(item))
	}
	return Page[U]{
		Content:          out,
		TotalElements:    p.TotalElements,
		TotalPages:       p.TotalPages,
		Size:             p.Size,
		Number:           p.Number,
		NumberOfElements: p.NumberOfElements,
		First:            p.First,
		Last:             p.Last,
		Empty:            p.Empty,
	}
}
