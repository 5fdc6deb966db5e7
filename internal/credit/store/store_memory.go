package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"credito/internal/credit/models"
	"credito/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store. Ids come from a monotonic counter
// and are never reused after a delete.
type InMemory struct {
	mu      sync.RWMutex
	credits map[int64]*models.Credit
	nextID  int64
}

func NewInMemory() *InMemory {
	return &InMemory{credits: make(map[int64]*models.Credit)}
}

func (s *InMemory) FindByID(_ context.Context, id int64) (*models.Credit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.credits[id]; ok {
		return c.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

// FindByIDForUpdate is FindByID; isolation comes from the caller's tx lock.
func (s *InMemory) FindByIDForUpdate(ctx context.Context, id int64) (*models.Credit, error) {
	return s.FindByID(ctx, id)
}

func (s *InMemory) FindByConstitutedNumber(_ context.Context, number string) (*models.Credit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c := s.byNumberLocked(number); c != nil {
		return c.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByNfseNumber(_ context.Context, nfse string) (*models.Credit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// lowest id wins when several credits share an invoice
	var found *models.Credit
	for _, c := range s.credits {
		if c.NfseNumber == nfse && (found == nil || c.ID < found.ID) {
			found = c
		}
	}
	if found == nil {
		return nil, sentinel.ErrNotFound
	}
	return found.Clone(), nil
}

func (s *InMemory) ListByStatus(_ context.Context, status models.Status, req models.PageRequest) (models.Page[*models.Credit], error) {
	return s.page(func(c *models.Credit) bool { return c.Status == status }, req), nil
}

func (s *InMemory) ListByType(_ context.Context, creditType models.CreditType, req models.PageRequest) (models.Page[*models.Credit], error) {
	return s.page(func(c *models.Credit) bool { return c.CreditType == creditType }, req), nil
}

func (s *InMemory) ListByCompanyTaxID(_ context.Context, taxID string) ([]*models.Credit, error) {
	return s.filter(func(c *models.Credit) bool { return c.CompanyTaxID == taxID }, models.Sort{}), nil
}

func (s *InMemory) ListByConstitutionDateRange(_ context.Context, start, end models.Date) ([]*models.Credit, error) {
	return s.filter(func(c *models.Credit) bool {
		return !c.ConstitutionDate.Before(start) && !c.ConstitutionDate.After(end)
	}, models.Sort{}), nil
}

func (s *InMemory) ListByCompanyAndStatus(_ context.Context, taxID string, status models.Status, req models.PageRequest) (models.Page[*models.Credit], error) {
	return s.page(func(c *models.Credit) bool {
		return c.CompanyTaxID == taxID && c.Status == status
	}, req), nil
}

func (s *InMemory) SearchByTerm(_ context.Context, term string, req models.PageRequest) (models.Page[*models.Credit], error) {
	needle := strings.ToLower(term)
	return s.page(func(c *models.Credit) bool {
		return strings.Contains(strings.ToLower(c.ConstitutedCreditNumber), needle) ||
			strings.Contains(strings.ToLower(c.NfseNumber), needle)
	}, req), nil
}

func (s *InMemory) ListAll(_ context.Context, req models.PageRequest) (models.Page[*models.Credit], error) {
	return s.page(func(*models.Credit) bool { return true }, req), nil
}

// Save inserts when c.ID is zero and updates otherwise. On insert c.ID is
// filled in.
func (s *InMemory) Save(_ context.Context, c *models.Credit) error {
	if c == nil {
		return fmt.Errorf("credit is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.byNumberLocked(c.ConstitutedCreditNumber); existing != nil && existing.ID != c.ID {
		return fmt.Errorf("constituted credit number %q: %w", c.ConstitutedCreditNumber, sentinel.ErrAlreadyUsed)
	}
	if c.ID == 0 {
		s.nextID++
		c.ID = s.nextID
	} else if _, ok := s.credits[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.credits[c.ID] = c.Clone()
	return nil
}

func (s *InMemory) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.credits[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.credits, id)
	return nil
}

func (s *InMemory) byNumberLocked(number string) *models.Credit {
	for _, c := range s.credits {
		if c.ConstitutedCreditNumber == number {
			return c
		}
	}
	return nil
}

func (s *InMemory) filter(match func(*models.Credit) bool, sortBy models.Sort) []*models.Credit {
	s.mu.RLock()
	out := make([]*models.Credit, 0)
	for _, c := range s.credits {
		if match(c) {
			out = append(out, c.Clone())
		}
	}
	s.mu.RUnlock()

	sortBy = sortBy.OrDefault()
	slices.SortStableFunc(out, func(a, b *models.Credit) int {
		r := compareBy(a, b, sortBy.Field)
		if r == 0 {
			r = cmp.Compare(a.ID, b.ID)
		}
		if sortBy.Direction == models.Desc {
			return -r
		}
		return r
	})
	return out
}

func (s *InMemory) page(match func(*models.Credit) bool, req models.PageRequest) models.Page[*models.Credit] {
	all := s.filter(match, req.Sort)
	total := int64(len(all))
	start := min(req.Offset(), len(all))
	end := start + max(0, min(req.Size, len(all)-start))
	return models.NewPage(all[start:end], req, total)
}

func compareBy(a, b *models.Credit, field models.SortField) int {
	switch field {
	case models.SortByConstitutedCreditNumber:
		return cmp.Compare(a.ConstitutedCreditNumber, b.ConstitutedCreditNumber)
	case models.SortByNfseNumber:
		return cmp.Compare(a.NfseNumber, b.NfseNumber)
	case models.SortByConstitutionDate:
		return a.ConstitutionDate.Compare(b.ConstitutionDate.Time)
	case models.SortByIssqnValue:
		return a.IssqnValue.Cmp(b.IssqnValue)
	case models.SortByCreditType:
		return cmp.Compare(a.CreditType, b.CreditType)
	case models.SortByStatus:
		return cmp.Compare(a.Status, b.Status)
	case models.SortByRegisteredAt:
		return a.RegisteredAt.Compare(b.RegisteredAt)
	case models.SortByUpdatedAt:
		return compareOptionalTime(a, b)
	default:
		return cmp.Compare(a.ID, b.ID)
	}
}

// nulls sort last ascending, as Postgres does
func compareOptionalTime(a, b *models.Credit) int {
	switch {
	case a.UpdatedAt == nil && b.UpdatedAt == nil:
		return 0
	case a.UpdatedAt == nil:
		return 1
	case b.UpdatedAt == nil:
		return -1
	default:
		return a.UpdatedAt.Compare(*b.UpdatedAt)
	}
}
