package store

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"credito/internal/credit/models"
	"credito/pkg/platform/sentinel"
)

type CreditStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *CreditStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestCreditStoreSuite(t *testing.T) {
	suite.Run(t, new(CreditStoreSuite))
}

func (s *CreditStoreSuite) newCredit(number, nfse string, date models.Date) *models.Credit {
	return models.NewCredit(models.CreditInput{
		ConstitutedCreditNumber: number,
		NfseNumber:              nfse,
		ConstitutionDate:        date,
		IssqnValue:              decimal.RequireFromString("150.75"),
		CreditType:              models.CreditTypePrincipal,
		CompanyTaxID:            "12345678000190",
	}, time.Now().UTC())
}

func (s *CreditStoreSuite) save(c *models.Credit) *models.Credit {
	s.Require().NoError(s.store.Save(s.ctx, c))
	return c
}

func (s *CreditStoreSuite) TestSaveAndLookups() {
	s.Run("assigns ids and finds by every key", func() {
		c := s.save(s.newCredit("CR001", "NFS001", models.NewDate(2024, 2, 1)))
		s.Equal(int64(1), c.ID)

		byID, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal("CR001", byID.ConstitutedCreditNumber)

		byNumber, err := s.store.FindByConstitutedNumber(s.ctx, "CR001")
		s.Require().NoError(err)
		s.Equal(c.ID, byNumber.ID)

		byNfse, err := s.store.FindByNfseNumber(s.ctx, "NFS001")
		s.Require().NoError(err)
		s.Equal(c.ID, byNfse.ID)
	})

	s.Run("returns ErrNotFound for unknown keys", func() {
		_, err := s.store.FindByID(s.ctx, 999)
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.FindByConstitutedNumber(s.ctx, "missing")
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.FindByNfseNumber(s.ctx, "missing")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned credits are copies", func() {
		found, err := s.store.FindByID(s.ctx, 1)
		s.Require().NoError(err)
		found.Status = models.StatusError

		again, err := s.store.FindByID(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal(models.StatusActive, again.Status)
	})
}

func (s *CreditStoreSuite) TestUniqueness() {
	s.save(s.newCredit("CR001", "NFS001", models.NewDate(2024, 1, 1)))

	s.Run("rejects a duplicate number on insert", func() {
		err := s.store.Save(s.ctx, s.newCredit("CR001", "NFS999", models.NewDate(2024, 1, 1)))
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("rejects taking another credit's number on update", func() {
		other := s.save(s.newCredit("CR002", "NFS002", models.NewDate(2024, 1, 1)))
		other.ConstitutedCreditNumber = "CR001"
		s.ErrorIs(s.store.Save(s.ctx, other), sentinel.ErrAlreadyUsed)
	})

	s.Run("exactly one concurrent insert wins", func() {
		const goroutines = 20
		var wg sync.WaitGroup
		var wins, conflicts atomic.Int32
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.store.Save(s.ctx, s.newCredit("RACE", "NFS", models.NewDate(2024, 1, 1)))
				switch {
				case err == nil:
					wins.Add(1)
				case errors.Is(err, sentinel.ErrAlreadyUsed):
					conflicts.Add(1)
				}
			}()
		}
		wg.Wait()
		s.Equal(int32(1), wins.Load())
		s.Equal(int32(goroutines-1), conflicts.Load())
	})
}

func (s *CreditStoreSuite) TestUpdateAndDelete() {
	c := s.save(s.newCredit("CR001", "NFS001", models.NewDate(2024, 1, 1)))

	s.Run("update overwrites the stored row", func() {
		c.ApplyStatus(models.StatusInactive, time.Now().UTC())
		s.Require().NoError(s.store.Save(s.ctx, c))

		found, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusInactive, found.Status)
		s.NotNil(found.UpdatedAt)
	})

	s.Run("delete removes and does not reuse the id", func() {
		s.Require().NoError(s.store.DeleteByID(s.ctx, c.ID))
		_, err := s.store.FindByID(s.ctx, c.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
		s.ErrorIs(s.store.DeleteByID(s.ctx, c.ID), sentinel.ErrNotFound)

		next := s.save(s.newCredit("CR002", "NFS002", models.NewDate(2024, 1, 1)))
		s.Greater(next.ID, c.ID)
	})

	s.Run("update of a deleted credit is not found", func() {
		s.ErrorIs(s.store.Save(s.ctx, c), sentinel.ErrNotFound)
	})
}

func (s *CreditStoreSuite) TestLists() {
	a := s.newCredit("CR001-A", "NFS-100", models.NewDate(2024, 1, 1))
	b := s.newCredit("cr001-b", "NFS-200", models.NewDate(2024, 12, 31))
	b.Status = models.StatusInactive
	c := s.newCredit("CR002", "NFS-CR001", models.NewDate(2025, 1, 1))
	c.CreditType = models.CreditTypeRectification
	c.CompanyTaxID = "99999999000199"
	d := s.newCredit("CR003", "NFS-300", models.NewDate(2023, 12, 31))
	for _, cr := range []*models.Credit{a, b, c, d} {
		s.save(cr)
	}
	first, _ := models.NewPageRequest(0, 10)

	s.Run("search matches number or nfse case-insensitively", func() {
		page, err := s.store.SearchByTerm(s.ctx, "CR001", first)
		s.Require().NoError(err)
		s.Equal(int64(3), page.TotalElements)
		s.Equal([]int64{a.ID, b.ID, c.ID}, ids(page.Content))
	})

	s.Run("search with no match is an empty page", func() {
		page, err := s.store.SearchByTerm(s.ctx, "nothing", first)
		s.Require().NoError(err)
		s.True(page.Empty)
		s.Equal(int64(0), page.TotalElements)
	})

	s.Run("date range is inclusive", func() {
		list, err := s.store.ListByConstitutionDateRange(s.ctx, models.NewDate(2024, 1, 1), models.NewDate(2024, 12, 31))
		s.Require().NoError(err)
		s.Equal([]int64{a.ID, b.ID}, ids(list))
	})

	s.Run("filters by status, type and company", func() {
		byStatus, err := s.store.ListByStatus(s.ctx, models.StatusActive, first)
		s.Require().NoError(err)
		s.Equal(int64(3), byStatus.TotalElements)

		byType, err := s.store.ListByType(s.ctx, models.CreditTypeRectification, first)
		s.Require().NoError(err)
		s.Equal([]int64{c.ID}, ids(byType.Content))

		byCompany, err := s.store.ListByCompanyTaxID(s.ctx, "12345678000190")
		s.Require().NoError(err)
		s.Equal([]int64{a.ID, b.ID, d.ID}, ids(byCompany))

		byCompanyStatus, err := s.store.ListByCompanyAndStatus(s.ctx, "12345678000190", models.StatusInactive, first)
		s.Require().NoError(err)
		s.Equal([]int64{b.ID}, ids(byCompanyStatus.Content))
	})

	s.Run("list all pages and sorts", func() {
		req, _ := models.NewPageRequest(1, 3)
		page, err := s.store.ListAll(s.ctx, req)
		s.Require().NoError(err)
		s.Equal(int64(4), page.TotalElements)
		s.Equal(2, page.TotalPages)
		s.Equal([]int64{d.ID}, ids(page.Content))
		s.True(page.Last)

		byDate := first.WithSort(models.Sort{Field: models.SortByConstitutionDate, Direction: models.Desc})
		sorted, err := s.store.ListAll(s.ctx, byDate)
		s.Require().NoError(err)
		s.Equal([]int64{c.ID, b.ID, a.ID, d.ID}, ids(sorted.Content))
	})

	s.Run("page past the end is empty", func() {
		req, _ := models.NewPageRequest(5, 10)
		page, err := s.store.ListAll(s.ctx, req)
		s.Require().NoError(err)
		s.Empty(page.Content)
		s.Equal(int64(4), page.TotalElements)
	})

	s.Run("largest page index does not overflow", func() {
		req, err := models.NewPageRequest(math.MaxInt/10, 10)
		s.Require().NoError(err)
		page, err := s.store.ListAll(s.ctx, req)
		s.Require().NoError(err)
		s.Empty(page.Content)
		s.True(page.Last)

		unchecked := models.PageRequest{Page: math.MaxInt, Size: 10}
		s.NotPanics(func() {
			page, err = s.store.ListByStatus(s.ctx, models.StatusActive, unchecked)
		})
		s.Require().NoError(err)
		s.Empty(page.Content)
	})
}

func (s *CreditStoreSuite) TestEmptyStore() {
	req, _ := models.NewPageRequest(0, 10)
	page, err := s.store.ListAll(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(int64(0), page.TotalElements)
	s.NotNil(page.Content)
	s.Empty(page.Content)

	list, err := s.store.ListByCompanyTaxID(s.ctx, "x")
	s.Require().NoError(err)
	s.NotNil(list)
	s.Empty(list)
}

func ids(credits []*models.Credit) []int64 {
	out := make([]int64, 0, len(credits))
	for _, c := range credits {
		out = append(out, c.ID)
	}
	return out
}
