//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"credito/internal/credit/models"
	"credito/internal/credit/store"
	"credito/pkg/platform/sentinel"
	txcontext "credito/pkg/platform/tx"
	"credito/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "credits"))
}

func newTestCredit(number, nfse string, date models.Date) *models.Credit {
	return models.NewCredit(models.CreditInput{
		ConstitutedCreditNumber: number,
		NfseNumber:              nfse,
		ConstitutionDate:        date,
		IssqnValue:              decimal.RequireFromString("1500.50"),
		CreditType:              models.CreditTypePrincipal,
		Description:             "integration",
		CompanyTaxID:            "12345678000190",
	}, time.Now().UTC().Truncate(time.Microsecond))
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	c := newTestCredit("CR001", "NFS001", models.NewDate(2024, 3, 15))
	s.Require().NoError(s.store.Save(ctx, c))
	s.NotZero(c.ID)

	found, err := s.store.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("CR001", found.ConstitutedCreditNumber)
	s.Equal("2024-03-15", found.ConstitutionDate.String())
	s.True(decimal.RequireFromString("1500.50").Equal(found.IssqnValue))
	s.Equal(models.StatusActive, found.Status)
	s.Equal("integration", found.Description)
	s.Empty(found.Responsible)
	s.Nil(found.UpdatedAt)
	s.True(c.RegisteredAt.Equal(found.RegisteredAt))

	_, err = s.store.FindByID(ctx, 999)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateAndDelete() {
	ctx := context.Background()
	c := newTestCredit("CR001", "NFS001", models.NewDate(2024, 3, 15))
	s.Require().NoError(s.store.Save(ctx, c))

	c.ApplyStatus(models.StatusPending, time.Now().UTC())
	s.Require().NoError(s.store.Save(ctx, c))
	found, err := s.store.FindByConstitutedNumber(ctx, "CR001")
	s.Require().NoError(err)
	s.Equal(models.StatusPending, found.Status)
	s.NotNil(found.UpdatedAt)

	s.Require().NoError(s.store.DeleteByID(ctx, c.ID))
	s.ErrorIs(s.store.DeleteByID(ctx, c.ID), sentinel.ErrNotFound)
	s.ErrorIs(s.store.Save(ctx, c), sentinel.ErrNotFound)

	next := newTestCredit("CR002", "NFS002", models.NewDate(2024, 3, 15))
	s.Require().NoError(s.store.Save(ctx, next))
	s.Greater(next.ID, c.ID)
}

// TestConcurrentUniqueNumberViolation verifies that the UNIQUE constraint
// lets exactly one of many racing inserts win.
func (s *PostgresStoreSuite) TestConcurrentUniqueNumberViolation() {
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Save(ctx, newTestCredit("RACE-001", "NFS", models.NewDate(2024, 1, 1)))
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrAlreadyUsed) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should get conflict error")
}

func (s *PostgresStoreSuite) TestQueries() {
	ctx := context.Background()
	a := newTestCredit("CR001-A", "NFS-100", models.NewDate(2024, 1, 1))
	b := newTestCredit("cr001-b", "NFS-200", models.NewDate(2024, 12, 31))
	b.Status = models.StatusInactive
	c := newTestCredit("CR002", "NFS-CR001", models.NewDate(2025, 1, 1))
	c.CreditType = models.CreditTypeRectification
	d := newTestCredit("CR_%", "NFS-300", models.NewDate(2023, 12, 31))
	for _, cr := range []*models.Credit{a, b, c, d} {
		s.Require().NoError(s.store.Save(ctx, cr))
	}
	first, _ := models.NewPageRequest(0, 10)

	s.Run("search is case-insensitive over number and nfse", func() {
		page, err := s.store.SearchByTerm(ctx, "cr001", first)
		s.Require().NoError(err)
		s.Equal(int64(3), page.TotalElements)
	})

	s.Run("search treats wildcards literally", func() {
		page, err := s.store.SearchByTerm(ctx, "_%", first)
		s.Require().NoError(err)
		s.Equal(int64(1), page.TotalElements)
		s.Equal(d.ID, page.Content[0].ID)
	})

	s.Run("date range is inclusive", func() {
		list, err := s.store.ListByConstitutionDateRange(ctx, models.NewDate(2024, 1, 1), models.NewDate(2024, 12, 31))
		s.Require().NoError(err)
		s.Len(list, 2)
	})

	s.Run("filters", func() {
		byType, err := s.store.ListByType(ctx, models.CreditTypeRectification, first)
		s.Require().NoError(err)
		s.Equal(int64(1), byType.TotalElements)

		byCompanyStatus, err := s.store.ListByCompanyAndStatus(ctx, "12345678000190", models.StatusInactive, first)
		s.Require().NoError(err)
		s.Equal(b.ID, byCompanyStatus.Content[0].ID)

		byNfse, err := s.store.FindByNfseNumber(ctx, "NFS-200")
		s.Require().NoError(err)
		s.Equal(b.ID, byNfse.ID)
	})

	s.Run("sorted pages", func() {
		req := first.WithSort(models.Sort{Field: models.SortByConstitutionDate, Direction: models.Desc})
		page, err := s.store.ListAll(ctx, req)
		s.Require().NoError(err)
		s.Equal(int64(4), page.TotalElements)
		s.Equal(c.ID, page.Content[0].ID)
		s.Equal(d.ID, page.Content[3].ID)
	})
}

func (s *PostgresStoreSuite) TestJoinsContextTransaction() {
	ctx := context.Background()
	tx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)

	c := newTestCredit("CR-TX", "NFS-TX", models.NewDate(2024, 1, 1))
	s.Require().NoError(s.store.Save(txcontext.WithTx(ctx, tx), c))
	s.Require().NoError(tx.Rollback())

	_, err = s.store.FindByID(ctx, c.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
