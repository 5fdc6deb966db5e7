package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"credito/internal/credit/models"
	"credito/internal/events"
	dErrors "credito/pkg/domain-errors"
	"credito/pkg/platform/sentinel"
	"credito/pkg/requestcontext"
)

const msgAlreadyExists = "credit already exists with this number"

const (
	opListAll               = "list_all"
	opGetByID               = "get_by_id"
	opGetByNumber           = "get_by_number"
	opGetByNfse             = "get_by_nfse"
	opListByStatus          = "list_by_status"
	opListByType            = "list_by_type"
	opListByCompany         = "list_by_company"
	opListByDateRange       = "list_by_date_range"
	opListByCompanyAndState = "list_by_company_and_status"
	opSearch                = "search"
	opCreate                = "create"
	opUpdate                = "update"
	opChangeStatus          = "change_status"
	opDelete                = "delete"
)

type page = models.Page[*models.Credit]

func (s *Service) ListAll(ctx context.Context, req models.PageRequest) (p page, err error) {
	ctx, done := s.begin(ctx, opListAll)
	defer func() { done(err) }()

	s.logger.InfoContext(ctx, "listing credits",
		"page", req.Page,
		"size", req.Size,
		"request_id", requestcontext.RequestID(ctx),
	)
	p, err = s.store.ListAll(ctx, req)
	return p, wrapStoreErr(err, "")
}

func (s *Service) GetByID(ctx context.Context, id int64) (c *models.Credit, err error) {
	ctx, done := s.begin(ctx, opGetByID, attribute.Int64("credit.id", id))
	defer func() { done(err) }()

	s.logger.InfoContext(ctx, "fetching credit", "credit_id", id, "request_id", requestcontext.RequestID(ctx))
	c, err = s.store.FindByID(ctx, id)
	return c, wrapStoreErr(err, fmt.Sprintf("credit not found with id: %d", id))
}

func (s *Service) GetByConstitutedNumber(ctx context.Context, number string) (c *models.Credit, err error) {
	ctx, done := s.begin(ctx, opGetByNumber)
	defer func() { done(err) }()

	s.logger.InfoContext(ctx, "fetching credit by number", "number", number, "request_id", requestcontext.RequestID(ctx))
	c, err = s.store.FindByConstitutedNumber(ctx, number)
	return c, wrapStoreErr(err, "credit not found with number: "+number)
}

func (s *Service) GetByNfseNumber(ctx context.Context, nfse string) (c *models.Credit, err error) {
	ctx, done := s.begin(ctx, opGetByNfse)
	defer func() { done(err) }()

	s.logger.InfoContext(ctx, "fetching credit by nfse", "nfse", nfse, "request_id", requestcontext.RequestID(ctx))
	c, err = s.store.FindByNfseNumber(ctx, nfse)
	return c, wrapStoreErr(err, "credit not found with NFS-e: "+nfse)
}

func (s *Service) ListByStatus(ctx context.Context, status models.Status, req models.PageRequest) (p page, err error) {
	ctx, done := s.begin(ctx, opListByStatus)
	defer func() { done(err) }()

	s.logger.InfoContext(ctx, "listing credits by status", "status", status, "request_id", requestcontext.RequestID(ctx))
	p, err = s.store.ListByStatus(ctx, status, req)
	return p, wrapStoreErr(err, "")
}

func (s *Service) ListByType(ctx context.Context, creditType models.CreditType, req models.PageRequest) (p page, err error) {
	ctx, done := s.begin(ctx, opListByType)
	defer func() { done(err) }()

	s.logger.InfoContext(ctx, "listing credits by type", "credit_type", creditType, "request_id", requestcontext.RequestID(ctx))
	p, err = s.store.ListByType(ctx, creditType, req)
	return p, wrapStoreErr(err, "")
}

func (s *Service) ListByCompanyTaxID(ctx context.Context, taxID string) (list []*models.Credit, err error) {
	ctx, done := s.begin(ctx, opListByCompany)
	defer func() { done(err) }()

	s.logger.InfoContext(ctx, "listing credits by company", "company_tax_id", taxID, "request_id", requestcontext.RequestID(ctx))
	list, err = s.store.ListByCompanyTaxID(ctx, taxID)
	return list, wrapStoreErr(err, "")
}

// ListByConstitutionDateRange returns credits constituted within [start, end].
func (s *Service) ListByConstitutionDateRange(ctx context.Context, start, end models.Date) (list []*models.Credit, err error) {
	ctx, done := s.begin(ctx, opListByDateRange)
	defer func() { done(err) }()

	s.logger.InfoContext(ctx, "listing credits by constitution date",
		"start", start.String(),
		"end", end.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	list, err = s.store.ListByConstitutionDateRange(ctx, start, end)
	return list, wrapStoreErr(err, "")
}

func (s *Service) ListByCompanyAndStatus(ctx context.Context, taxID string, status models.Status, req models.PageRequest) (p page, err error) {
	ctx, done := s.begin(ctx, opListByCompanyAndState)
	defer func() { done(err) }()

	s.logger.InfoContext(ctx, "listing credits by company and status",
		"company_tax_id", taxID,
		"status", status,
		"request_id", requestcontext.RequestID(ctx),
	)
	p, err = s.store.ListByCompanyAndStatus(ctx, taxID, status, req)
	return p, wrapStoreErr(err, "")
}

// SearchByTerm matches term case-insensitively against the constituted
// number and the NFS-e number.
func (s *Service) SearchByTerm(ctx context.Context, term string, req models.PageRequest) (p page, err error) {
	ctx, done := s.begin(ctx, opSearch)
	defer func() { done(err) }()

	s.logger.InfoContext(ctx, "searching credits", "term", term, "request_id", requestcontext.RequestID(ctx))
	p, err = s.store.SearchByTerm(ctx, term, req)
	return p, wrapStoreErr(err, "")
}

// Create registers a new credit. The number pre-check gives a clean error in
// the common case; under a race the store's unique constraint decides.
func (s *Service) Create(ctx context.Context, in models.CreditInput) (created *models.Credit, err error) {
	ctx, done := s.begin(ctx, opCreate)
	defer func() { done(err) }()

	s.logger.InfoContext(ctx, "creating credit",
		"number", in.ConstitutedCreditNumber,
		"request_id", requestcontext.RequestID(ctx),
	)
	if !in.CreditType.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid credit type: "+string(in.CreditType))
	}
	if in.Status != "" && !in.Status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid status: "+string(in.Status))
	}
	if err := checkIssqnValue(in.IssqnValue); err != nil {
		return nil, err
	}

	now := s.now(ctx)
	err = s.tx.RunInTx(ctx, func(store Store) error {
		_, err := store.FindByConstitutedNumber(ctx, in.ConstitutedCreditNumber)
		switch {
		case err == nil:
			return dErrors.New(dErrors.CodeConflict, msgAlreadyExists)
		case !errors.Is(err, sentinel.ErrNotFound):
			return wrapStoreErr(err, "")
		}

		c := models.NewCredit(in, now)
		if err := store.Save(ctx, c); err != nil {
			return wrapStoreErr(err, "")
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Created(created.ID, created.ConstitutedCreditNumber))
	s.logger.InfoContext(ctx, "credit created", "credit_id", created.ID, "request_id", requestcontext.RequestID(ctx))
	return created, nil
}

// Update overwrites the mutable fields of a credit. The constituted number,
// constitution date and credit type are kept from the stored credit.
func (s *Service) Update(ctx context.Context, id int64, in models.CreditInput) (updated *models.Credit, err error) {
	ctx, done := s.begin(ctx, opUpdate, attribute.Int64("credit.id", id))
	defer func() { done(err) }()

	s.logger.InfoContext(ctx, "updating credit", "credit_id", id, "request_id", requestcontext.RequestID(ctx))
	if !in.Status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid status: "+string(in.Status))
	}
	if err := checkIssqnValue(in.IssqnValue); err != nil {
		return nil, err
	}

	now := s.now(ctx)
	err = s.tx.RunInTx(ctx, func(store Store) error {
		c, err := store.FindByIDForUpdate(ctx, id)
		if err != nil {
			return wrapStoreErr(err, fmt.Sprintf("credit not found with id: %d", id))
		}
		c.ApplyUpdate(in, now)
		if err := store.Save(ctx, c); err != nil {
			return wrapStoreErr(err, fmt.Sprintf("credit not found with id: %d", id))
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Updated(updated.ID, updated.ConstitutedCreditNumber))
	s.logger.InfoContext(ctx, "credit updated", "credit_id", id, "request_id", requestcontext.RequestID(ctx))
	return updated, nil
}

// ChangeStatus moves a credit to any status; there are no guarded transitions.
func (s *Service) ChangeStatus(ctx context.Context, id int64, status models.Status) (updated *models.Credit, err error) {
	ctx, done := s.begin(ctx, opChangeStatus, attribute.Int64("credit.id", id))
	defer func() { done(err) }()

	s.logger.InfoContext(ctx, "changing credit status",
		"credit_id", id,
		"status", status,
		"request_id", requestcontext.RequestID(ctx),
	)
	if !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid status: "+string(status))
	}

	now := s.now(ctx)
	err = s.tx.RunInTx(ctx, func(store Store) error {
		c, err := store.FindByIDForUpdate(ctx, id)
		if err != nil {
			return wrapStoreErr(err, fmt.Sprintf("credit not found with id: %d", id))
		}
		c.ApplyStatus(status, now)
		if err := store.Save(ctx, c); err != nil {
			return wrapStoreErr(err, fmt.Sprintf("credit not found with id: %d", id))
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.StatusChanged(id, string(status)))
	s.logger.InfoContext(ctx, "credit status changed", "credit_id", id, "request_id", requestcontext.RequestID(ctx))
	return updated, nil
}

// Delete hard-deletes a credit. The DELETED event carries the number the
// credit had before deletion.
func (s *Service) Delete(ctx context.Context, id int64) (err error) {
	ctx, done := s.begin(ctx, opDelete, attribute.Int64("credit.id", id))
	defer func() { done(err) }()

	s.logger.InfoContext(ctx, "deleting credit", "credit_id", id, "request_id", requestcontext.RequestID(ctx))

	var number string
	err = s.tx.RunInTx(ctx, func(store Store) error {
		c, err := store.FindByIDForUpdate(ctx, id)
		if err != nil {
			return wrapStoreErr(err, fmt.Sprintf("credit not found with id: %d", id))
		}
		number = c.ConstitutedCreditNumber
		return wrapStoreErr(store.DeleteByID(ctx, id), fmt.Sprintf("credit not found with id: %d", id))
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.Deleted(id, number))
	s.logger.InfoContext(ctx, "credit deleted", "credit_id", id, "request_id", requestcontext.RequestID(ctx))
	return nil
}

// publish runs after commit. A failure is logged and swallowed so the caller
// still sees the committed mutation.
func (s *Service) publish(ctx context.Context, ev events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.TopicCreditEvents, ev); err != nil {
		s.logger.WarnContext(ctx, "failed to publish credit event",
			"event_type", ev.Type,
			"credit_id", ev.CreditID,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func (s *Service) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	started := time.Now()
	ctx, span := s.tracer.Start(ctx, "credit."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, dErrors.Message(err))
		}
		span.End()
		s.metrics.ObserveOperation(op, started, err)
	}
}

func checkIssqnValue(v decimal.Decimal) error {
	if v.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "issqnValue must not be negative")
	}
	if !models.IssqnValueFits(v) {
		return dErrors.New(dErrors.CodeValidation, "issqnValue must be less than "+models.MaxIssqnValue.String())
	}
	return nil
}

// wrapStoreErr translates store sentinels into coded errors. Already coded
// errors pass through untouched.
func wrapStoreErr(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound) && notFoundMsg != "":
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, msgAlreadyExists)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "credit store timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "credit store failure")
	}
}
