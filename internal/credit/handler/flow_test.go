package handler_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"credito/internal/credit/handler"
	"credito/internal/credit/service"
	"credito/internal/credit/store"
	"credito/internal/events/publishers/logpub"
	"credito/pkg/testutil"
)

// TestCreditLifecycle drives the real service and in-memory store through
// the HTTP surface and checks the events each step emits.
func TestCreditLifecycle(t *testing.T) {
	var events bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&events, nil))
	svc := service.New(store.NewInMemory(), nil, logpub.New(logger, nil), service.WithLogger(logger))
	r := chi.NewRouter()
	handler.New(svc, logger).Register(r)

	registered := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	body := testutil.MustMarshal(t, map[string]any{
		"constitutedCreditNumber": "CR001",
		"nfseNumber":              "NFS001",
		"constitutionDate":        "2024-02-15",
		"issqnValue":              "1500.755",
		"creditType":              "PRINCIPAL",
		"companyTaxId":            "12345678000190",
	})

	testutil.Given(t, "an empty store", func(t *testing.T) {
		testutil.When(t, "a credit is created", func(t *testing.T) {
			req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/v1/creditos", body)
			req = testutil.WithRequestTime(testutil.WithRequestID(req, "req-1"), registered)
			rr := testutil.DoRequest(r, req)

			testutil.Then(t, "it is stored with the request time and a rounded amount", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusCreated)
				resp := testutil.UnmarshalResponse[handler.CreditResponse](t, rr)
				assert.Equal(t, int64(1), resp.ID)
				assert.True(t, resp.RegisteredAt.Equal(registered))
				assert.Equal(t, "1500.76", resp.IssqnValue.StringFixed(2))
				assert.Equal(t, "ACTIVE", resp.Status)
				assert.Nil(t, resp.UpdatedAt)
				assert.Contains(t, events.String(), "value=CREATED:1:CR001")
			})
		})

		testutil.When(t, "the same number is created again", func(t *testing.T) {
			rr := testutil.DoRequest(r, testutil.NewRequestWithBody(t, http.MethodPost, "/api/v1/creditos", body))

			testutil.Then(t, "it is rejected", func(t *testing.T) {
				testutil.AssertStatusAndMessage(t, rr, http.StatusNotFound, "credit already exists with this number")
			})
		})

		testutil.When(t, "the status changes", func(t *testing.T) {
			rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodPatch, "/api/v1/creditos/1/status?novoStatus=INACTIVE"))

			testutil.Then(t, "the credit is stamped and an event is emitted", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				testutil.AssertJSONHasKey(t, rr, "updatedAt")
				assert.Contains(t, events.String(), "value=STATUS_CHANGED:1:INACTIVE")
			})
		})

		testutil.When(t, "the credit is deleted", func(t *testing.T) {
			rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodDelete, "/api/v1/creditos/1"))
			testutil.AssertStatus(t, rr, http.StatusNoContent)

			testutil.Then(t, "it can no longer be read", func(t *testing.T) {
				rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/api/v1/creditos/1"))
				testutil.AssertStatus(t, rr, http.StatusNotFound)
				assert.Equal(t, "credit not found with id: 1", testutil.UnmarshalErrorResponse(t, rr)["message"])
				assert.Contains(t, events.String(), "value=DELETED:1:CR001")
			})
		})
	})
}
