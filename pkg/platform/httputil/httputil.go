// Package httputil holds the JSON plumbing shared by HTTP handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "credito/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies; a credit payload is well under 1 KiB.
const maxBodyBytes = 1 << 20

// ErrorResponse is the error envelope returned to clients.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Validatable is implemented by request bodies that normalise and check
// themselves after decoding.
type Validatable interface {
	Validate() error
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes an error envelope with an explicit status.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Message: msg})
}

// WriteError translates a coded error into its default status.
// Internal errors never leak their cause.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)
	msg := dErrors.Message(err)
	if code == dErrors.CodeInternal {
		msg = "internal server error"
	}
	WriteMessage(w, status, msg)
}

// DecodeAndPrepare decodes a JSON body into T and runs its Validate method.
// On failure it writes a 400 response and returns false.
func DecodeAndPrepare[T any, P interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		msg := "invalid request body"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, msg))
		return nil, false
	}

	if err := P(&req).Validate(); err != nil {
		logger.WarnContext(ctx, "request validation failed",
			"request_id", requestID,
			"error", err,
		)
		if !dErrors.HasCode(err, dErrors.CodeValidation) && !dErrors.HasCode(err, dErrors.CodeBadRequest) {
			err = dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
		}
		WriteError(w, err)
		return nil, false
	}
	return &req, true
}
