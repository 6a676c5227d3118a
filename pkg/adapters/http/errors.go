package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/stm/pkg/adapters/file"
	"github.com/aretw0/stm/pkg/domain"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps core errors to transport codes.
func statusFor(err error) int {
	var verrs validator.ValidationErrors
	var br *badRequest
	switch {
	case errors.Is(err, domain.ErrModelNotFound),
		errors.Is(err, domain.ErrStateNotFound),
		errors.Is(err, domain.ErrTransitionNotFound),
		errors.Is(err, domain.ErrInputNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStateExists),
		errors.Is(err, domain.ErrInputExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidEndpoint),
		errors.Is(err, domain.ErrMalformedExpression),
		errors.Is(err, domain.ErrUnsupportedDecomposition),
		errors.Is(err, domain.ErrDeadEnd):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidSteps),
		errors.Is(err, file.ErrUnsupportedFormat),
		errors.As(err, &verrs),
		errors.As(err, &br):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

// decode reads and validates a JSON body.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &badRequest{err: err}
	}
	return validate.Struct(v)
}

type badRequest struct{ err error }

func (e *badRequest) Error() string { return "invalid request body: " + e.err.Error() }
func (e *badRequest) Unwrap() error { return e.err }
