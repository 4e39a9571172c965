package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"divecenter-backend/internal/domain"
	"divecenter-backend/internal/logger"
	"divecenter-backend/internal/security"
	"divecenter-backend/internal/service"
)

const dateLayout = "2006-01-02"

type errorResponse struct {
	Error     string                      `json:"error"`
	Kind      string                      `json:"kind"`
	Field     string                      `json:"field,omitempty"`
	Conflicts []domain.AssignmentConflict `json:"conflicts,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses. Conflict is
// an expected business outcome and carries the conflicting assignments so
// the client can show which rentals block the requested window.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *domain.ValidationError
		conflictErr   *domain.ConflictError
		stateErr      *domain.StateError
	)

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found", Kind: "not_found"})
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Error(), Kind: "validation", Field: validationErr.Field})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, errorResponse{Error: conflictErr.Error(), Kind: "conflict", Conflicts: conflictErr.Conflicts})
	case errors.As(err, &stateErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: stateErr.Error(), Kind: "state"})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken),
		errors.Is(err, security.ErrWrongTokenType):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error(), Kind: "unauthorized"})
	default:
		logger.ErrorContext(r.Context(), "internal error", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Kind: "internal"})
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	return nil
}

// parseDate parses a required "2006-01-02" value.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return t, nil
}

// parseOptionalDate returns nil for an empty value.
func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
