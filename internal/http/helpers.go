package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
)

// userID returns the authenticated user id placed on the context by the
// authed middleware.
func userID(r *http.Request) string {
	uid, _ := r.Context().Value(userIDKey).(string)
	return uid
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

const maxBodyBytes = 1 << 20 // 1 MiB

// decodeJSON parses the request body into dst, bounding the body size.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return core.NewValidationError("body", "unreadable")
	}
	if len(body) == 0 {
		return core.NewValidationError("body", "empty")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return core.NewValidationError("body", "malformed JSON")
	}
	return nil
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError translates the core error taxonomy to HTTP status codes:
// validation 422, not found 404, conflict 409, store unavailable 503,
// bad credentials 401, everything else 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: ve.Error(), Field: ve.Field})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, core.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: "conflict"})
	case errors.Is(err, core.ErrStoreUnavailable):
		slog.ErrorContext(r.Context(), "Store unavailable", "error", err, "url", r.URL.Path)
		w.Header().Set("Retry-After", "5")
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "store unavailable"})
	default:
		slog.ErrorContext(r.Context(), "Unhandled error", "error", err, "url", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

const dateLayout = "2006-01-02"

// parseDate accepts a calendar date (2006-01-02) or a full RFC 3339
// timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, core.NewValidationError("date", "must be YYYY-MM-DD or RFC 3339")
}

// parseAmountField parses a decimal amount string for the given field
// name, rewriting the generic parse error to point at the field.
func parseAmountField(field, s string) (core.Money, error) {
	m, err := core.ParseAmount(s)
	if err != nil {
		var ve *core.ValidationError
		if errors.As(err, &ve) {
			return 0, core.NewValidationError(field, ve.Reason)
		}
		return 0, err
	}
	return m, nil
}

// parseAmountAllowZero is parseAmountField for fields where zero is a
// meaningful value (budget allocations, opening balances).
func parseAmountAllowZero(field, s string) (core.Money, error) {
	if isZeroAmount(strings.TrimSpace(s)) {
		return 0, nil
	}
	return parseAmountField(field, s)
}

func isZeroAmount(s string) bool {
	if s == "" {
		return false
	}
	seenDigit := false
	seps := 0
	for _, r := range s {
		switch {
		case r == '0':
			seenDigit = true
		case r == '.' || r == ',':
			seps++
			if seps > 1 {
				return false
			}
		default:
			return false
		}
	}
	return seenDigit
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
