package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/RhisavRay/Wallet-Wizard/internal/auth"
	"github.com/RhisavRay/Wallet-Wizard/internal/core"
	"github.com/RhisavRay/Wallet-Wizard/internal/remote"
	"github.com/RhisavRay/Wallet-Wizard/internal/services"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// respondError maps a service error to its HTTP status.
func respondError(w http.ResponseWriter, err error) {
	writeError(w, statusForError(err), err.Error())
}

// decodeJSON decodes the request body into dst, reporting a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// statusForError translates the error taxonomy at the API edge. Validation
// and rule failures happen before any dispatch, so 422 responses guarantee
// nothing changed.
func statusForError(err error) int {
	switch {
	case errors.Is(err, remote.ErrUnauthenticated), errors.Is(err, auth.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, remote.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateBudget):
		return http.StatusConflict
	case errors.Is(err, services.ErrMissingID),
		errors.Is(err, services.ErrUnknownCategory),
		errors.Is(err, services.ErrNotExpenseCategory),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrNameTooShort),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrEmptyAccount),
		errors.Is(err, core.ErrEmptyMonth),
		errors.Is(err, core.ErrInvalidLimit),
		errors.Is(err, core.ErrNoteTooLong):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
