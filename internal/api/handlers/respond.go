package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isandoval/librarian-be/internal/apperr"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError translates a service error into the HTTP response for it. The
// route-specific message goes out verbatim; unrecognized errors become a 500
// carrying the underlying detail.
func respondError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": msg})
	case errors.Is(err, apperr.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"msg": msg})
	case errors.Is(err, apperr.ErrInvalidInput), errors.Is(err, apperr.ErrDuplicateEmail):
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": msg})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"msg": msg})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"msg": msg, "error": err.Error()})
	}
}
