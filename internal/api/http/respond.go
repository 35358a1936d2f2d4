package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps domain error conditions onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var ste *domain.StateTransitionError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeErrorMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrCarUnavailable):
		writeErrorMessage(w, http.StatusConflict, err.Error())
	case errors.As(err, &ste):
		writeErrorMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrStartDateInPast),
		errors.Is(err, domain.ErrMissingDocument),
		errors.Is(err, domain.ErrUnverifiedDocument):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("Unhandled error in HTTP handler", "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
