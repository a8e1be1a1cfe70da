// Package respond writes JSON responses and maps service errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	appErrors "github.com/unclebandit/neura-backend/internal/errors"
)

type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, status int, message, details string) {
	JSON(w, status, ErrorBody{Error: message, Details: details})
}

// ServiceError translates err into 400, 401, 404 or 500.
func ServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if ve, ok := appErrors.AsValidation(err); ok {
		Error(w, http.StatusBadRequest, ve.Message, ve.Details)
		return
	}
	if appErrors.IsNotFound(err) {
		Error(w, http.StatusNotFound, "not found", err.Error())
		return
	}
	if errors.Is(err, appErrors.ErrUnauthorized) {
		Error(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}
	logger.Error("request failed", "error", err)
	Error(w, http.StatusInternalServerError, "internal error", "")
}
