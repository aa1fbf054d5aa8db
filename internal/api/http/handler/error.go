package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/trashtdl/todosync-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// handleError maps domain errors to HTTP responses. Anything unrecognized is
// reported as an internal error without leaking details.
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrEmailTaken),
		errors.Is(err, model.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrVerificationCodeInvalid),
		errors.Is(err, model.ErrVerificationCodeExpired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrLoginFailed):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, model.ErrMissingCredential),
		errors.Is(err, model.ErrInvalidCredential):
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
