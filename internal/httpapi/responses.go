package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
)

type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorEnvelope{Error: message, Code: code})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDomainError is the single mapping from domain failures to HTTP.
// Internal failures get a generic body; store diagnostics stay in the logs.
func WriteDomainError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteError(w, http.StatusBadRequest, "validation_error", verr.Error())
	case errors.Is(err, domain.ErrValidation):
		WriteError(w, http.StatusBadRequest, "validation_error", "invalid request")
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid login or password")
	case errors.Is(err, domain.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		WriteError(w, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "not found")
	case errors.Is(err, domain.ErrUsernameTaken):
		WriteError(w, http.StatusConflict, "username_taken", "username already taken")
	case errors.Is(err, domain.ErrEmailTaken):
		WriteError(w, http.StatusConflict, "email_taken", "email already taken")
	case errors.Is(err, domain.ErrConnectionExists):
		WriteError(w, http.StatusConflict, "connection_exists", "a connection or pending request already exists")
	case errors.Is(err, domain.ErrConnectionResolved):
		WriteError(w, http.StatusBadRequest, "connection_resolved", "connection request is no longer pending")
	case errors.Is(err, domain.ErrAlreadyLiked):
		WriteError(w, http.StatusConflict, "already_liked", "post already liked")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
