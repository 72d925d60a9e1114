package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/trailfeathers/trailfeathers/db"
	"github.com/trailfeathers/trailfeathers/services/server"
)

type contextKey string

func SetContextValue(r *http.Request, key string, value any) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), contextKey(key), value))
}

func GetFromContext(r *http.Request, key string) any {
	return r.Context().Value(contextKey(key))
}

// UserFromContext returns the authenticated user set by the session middleware.
func UserFromContext(r *http.Request) *db.User {
	user, _ := GetFromContext(r, "user").(*db.User)
	return user
}

func WriteJSON(w http.ResponseWriter, code int, out any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.WithError(err).Error("failed to write JSON response")
	}
}

// WriteRawJSON writes an already encoded body.
func WriteRawJSON(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		log.WithError(err).Error("failed to write JSON response")
	}
}

func WriteErrorStatus(w http.ResponseWriter, msg string, code int) {
	WriteJSON(w, code, map[string]string{
		"error": msg,
	})
}

// ErrorStatus maps a service error to the HTTP status reported to clients.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, server.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, db.ErrMissingField),
		errors.Is(err, db.ErrSelfReference),
		errors.Is(err, db.ErrSelfInvite):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrNotFriends):
		return http.StatusForbidden
	case errors.Is(err, db.ErrAlreadyFriends),
		errors.Is(err, db.ErrDuplicateRequest),
		errors.Is(err, db.ErrReciprocalPending),
		errors.Is(err, db.ErrRequestExists),
		errors.Is(err, db.ErrAlreadyCollaborator),
		errors.Is(err, db.ErrAlreadyMember),
		errors.Is(err, db.ErrDuplicateInvite),
		errors.Is(err, db.ErrAlreadyResolved),
		errors.Is(err, db.ErrUsernameTaken),
		errors.Is(err, db.ErrInvalidOperation):
		return http.StatusConflict
	case errors.Is(err, db.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code := ErrorStatus(err)

	switch code {
	case http.StatusNotFound:
		WriteErrorStatus(w, "not found", code)
	case http.StatusServiceUnavailable, http.StatusInternalServerError:
		log.WithError(err).Error("request failed")
		WriteErrorStatus(w, http.StatusText(code), code)
	default:
		WriteErrorStatus(w, err.Error(), code)
	}
}

// Bind decodes the JSON request body into out. It answers 400 and returns
// false when the body is malformed.
func Bind(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		log.WithError(err).Debug("failed to decode request body")
		WriteErrorStatus(w, "invalid request body", http.StatusBadRequest)
		return false
	}

	return true
}
