package api

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	log "github.com/sirupsen/logrus"
	"github.com/trailfeathers/trailfeathers/api/helpers"
	"github.com/trailfeathers/trailfeathers/db"
	"github.com/trailfeathers/trailfeathers/services/server"
	"github.com/trailfeathers/trailfeathers/util"
)

const (
	sessionCookieName = "trailfeathers"
	sessionMaxAge     = 7 * 24 * time.Hour
)

type session struct {
	UserID  int   `json:"user"`
	Created int64 `json:"created"`
}

// SessionManager issues and reads signed, encrypted session cookies.
type SessionManager struct {
	cookie *securecookie.SecureCookie
}

func decodeCookieKey(name string, encoded string, length int) ([]byte, error) {
	if encoded == "" {
		log.WithField("key", name).Warn("cookie key is not configured, generating a random one")
		return securecookie.GenerateRandomKey(length), nil
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return key, nil
}

func NewSessionManager(conf *util.ConfigType) (*SessionManager, error) {
	hash, err := decodeCookieKey("cookie_hash", conf.CookieHash, 32)
	if err != nil {
		return nil, err
	}

	encryption, err := decodeCookieKey("cookie_encryption", conf.CookieEncryption, 32)
	if err != nil {
		return nil, err
	}

	cookie := securecookie.New(hash, encryption)
	cookie.MaxAge(int(sessionMaxAge.Seconds()))

	return &SessionManager{cookie: cookie}, nil
}

func (m *SessionManager) Start(w http.ResponseWriter, user db.User) error {
	encoded, err := m.cookie.Encode(sessionCookieName, session{
		UserID:  user.ID,
		Created: time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (m *SessionManager) End(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
}

func (m *SessionManager) userID(r *http.Request) (int, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return 0, false
	}

	var s session
	if err = m.cookie.Decode(sessionCookieName, cookie.Value, &s); err != nil {
		log.WithError(err).Debug("invalid session cookie")
		return 0, false
	}

	return s.UserID, s.UserID > 0
}

// authenticationMiddleware resolves the session cookie to a user and stores
// it in the request context. Requests without a valid session get 401.
func authenticationMiddleware(sessions *SessionManager, users server.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := sessions.userID(r)
			if !ok {
				helpers.WriteErrorStatus(w, "not logged in", http.StatusUnauthorized)
				return
			}

			user, err := users.GetUser(userID)
			if err != nil {
				if helpers.ErrorStatus(err) == http.StatusNotFound {
					sessions.End(w)
					helpers.WriteErrorStatus(w, "not logged in", http.StatusUnauthorized)
					return
				}
				helpers.WriteError(w, err)
				return
			}

			r = helpers.SetContextValue(r, "user", &user)
			next.ServeHTTP(w, r)
		})
	}
}
