package api

import (
	"net/http"

	"github.com/trailfeathers/trailfeathers/api/helpers"
	"github.com/trailfeathers/trailfeathers/services/server"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthController struct {
	Users    server.UserService
	Sessions *SessionManager
}

func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !helpers.Bind(w, r, &body) {
		return
	}

	user, err := c.Users.Signup(body.Username, body.Password)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	if err = c.Sessions.Start(w, user); err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, user)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !helpers.Bind(w, r, &body) {
		return
	}

	user, err := c.Users.Authenticate(body.Username, body.Password)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	if err = c.Sessions.Start(w, user); err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, user)
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	c.Sessions.End(w)
	w.WriteHeader(http.StatusNoContent)
}

func GetMe(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, helpers.UserFromContext(r))
}
