package api

import (
	"net/http"

	"github.com/trailfeathers/trailfeathers/api/helpers"
	"github.com/trailfeathers/trailfeathers/services/cache"
	"github.com/trailfeathers/trailfeathers/services/server"
)

// TripInviteController serves the invitee side of trip invites.
type TripInviteController struct {
	Invites server.TripInviteService
	Cache   cache.Cache
}

func (c *TripInviteController) GetIncomingInvites(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	invites, err := c.Invites.ListIncoming(user.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, invites)
}

func (c *TripInviteController) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	inviteID, err := helpers.GetIntParam("invite_id", w, r)
	if err != nil {
		return
	}

	ok, err := c.Invites.Accept(inviteID, user.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	if !ok {
		helpers.WriteErrorStatus(w, "invite not found", http.StatusNotFound)
		return
	}

	c.Cache.Delete(r.Context(), cache.TripsKey(user.ID))

	helpers.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (c *TripInviteController) DeclineInvite(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	inviteID, err := helpers.GetIntParam("invite_id", w, r)
	if err != nil {
		return
	}

	ok, err := c.Invites.Decline(inviteID, user.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	if !ok {
		helpers.WriteErrorStatus(w, "invite not found", http.StatusNotFound)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
