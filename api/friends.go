package api

import (
	"net/http"

	"github.com/trailfeathers/trailfeathers/api/helpers"
	"github.com/trailfeathers/trailfeathers/services/cache"
	"github.com/trailfeathers/trailfeathers/services/server"
)

type FriendController struct {
	Friends server.FriendshipService
	Cache   cache.Cache
}

func (c *FriendController) GetFriends(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	helpers.WriteCachedJSON(w, r, c.Cache, cache.FriendsKey(user.ID), func() (any, error) {
		return c.Friends.ListFriends(user.ID)
	})
}

// SendRequest accepts either a receiver_id or a username.
func (c *FriendController) SendRequest(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	var body struct {
		ReceiverID *int   `json:"receiver_id,omitempty"`
		Username   string `json:"username,omitempty"`
	}

	if !helpers.Bind(w, r, &body) {
		return
	}

	if (body.ReceiverID == nil) == (body.Username == "") {
		helpers.WriteErrorStatus(w, "either receiver_id or username must be provided", http.StatusBadRequest)
		return
	}

	var err error
	var res any

	if body.ReceiverID != nil {
		res, err = c.Friends.SendRequest(user.ID, *body.ReceiverID)
	} else {
		res, err = c.Friends.SendRequestByUsername(user.ID, body.Username)
	}

	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, res)
}

func (c *FriendController) GetIncomingRequests(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	requests, err := c.Friends.ListIncoming(user.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, requests)
}

func (c *FriendController) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	requestID, err := helpers.GetIntParam("request_id", w, r)
	if err != nil {
		return
	}

	// The parties are read up front so a committed accept always clears
	// both friend lists.
	req, err := c.Friends.GetRequest(requestID, user.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	ok, err := c.Friends.Accept(requestID, user.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	if !ok {
		helpers.WriteErrorStatus(w, "friend request not found", http.StatusNotFound)
		return
	}

	c.Cache.Delete(r.Context(), cache.FriendsKey(req.SenderID), cache.FriendsKey(req.ReceiverID))

	helpers.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (c *FriendController) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	requestID, err := helpers.GetIntParam("request_id", w, r)
	if err != nil {
		return
	}

	ok, err := c.Friends.Decline(requestID, user.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	if !ok {
		helpers.WriteErrorStatus(w, "friend request not found", http.StatusNotFound)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
