package trips

import (
	"net/http"

	"github.com/trailfeathers/trailfeathers/api/helpers"
	"github.com/trailfeathers/trailfeathers/db"
)

// GetInvites returns the pending invites of a trip to its creator
func (c *TripController) GetInvites(w http.ResponseWriter, r *http.Request) {
	trip := helpers.GetFromContext(r, "trip").(db.Trip)
	user := helpers.UserFromContext(r)

	invites, err := c.Invites.ListPendingForTrip(user.ID, trip.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, invites)
}

// CreateInvite invites a friend of the creator to the trip
func (c *TripController) CreateInvite(w http.ResponseWriter, r *http.Request) {
	trip := helpers.GetFromContext(r, "trip").(db.Trip)
	user := helpers.UserFromContext(r)

	var request struct {
		InviteeID *int   `json:"invitee_id,omitempty"`
		Username  string `json:"username,omitempty"`
	}

	if !helpers.Bind(w, r, &request) {
		return
	}

	// Either invitee_id or username, not both
	if (request.InviteeID == nil) == (request.Username == "") {
		helpers.WriteErrorStatus(w, "either invitee_id or username must be provided", http.StatusBadRequest)
		return
	}

	var inviteeID int
	if request.InviteeID != nil {
		inviteeID = *request.InviteeID
	} else {
		invitee, err := c.Users.GetUserByUsername(request.Username)
		if err != nil {
			helpers.WriteError(w, err)
			return
		}
		inviteeID = invitee.ID
	}

	invite, err := c.Invites.CreateInvite(trip.ID, user.ID, inviteeID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, invite)
}
