package trips

import (
	"net/http"
	"strings"
	"time"

	"github.com/trailfeathers/trailfeathers/api/helpers"
	"github.com/trailfeathers/trailfeathers/db"
	"github.com/trailfeathers/trailfeathers/services/cache"
	"github.com/trailfeathers/trailfeathers/services/server"
)

// TripController serves trips and everything nested under /trips/{trip_id}.
type TripController struct {
	Trips   server.TripService
	Invites server.TripInviteService
	Users   server.UserService
	Cache   cache.Cache
}

type tripRequest struct {
	Name         string          `json:"trip_name"`
	TrailName    *string         `json:"trail_name,omitempty"`
	ActivityType db.ActivityType `json:"activity_type"`
	// IntendedStartDate is either a date (2006-01-02) or an RFC3339 timestamp.
	IntendedStartDate string `json:"intended_start_date,omitempty"`
}

func parseStartDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if date, err := time.Parse(layout, value); err == nil {
			date = date.UTC()
			return &date, nil
		}
	}

	return nil, db.NewValidationError("intended_start_date", "expected a date like 2006-01-02, got %q", value)
}

func (req tripRequest) toTrip() (db.Trip, error) {
	start, err := parseStartDate(req.IntendedStartDate)
	if err != nil {
		return db.Trip{}, err
	}

	return db.Trip{
		Name:              req.Name,
		TrailName:         req.TrailName,
		ActivityType:      req.ActivityType,
		IntendedStartDate: start,
	}, nil
}

// TripMiddleware ensures the trip exists and is visible to the user and loads
// it to the context. Invisible trips are reported as not found.
func (c *TripController) TripMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := helpers.UserFromContext(r)

		tripID, err := helpers.GetIntParam("trip_id", w, r)
		if err != nil {
			return
		}

		trip, err := c.Trips.GetTrip(user.ID, tripID)
		if err != nil {
			helpers.WriteError(w, err)
			return
		}

		r = helpers.SetContextValue(r, "trip", trip)
		next.ServeHTTP(w, r)
	})
}

func (c *TripController) GetTrips(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	helpers.WriteCachedJSON(w, r, c.Cache, cache.TripsKey(user.ID), func() (any, error) {
		return c.Trips.ListTripsFor(user.ID)
	})
}

func (c *TripController) CreateTrip(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)

	var body tripRequest
	if !helpers.Bind(w, r, &body) {
		return
	}

	newTrip, err := body.toTrip()
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	trip, err := c.Trips.CreateTrip(user.ID, newTrip)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	c.Cache.Delete(r.Context(), cache.TripsKey(user.ID))

	helpers.WriteJSON(w, http.StatusCreated, trip)
}

func (c *TripController) GetActivityTypes(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, c.Trips.ActivityTypes())
}

// GetTrip returns the trip loaded by TripMiddleware
func GetTrip(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, helpers.GetFromContext(r, "trip"))
}

func (c *TripController) GetCollaborators(w http.ResponseWriter, r *http.Request) {
	trip := helpers.GetFromContext(r, "trip").(db.Trip)
	user := helpers.UserFromContext(r)

	roster, err := c.Trips.ListCollaborators(user.ID, trip.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, roster)
}

func (c *TripController) GetChecklist(w http.ResponseWriter, r *http.Request) {
	trip := helpers.GetFromContext(r, "trip").(db.Trip)
	user := helpers.UserFromContext(r)

	items, err := c.Trips.Checklist(user.ID, trip.ID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"activity_type": trip.ActivityType,
		"items":         items,
	})
}
