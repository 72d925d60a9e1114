package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/trailfeathers/trailfeathers/api/helpers"
	"github.com/trailfeathers/trailfeathers/api/trips"
	"github.com/trailfeathers/trailfeathers/services/cache"
	"github.com/trailfeathers/trailfeathers/services/server"
	"github.com/trailfeathers/trailfeathers/util"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Users   server.UserService
	Friends server.FriendshipService
	Trips   server.TripService
	Invites server.TripInviteService
	Gear    server.GearService
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	helpers.WriteErrorStatus(w, "not found", http.StatusNotFound)
}

// Route declares all API routes
func Route(services Services, listCache cache.Cache, sessions *SessionManager) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	authController := &AuthController{Users: services.Users, Sessions: sessions}
	friendController := &FriendController{Friends: services.Friends, Cache: listCache}
	gearController := &GearController{Gear: services.Gear}
	inviteController := &TripInviteController{Invites: services.Invites, Cache: listCache}
	tripController := &trips.TripController{
		Trips:   services.Trips,
		Invites: services.Invites,
		Users:   services.Users,
		Cache:   listCache,
	}

	publicAPIRouter := r.PathPrefix("/api").Subrouter()
	publicAPIRouter.HandleFunc("/signup", authController.Signup).Methods("POST")
	publicAPIRouter.HandleFunc("/login", authController.Login).Methods("POST")
	publicAPIRouter.HandleFunc("/logout", authController.Logout).Methods("POST")

	authenticatedAPI := r.PathPrefix("/api").Subrouter()
	authenticatedAPI.Use(authenticationMiddleware(sessions, services.Users))

	authenticatedAPI.HandleFunc("/me", GetMe).Methods("GET", "HEAD")

	authenticatedAPI.HandleFunc("/gear", gearController.GetGear).Methods("GET", "HEAD")
	authenticatedAPI.HandleFunc("/gear", gearController.AddGear).Methods("POST")

	authenticatedAPI.HandleFunc("/friends", friendController.GetFriends).Methods("GET", "HEAD")
	authenticatedAPI.HandleFunc("/friends/request", friendController.SendRequest).Methods("POST")
	authenticatedAPI.HandleFunc("/friends/requests", friendController.GetIncomingRequests).Methods("GET", "HEAD")
	authenticatedAPI.HandleFunc("/friends/requests/{request_id}/accept", friendController.AcceptRequest).Methods("POST")
	authenticatedAPI.HandleFunc("/friends/requests/{request_id}/decline", friendController.DeclineRequest).Methods("POST")

	authenticatedAPI.HandleFunc("/trips", tripController.GetTrips).Methods("GET", "HEAD")
	authenticatedAPI.HandleFunc("/trips", tripController.CreateTrip).Methods("POST")
	authenticatedAPI.HandleFunc("/trips/activity-types", tripController.GetActivityTypes).Methods("GET", "HEAD")

	tripAPI := authenticatedAPI.PathPrefix("/trips/{trip_id:[0-9]+}").Subrouter()
	tripAPI.Use(tripController.TripMiddleware)

	tripAPI.HandleFunc("", trips.GetTrip).Methods("GET", "HEAD")
	tripAPI.HandleFunc("/collaborators", tripController.GetCollaborators).Methods("GET", "HEAD")
	tripAPI.HandleFunc("/checklist", tripController.GetChecklist).Methods("GET", "HEAD")
	tripAPI.HandleFunc("/invites", tripController.GetInvites).Methods("GET", "HEAD")
	tripAPI.HandleFunc("/invites", tripController.CreateInvite).Methods("POST")

	authenticatedAPI.HandleFunc("/trip-invites", inviteController.GetIncomingInvites).Methods("GET", "HEAD")
	authenticatedAPI.HandleFunc("/trip-invites/{invite_id}/accept", inviteController.AcceptInvite).Methods("POST")
	authenticatedAPI.HandleFunc("/trip-invites/{invite_id}/decline", inviteController.DeclineInvite).Methods("POST")

	return r
}

// Handler wraps the router with CORS, access logging and panic recovery.
func Handler(router http.Handler, conf *util.ConfigType) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(conf.CorsOrigins),
		handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)

	logWriter := log.StandardLogger().WriterLevel(log.InfoLevel)

	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
		handlers.CombinedLoggingHandler(logWriter, cors(router)),
	)
}
