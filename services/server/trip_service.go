package server

import (
	log "github.com/sirupsen/logrus"
	"github.com/trailfeathers/trailfeathers/db"
)

type TripService interface {
	CreateTrip(creatorID int, trip db.Trip) (db.Trip, error)
	GetTrip(userID int, tripID int) (db.Trip, error)
	ListTripsFor(userID int) ([]db.Trip, error)
	ListCollaborators(userID int, tripID int) ([]db.TripCollaboratorWithUser, error)
	AddCollaborator(tripID int, userID int, role db.CollaboratorRole) (db.TripCollaborator, error)
	Checklist(userID int, tripID int) ([]string, error)
	ActivityTypes() []db.ActivityType
}

type TripServiceImpl struct {
	tripRepo db.TripManager
	access   AccessService
}

func NewTripService(tripRepo db.TripManager, access AccessService) *TripServiceImpl {
	return &TripServiceImpl{
		tripRepo: tripRepo,
		access:   access,
	}
}

func (s *TripServiceImpl) CreateTrip(creatorID int, trip db.Trip) (db.Trip, error) {
	trip.ID = 0
	trip.CreatorID = creatorID

	fields := log.Fields{
		"context":    "trip",
		"creator_id": creatorID,
	}

	newTrip, err := s.tripRepo.CreateTrip(trip)
	if err != nil {
		return newTrip, storeError(err, fields, "trip rejected")
	}

	log.WithFields(fields).WithField("trip_id", newTrip.ID).Info("trip created")
	return newTrip, nil
}

// GetTrip hides trips the user may not view behind ErrNotFound.
func (s *TripServiceImpl) GetTrip(userID int, tripID int) (db.Trip, error) {
	ok, err := s.access.CanView(userID, tripID)
	if err != nil {
		return db.Trip{}, err
	}

	if !ok {
		return db.Trip{}, db.ErrNotFound
	}

	trip, err := s.tripRepo.GetTrip(tripID)
	return trip, db.Unavailable(err)
}

func (s *TripServiceImpl) ListTripsFor(userID int) ([]db.Trip, error) {
	trips, err := s.tripRepo.GetUserTrips(userID)
	return trips, db.Unavailable(err)
}

func (s *TripServiceImpl) ListCollaborators(userID int, tripID int) ([]db.TripCollaboratorWithUser, error) {
	ok, err := s.access.CanView(userID, tripID)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, db.ErrNotFound
	}

	roster, err := s.tripRepo.GetTripCollaborators(tripID)
	return roster, db.Unavailable(err)
}

func (s *TripServiceImpl) AddCollaborator(tripID int, userID int, role db.CollaboratorRole) (db.TripCollaborator, error) {
	fields := log.Fields{
		"context": "trip",
		"trip_id": tripID,
		"user_id": userID,
	}

	collaborator, err := s.tripRepo.CreateTripCollaborator(db.TripCollaborator{
		TripID: tripID,
		UserID: userID,
		Role:   role,
	})
	if err != nil {
		return collaborator, storeError(err, fields, "collaborator rejected")
	}

	log.WithFields(fields).WithField("role", collaborator.Role).Info("collaborator added")
	return collaborator, nil
}

func (s *TripServiceImpl) Checklist(userID int, tripID int) ([]string, error) {
	trip, err := s.GetTrip(userID, tripID)
	if err != nil {
		return nil, err
	}

	return trip.ActivityType.Checklist(), nil
}

func (s *TripServiceImpl) ActivityTypes() []db.ActivityType {
	res := make([]db.ActivityType, len(db.ActivityTypes))
	copy(res, db.ActivityTypes)
	return res
}
