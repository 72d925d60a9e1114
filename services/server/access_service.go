package server

import (
	"errors"

	"github.com/trailfeathers/trailfeathers/db"
)

// AccessService derives trip permissions from the roster and pending invites.
// It never writes.
type AccessService interface {
	CanView(userID int, tripID int) (bool, error)
	CanMutateInvites(userID int, tripID int) (bool, error)
}

type AccessServiceImpl struct {
	tripRepo   db.TripManager
	inviteRepo db.TripInviteManager
}

func NewAccessService(tripRepo db.TripManager, inviteRepo db.TripInviteManager) *AccessServiceImpl {
	return &AccessServiceImpl{
		tripRepo:   tripRepo,
		inviteRepo: inviteRepo,
	}
}

// CanView is true for collaborators and for users holding a pending invite.
func (s *AccessServiceImpl) CanView(userID int, tripID int) (bool, error) {
	_, err := s.tripRepo.GetTripCollaborator(tripID, userID)
	if err == nil {
		return true, nil
	}

	if !errors.Is(err, db.ErrNotFound) {
		return false, db.Unavailable(err)
	}

	pending, err := s.inviteRepo.HasPendingTripInvite(userID, tripID)
	return pending, db.Unavailable(err)
}

// CanMutateInvites is true only for the trip's creator.
func (s *AccessServiceImpl) CanMutateInvites(userID int, tripID int) (bool, error) {
	trip, err := s.tripRepo.GetTrip(tripID)

	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}

	if err != nil {
		return false, db.Unavailable(err)
	}

	return trip.CreatorID == userID, nil
}
