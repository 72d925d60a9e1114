package server

import (
	log "github.com/sirupsen/logrus"
	"github.com/trailfeathers/trailfeathers/db"
)

type TripInviteService interface {
	CreateInvite(tripID int, inviterID int, inviteeID int) (db.TripInvite, error)
	Accept(inviteID int, actingUserID int) (bool, error)
	Decline(inviteID int, actingUserID int) (bool, error)
	ListPendingForTrip(userID int, tripID int) ([]db.TripInviteWithUsers, error)
	ListIncoming(userID int) ([]db.TripInviteWithTrip, error)
	HasPendingInvite(userID int, tripID int) (bool, error)
}

type TripInviteServiceImpl struct {
	inviteRepo db.TripInviteManager
	friends    FriendshipService
	access     AccessService
}

func NewTripInviteService(
	inviteRepo db.TripInviteManager,
	friends FriendshipService,
	access AccessService,
) *TripInviteServiceImpl {
	return &TripInviteServiceImpl{
		inviteRepo: inviteRepo,
		friends:    friends,
		access:     access,
	}
}

// CreateInvite lets the trip creator invite one of their friends. Trips the
// inviter does not own are reported as not found.
func (s *TripInviteServiceImpl) CreateInvite(tripID int, inviterID int, inviteeID int) (db.TripInvite, error) {
	fields := log.Fields{
		"context":    "trip_invite",
		"trip_id":    tripID,
		"inviter_id": inviterID,
		"invitee_id": inviteeID,
	}

	isCreator, err := s.access.CanMutateInvites(inviterID, tripID)
	if err != nil {
		return db.TripInvite{}, storeError(err, fields, "failed to check trip ownership")
	}

	if !isCreator {
		log.WithFields(fields).Debug("invite rejected: not the trip creator")
		return db.TripInvite{}, db.ErrNotFound
	}

	if inviterID == inviteeID {
		return db.TripInvite{}, storeError(db.ErrSelfInvite, fields, "invite rejected")
	}

	friends, err := s.friends.AreFriends(inviterID, inviteeID)
	if err != nil {
		return db.TripInvite{}, storeError(err, fields, "failed to check friendship")
	}

	if !friends {
		return db.TripInvite{}, storeError(db.ErrNotFriends, fields, "invite rejected")
	}

	invite, err := s.inviteRepo.CreateTripInvite(db.TripInvite{
		TripID:    tripID,
		InviterID: inviterID,
		InviteeID: inviteeID,
	})
	if err != nil {
		return invite, storeError(err, fields, "invite rejected")
	}

	log.WithFields(fields).WithField("invite_id", invite.ID).Info("trip invite created")
	return invite, nil
}

func (s *TripInviteServiceImpl) resolve(inviteID int, actingUserID int, status db.TripInviteStatus) (bool, error) {
	fields := log.Fields{
		"context":   "trip_invite",
		"invite_id": inviteID,
		"user_id":   actingUserID,
		"status":    status,
	}

	ok, err := s.inviteRepo.ResolveTripInvite(inviteID, actingUserID, status)
	if err != nil {
		return false, storeError(err, fields, "failed to resolve trip invite")
	}

	if ok {
		log.WithFields(fields).Info("trip invite resolved")
	} else {
		log.WithFields(fields).Debug("trip invite not resolvable")
	}

	return ok, nil
}

func (s *TripInviteServiceImpl) Accept(inviteID int, actingUserID int) (bool, error) {
	return s.resolve(inviteID, actingUserID, db.TripInviteAccepted)
}

func (s *TripInviteServiceImpl) Decline(inviteID int, actingUserID int) (bool, error) {
	return s.resolve(inviteID, actingUserID, db.TripInviteDeclined)
}

// ListPendingForTrip is only answered for the trip's creator.
func (s *TripInviteServiceImpl) ListPendingForTrip(userID int, tripID int) ([]db.TripInviteWithUsers, error) {
	isCreator, err := s.access.CanMutateInvites(userID, tripID)
	if err != nil {
		return nil, err
	}

	if !isCreator {
		return nil, db.ErrNotFound
	}

	invites, err := s.inviteRepo.GetPendingTripInvites(tripID)
	return invites, db.Unavailable(err)
}

func (s *TripInviteServiceImpl) ListIncoming(userID int) ([]db.TripInviteWithTrip, error) {
	invites, err := s.inviteRepo.GetIncomingTripInvites(userID)
	return invites, db.Unavailable(err)
}

func (s *TripInviteServiceImpl) HasPendingInvite(userID int, tripID int) (bool, error) {
	ok, err := s.inviteRepo.HasPendingTripInvite(userID, tripID)
	return ok, db.Unavailable(err)
}
