package server

import (
	log "github.com/sirupsen/logrus"
	"github.com/trailfeathers/trailfeathers/db"
)

type FriendshipService interface {
	SendRequest(senderID int, receiverID int) (db.FriendRequest, error)
	SendRequestByUsername(senderID int, username string) (db.FriendRequest, error)
	Accept(requestID int, actingUserID int) (bool, error)
	Decline(requestID int, actingUserID int) (bool, error)
	GetRequest(requestID int, userID int) (db.FriendRequest, error)
	ListIncoming(userID int) ([]db.FriendRequestWithSender, error)
	ListFriends(userID int) ([]db.User, error)
	AreFriends(userID int, otherID int) (bool, error)
}

type FriendshipServiceImpl struct {
	userRepo    db.UserManager
	requestRepo db.FriendRequestManager
}

func NewFriendshipService(userRepo db.UserManager, requestRepo db.FriendRequestManager) *FriendshipServiceImpl {
	return &FriendshipServiceImpl{
		userRepo:    userRepo,
		requestRepo: requestRepo,
	}
}

func (s *FriendshipServiceImpl) SendRequest(senderID int, receiverID int) (db.FriendRequest, error) {
	fields := log.Fields{
		"context":     "friend_request",
		"sender_id":   senderID,
		"receiver_id": receiverID,
	}

	req, err := s.requestRepo.CreateFriendRequest(senderID, receiverID)
	if err != nil {
		return req, storeError(err, fields, "friend request rejected")
	}

	log.WithFields(fields).WithField("request_id", req.ID).Info("friend request sent")
	return req, nil
}

func (s *FriendshipServiceImpl) SendRequestByUsername(senderID int, username string) (db.FriendRequest, error) {
	receiver, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return db.FriendRequest{}, storeError(err, log.Fields{
			"context":  "friend_request",
			"username": username,
		}, "friend request receiver lookup failed")
	}

	return s.SendRequest(senderID, receiver.ID)
}

func (s *FriendshipServiceImpl) resolve(requestID int, actingUserID int, status db.FriendRequestStatus) (bool, error) {
	fields := log.Fields{
		"context":    "friend_request",
		"request_id": requestID,
		"user_id":    actingUserID,
		"status":     status,
	}

	ok, err := s.requestRepo.ResolveFriendRequest(requestID, actingUserID, status)
	if err != nil {
		return false, storeError(err, fields, "failed to resolve friend request")
	}

	if ok {
		log.WithFields(fields).Info("friend request resolved")
	} else {
		log.WithFields(fields).Debug("friend request not resolvable")
	}

	return ok, nil
}

func (s *FriendshipServiceImpl) Accept(requestID int, actingUserID int) (bool, error) {
	return s.resolve(requestID, actingUserID, db.FriendRequestAccepted)
}

func (s *FriendshipServiceImpl) Decline(requestID int, actingUserID int) (bool, error) {
	return s.resolve(requestID, actingUserID, db.FriendRequestDeclined)
}

// GetRequest returns the request only to one of its two parties.
func (s *FriendshipServiceImpl) GetRequest(requestID int, userID int) (db.FriendRequest, error) {
	req, err := s.requestRepo.GetFriendRequest(requestID)
	if err != nil {
		return db.FriendRequest{}, db.Unavailable(err)
	}

	if req.SenderID != userID && req.ReceiverID != userID {
		return db.FriendRequest{}, db.ErrNotFound
	}

	return req, nil
}

func (s *FriendshipServiceImpl) ListIncoming(userID int) ([]db.FriendRequestWithSender, error) {
	requests, err := s.requestRepo.GetIncomingFriendRequests(userID)
	return requests, db.Unavailable(err)
}

func (s *FriendshipServiceImpl) ListFriends(userID int) ([]db.User, error) {
	friends, err := s.requestRepo.GetFriends(userID)
	return friends, db.Unavailable(err)
}

func (s *FriendshipServiceImpl) AreFriends(userID int, otherID int) (bool, error) {
	ok, err := s.requestRepo.AreFriends(userID, otherID)
	return ok, db.Unavailable(err)
}
