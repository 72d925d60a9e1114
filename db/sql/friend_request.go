package sql

import (
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/go-gorp/gorp/v3"
	"github.com/trailfeathers/trailfeathers/db"
)

const friendRequestColumns = "`id`, `sender_id`, `receiver_id`, `status`, `created`"

func (d *SqlDb) getFriendRequestByPair(q gorp.SqlExecutor, low int, high int) (req db.FriendRequest, err error) {
	err = d.selectOne(q, &req,
		"select "+friendRequestColumns+" from `friend_request` where `user_low`=? and `user_high`=?",
		low,
		high)
	return
}

func (d *SqlDb) CreateFriendRequest(senderID int, receiverID int) (newRequest db.FriendRequest, err error) {
	req := db.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     db.FriendRequestPending,
		Created:    time.Now().UTC(),
	}

	if err = req.Validate(); err != nil {
		return
	}

	low, high := db.FriendPair(senderID, receiverID)

	err = d.transact(func(tx *gorp.Transaction) error {
		var receiver db.User
		if err := d.selectOne(tx, &receiver, "select "+userColumns+" from `user` where `id`=?", receiverID); err != nil {
			return err
		}

		existing, err := d.getFriendRequestByPair(tx, low, high)
		if err == nil {
			return existing.Conflict(senderID)
		}
		if !errors.Is(err, db.ErrNotFound) {
			return err
		}

		return d.insertFriendRequest(tx, &req)
	})

	if err = d.friendRequestInsertError(err, req); err != nil {
		return
	}

	newRequest = req
	return
}

func (d *SqlDb) insertFriendRequest(q gorp.SqlExecutor, req *db.FriendRequest) (err error) {
	low, high := db.FriendPair(req.SenderID, req.ReceiverID)

	req.ID, err = d.insert(
		q,
		"id",
		"insert into `friend_request` (`sender_id`, `receiver_id`, `user_low`, `user_high`, `status`, `created`) values (?, ?, ?, ?, ?, ?)",
		req.SenderID,
		req.ReceiverID,
		low,
		high,
		req.Status,
		req.Created)
	return
}

// friendRequestInsertError maps a unique index rejection to the conflict with
// the request another writer committed for the same pair.
func (d *SqlDb) friendRequestInsertError(err error, req db.FriendRequest) error {
	if !isUniqueViolation(err) {
		return err
	}

	low, high := db.FriendPair(req.SenderID, req.ReceiverID)
	existing, getErr := d.getFriendRequestByPair(d.sql, low, high)
	if getErr != nil {
		return getErr
	}
	return existing.Conflict(req.SenderID)
}

func (d *SqlDb) GetFriendRequest(requestID int) (req db.FriendRequest, err error) {
	err = d.selectOne(d.sql, &req, "select "+friendRequestColumns+" from `friend_request` where `id`=?", requestID)
	return
}

func (d *SqlDb) ResolveFriendRequest(requestID int, actingUserID int, status db.FriendRequestStatus) (bool, error) {
	if !status.IsResolution() {
		return false, db.NewValidationError("status", "can not resolve a friend request to %q", status)
	}

	res, err := d.exec(
		d.sql,
		"update `friend_request` set `status`=? where `id`=? and `receiver_id`=? and `status`=?",
		status,
		requestID,
		actingUserID,
		db.FriendRequestPending)

	err = validateMutationResult(res, err)
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}

	return err == nil, err
}

func (d *SqlDb) GetIncomingFriendRequests(userID int) (requests []db.FriendRequestWithSender, err error) {
	requests = make([]db.FriendRequestWithSender, 0)

	query, args, err := squirrel.Select(
		"fr.id",
		"fr.sender_id",
		"fr.receiver_id",
		"fr.status",
		"fr.created",
		"u.username as sender_username",
	).
		From("`friend_request` fr").
		Join("`user` u on u.id = fr.sender_id").
		Where(squirrel.Eq{"fr.receiver_id": userID, "fr.status": db.FriendRequestPending}).
		OrderBy("fr.created desc", "fr.id desc").
		ToSql()

	if err != nil {
		return
	}

	_, err = d.selectAll(d.sql, &requests, query, args...)
	return
}

func (d *SqlDb) GetFriends(userID int) (friends []db.User, err error) {
	friends = make([]db.User, 0)

	query, args, err := squirrel.Select("u.id", "u.username", "u.created").
		From("`friend_request` fr").
		Join("`user` u on u.id = (case when fr.sender_id = ? then fr.receiver_id else fr.sender_id end)", userID).
		Where(squirrel.Or{
			squirrel.Eq{"fr.sender_id": userID},
			squirrel.Eq{"fr.receiver_id": userID},
		}).
		Where(squirrel.Eq{"fr.status": db.FriendRequestAccepted}).
		OrderBy("u.username").
		ToSql()

	if err != nil {
		return
	}

	_, err = d.selectAll(d.sql, &friends, query, args...)
	return
}

func (d *SqlDb) AreFriends(userID int, otherID int) (bool, error) {
	low, high := db.FriendPair(userID, otherID)

	count, err := d.selectInt(
		d.sql,
		"select count(1) from `friend_request` where `user_low`=? and `user_high`=? and `status`=?",
		low,
		high,
		db.FriendRequestAccepted)

	return count > 0, err
}
