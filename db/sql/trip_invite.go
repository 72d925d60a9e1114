package sql

import (
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/go-gorp/gorp/v3"
	"github.com/trailfeathers/trailfeathers/db"
)

const tripInviteColumns = "`id`, `trip_id`, `inviter_id`, `invitee_id`, `status`, `created`, `resolved_at`"

func (d *SqlDb) getTripInviteFor(q gorp.SqlExecutor, tripID int, inviteeID int) (invite db.TripInvite, err error) {
	err = d.selectOne(q, &invite,
		"select "+tripInviteColumns+" from `trip__invite` where `trip_id`=? and `invitee_id`=?",
		tripID,
		inviteeID)
	return
}

func (d *SqlDb) CreateTripInvite(invite db.TripInvite) (newInvite db.TripInvite, err error) {
	invite.Status = db.TripInvitePending
	invite.Created = time.Now().UTC()
	invite.ResolvedAt = nil

	if err = invite.Validate(); err != nil {
		return
	}

	err = d.transact(func(tx *gorp.Transaction) error {
		if _, err := d.getTrip(tx, invite.TripID); err != nil {
			return err
		}

		var invitee db.User
		if err := d.selectOne(tx, &invitee, "select "+userColumns+" from `user` where `id`=?", invite.InviteeID); err != nil {
			return err
		}

		_, err := d.getTripCollaborator(tx, invite.TripID, invite.InviteeID)
		if err == nil {
			return db.ErrAlreadyMember
		}
		if !errors.Is(err, db.ErrNotFound) {
			return err
		}

		existing, err := d.getTripInviteFor(tx, invite.TripID, invite.InviteeID)
		if err == nil {
			return existing.Conflict()
		}
		if !errors.Is(err, db.ErrNotFound) {
			return err
		}

		return d.insertTripInvite(tx, &invite)
	})

	if err = d.tripInviteInsertError(err, invite); err != nil {
		return
	}

	newInvite = invite
	return
}

func (d *SqlDb) insertTripInvite(q gorp.SqlExecutor, invite *db.TripInvite) (err error) {
	invite.ID, err = d.insert(
		q,
		"id",
		"insert into `trip__invite` (`trip_id`, `inviter_id`, `invitee_id`, `status`, `created`) values (?, ?, ?, ?, ?)",
		invite.TripID,
		invite.InviterID,
		invite.InviteeID,
		invite.Status,
		invite.Created)
	return
}

// tripInviteInsertError maps a unique index rejection to the conflict with
// the invite another writer committed for the same trip and invitee.
func (d *SqlDb) tripInviteInsertError(err error, invite db.TripInvite) error {
	if !isUniqueViolation(err) {
		return err
	}

	existing, getErr := d.getTripInviteFor(d.sql, invite.TripID, invite.InviteeID)
	if getErr != nil {
		return getErr
	}
	return existing.Conflict()
}

func (d *SqlDb) GetTripInvite(inviteID int) (invite db.TripInvite, err error) {
	err = d.selectOne(d.sql, &invite, "select "+tripInviteColumns+" from `trip__invite` where `id`=?", inviteID)
	return
}

func (d *SqlDb) ResolveTripInvite(inviteID int, actingUserID int, status db.TripInviteStatus) (resolved bool, err error) {
	if !status.IsResolution() {
		err = db.NewValidationError("status", "can not resolve an invite to %q", status)
		return
	}

	now := time.Now().UTC()

	err = d.transact(func(tx *gorp.Transaction) error {
		res, err := d.exec(
			tx,
			"update `trip__invite` set `status`=?, `resolved_at`=? where `id`=? and `invitee_id`=? and `status`=?",
			status,
			now,
			inviteID,
			actingUserID,
			db.TripInvitePending)

		err = validateMutationResult(res, err)
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		resolved = true

		if status != db.TripInviteAccepted {
			return nil
		}

		var invite db.TripInvite
		if err = d.selectOne(tx, &invite, "select "+tripInviteColumns+" from `trip__invite` where `id`=?", inviteID); err != nil {
			return err
		}

		// The invitee may already be on the roster; that is not an error.
		_, err = d.exec(
			tx,
			d.insertIgnoreQuery("`trip__collaborator`", "`trip_id`", "`user_id`", "`role`", "`added`"),
			invite.TripID,
			invite.InviteeID,
			db.CollaboratorMember,
			now)
		return err
	})

	if err != nil {
		resolved = false
	}

	return
}

func (d *SqlDb) GetPendingTripInvites(tripID int) (invites []db.TripInviteWithUsers, err error) {
	invites = make([]db.TripInviteWithUsers, 0)

	query, args, err := squirrel.Select(
		"ti.id",
		"ti.trip_id",
		"ti.inviter_id",
		"ti.invitee_id",
		"ti.status",
		"ti.created",
		"ti.resolved_at",
		"ib.username as inviter_username",
		"ie.username as invitee_username",
	).
		From("`trip__invite` ti").
		Join("`user` ib on ib.id = ti.inviter_id").
		Join("`user` ie on ie.id = ti.invitee_id").
		Where(squirrel.Eq{"ti.trip_id": tripID, "ti.status": db.TripInvitePending}).
		OrderBy("ti.created desc", "ti.id desc").
		ToSql()

	if err != nil {
		return
	}

	_, err = d.selectAll(d.sql, &invites, query, args...)
	return
}

func (d *SqlDb) GetIncomingTripInvites(userID int) (invites []db.TripInviteWithTrip, err error) {
	invites = make([]db.TripInviteWithTrip, 0)

	query, args, err := squirrel.Select(
		"ti.id",
		"ti.trip_id",
		"ti.inviter_id",
		"ti.invitee_id",
		"ti.status",
		"ti.created",
		"ti.resolved_at",
		"t.trip_name",
		"ib.username as inviter_username",
	).
		From("`trip__invite` ti").
		Join("`trip` t on t.id = ti.trip_id").
		Join("`user` ib on ib.id = ti.inviter_id").
		Where(squirrel.Eq{"ti.invitee_id": userID, "ti.status": db.TripInvitePending}).
		OrderBy("ti.created desc", "ti.id desc").
		ToSql()

	if err != nil {
		return
	}

	_, err = d.selectAll(d.sql, &invites, query, args...)
	return
}

func (d *SqlDb) HasPendingTripInvite(userID int, tripID int) (bool, error) {
	count, err := d.selectInt(
		d.sql,
		"select count(1) from `trip__invite` where `invitee_id`=? and `trip_id`=? and `status`=?",
		userID,
		tripID,
		db.TripInvitePending)

	return count > 0, err
}
