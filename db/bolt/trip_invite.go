package bolt

import (
	"errors"
	"sort"
	"time"

	"github.com/trailfeathers/trailfeathers/db"
	"go.etcd.io/bbolt"
)

func findTripInviteForTx(tx *bbolt.Tx, tripID int, inviteeID int) (invite db.TripInvite, err error) {
	invites, err := findObjectsTx(tx, tripInviteBucket, func(i db.TripInvite) bool {
		return i.TripID == tripID && i.InviteeID == inviteeID
	})
	if err != nil {
		return
	}

	if len(invites) == 0 {
		err = db.ErrNotFound
		return
	}

	invite = invites[0]
	return
}

func (d *BoltDb) CreateTripInvite(invite db.TripInvite) (newInvite db.TripInvite, err error) {
	invite.Status = db.TripInvitePending
	invite.Created = time.Now().UTC()
	invite.ResolvedAt = nil

	if err = invite.Validate(); err != nil {
		return
	}

	err = d.db.Update(func(tx *bbolt.Tx) error {
		if _, err := getObjectTx[db.Trip](tx, tripBucket, intObjectID(invite.TripID)); err != nil {
			return err
		}

		if _, err := getUserTx(tx, invite.InviteeID); err != nil {
			return err
		}

		_, err := getObjectTx[db.TripCollaborator](tx, collaboratorBucket, collaboratorID(invite.TripID, invite.InviteeID))
		if err == nil {
			return db.ErrAlreadyMember
		}
		if !errors.Is(err, db.ErrNotFound) {
			return err
		}

		existing, err := findTripInviteForTx(tx, invite.TripID, invite.InviteeID)
		if err == nil {
			return existing.Conflict()
		}
		if !errors.Is(err, db.ErrNotFound) {
			return err
		}

		invite.ID, err = nextIDTx(tx, tripInviteBucket)
		if err != nil {
			return err
		}

		return putObjectTx(tx, tripInviteBucket, intObjectID(invite.ID), invite)
	})

	if err != nil {
		return
	}

	newInvite = invite
	return
}

func (d *BoltDb) GetTripInvite(inviteID int) (db.TripInvite, error) {
	return getObject[db.TripInvite](d, tripInviteBucket, intObjectID(inviteID))
}

func (d *BoltDb) ResolveTripInvite(inviteID int, actingUserID int, status db.TripInviteStatus) (resolved bool, err error) {
	if !status.IsResolution() {
		err = db.NewValidationError("status", "can not resolve an invite to %q", status)
		return
	}

	now := time.Now().UTC()

	err = d.db.Update(func(tx *bbolt.Tx) error {
		invite, err := getObjectTx[db.TripInvite](tx, tripInviteBucket, intObjectID(inviteID))
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if invite.InviteeID != actingUserID || invite.Status != db.TripInvitePending {
			return nil
		}

		invite.Status = status
		invite.ResolvedAt = &now
		if err = putObjectTx(tx, tripInviteBucket, intObjectID(invite.ID), invite); err != nil {
			return err
		}

		if status == db.TripInviteAccepted {
			id := collaboratorID(invite.TripID, invite.InviteeID)

			_, err = getObjectTx[db.TripCollaborator](tx, collaboratorBucket, id)
			if errors.Is(err, db.ErrNotFound) {
				err = putObjectTx(tx, collaboratorBucket, id, db.TripCollaborator{
					TripID: invite.TripID,
					UserID: invite.InviteeID,
					Role:   db.CollaboratorMember,
					Added:  now,
				})
			}
			if err != nil {
				return err
			}
		}

		resolved = true
		return nil
	})

	if err != nil {
		resolved = false
	}

	return
}

func (d *BoltDb) GetPendingTripInvites(tripID int) (invites []db.TripInviteWithUsers, err error) {
	invites = make([]db.TripInviteWithUsers, 0)

	err = d.db.View(func(tx *bbolt.Tx) error {
		pending, err := findObjectsTx(tx, tripInviteBucket, func(i db.TripInvite) bool {
			return i.TripID == tripID && i.Status == db.TripInvitePending
		})
		if err != nil {
			return err
		}

		for _, invite := range pending {
			inviter, err := getUserTx(tx, invite.InviterID)
			if err != nil {
				return err
			}
			invitee, err := getUserTx(tx, invite.InviteeID)
			if err != nil {
				return err
			}
			invites = append(invites, db.TripInviteWithUsers{
				TripInvite:      invite,
				InviterUsername: inviter.Username,
				InviteeUsername: invitee.Username,
			})
		}
		return nil
	})

	sort.SliceStable(invites, newestFirst(func(i int) (time.Time, int) {
		return invites[i].Created, invites[i].ID
	}))

	return
}

func (d *BoltDb) GetIncomingTripInvites(userID int) (invites []db.TripInviteWithTrip, err error) {
	invites = make([]db.TripInviteWithTrip, 0)

	err = d.db.View(func(tx *bbolt.Tx) error {
		pending, err := findObjectsTx(tx, tripInviteBucket, func(i db.TripInvite) bool {
			return i.InviteeID == userID && i.Status == db.TripInvitePending
		})
		if err != nil {
			return err
		}

		for _, invite := range pending {
			trip, err := getObjectTx[db.Trip](tx, tripBucket, intObjectID(invite.TripID))
			if err != nil {
				return err
			}
			inviter, err := getUserTx(tx, invite.InviterID)
			if err != nil {
				return err
			}
			invites = append(invites, db.TripInviteWithTrip{
				TripInvite:      invite,
				TripName:        trip.Name,
				InviterUsername: inviter.Username,
			})
		}
		return nil
	})

	sort.SliceStable(invites, newestFirst(func(i int) (time.Time, int) {
		return invites[i].Created, invites[i].ID
	}))

	return
}

func (d *BoltDb) HasPendingTripInvite(userID int, tripID int) (bool, error) {
	var invite db.TripInvite

	err := d.db.View(func(tx *bbolt.Tx) (err error) {
		invite, err = findTripInviteForTx(tx, tripID, userID)
		return
	})

	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return invite.Status == db.TripInvitePending, nil
}
