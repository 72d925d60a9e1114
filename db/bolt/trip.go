package bolt

import (
	"errors"
	"sort"
	"time"

	"github.com/trailfeathers/trailfeathers/db"
	"go.etcd.io/bbolt"
)

func (d *BoltDb) CreateTrip(trip db.Trip) (newTrip db.Trip, err error) {
	if err = trip.Validate(); err != nil {
		return
	}

	trip.Created = time.Now().UTC()

	err = d.db.Update(func(tx *bbolt.Tx) error {
		if _, err := getUserTx(tx, trip.CreatorID); err != nil {
			return err
		}

		var err error
		trip.ID, err = nextIDTx(tx, tripBucket)
		if err != nil {
			return err
		}

		if err = putObjectTx(tx, tripBucket, intObjectID(trip.ID), trip); err != nil {
			return err
		}

		return putObjectTx(tx, collaboratorBucket, collaboratorID(trip.ID, trip.CreatorID), db.TripCollaborator{
			TripID: trip.ID,
			UserID: trip.CreatorID,
			Role:   db.CollaboratorCreator,
			Added:  trip.Created,
		})
	})

	if err != nil {
		return
	}

	newTrip = trip
	return
}

func (d *BoltDb) GetTrip(tripID int) (db.Trip, error) {
	return getObject[db.Trip](d, tripBucket, intObjectID(tripID))
}

func (d *BoltDb) GetUserTrips(userID int) (trips []db.Trip, err error) {
	trips = make([]db.Trip, 0)

	err = d.db.View(func(tx *bbolt.Tx) error {
		all, err := findObjectsTx[db.Trip](tx, tripBucket, nil)
		if err != nil {
			return err
		}

		for _, trip := range all {
			if trip.CreatorID == userID {
				trips = append(trips, trip)
				continue
			}

			_, err := getObjectTx[db.TripCollaborator](tx, collaboratorBucket, collaboratorID(trip.ID, userID))
			if err == nil {
				trips = append(trips, trip)
				continue
			}
			if !errors.Is(err, db.ErrNotFound) {
				return err
			}
		}
		return nil
	})

	sort.SliceStable(trips, newestFirst(func(i int) (time.Time, int) {
		return trips[i].Created, trips[i].ID
	}))
	return
}

func (d *BoltDb) GetTripCollaborators(tripID int) (collaborators []db.TripCollaboratorWithUser, err error) {
	collaborators = make([]db.TripCollaboratorWithUser, 0)

	err = d.db.View(func(tx *bbolt.Tx) error {
		roster, err := findObjectsTx(tx, collaboratorBucket, func(c db.TripCollaborator) bool {
			return c.TripID == tripID
		})
		if err != nil {
			return err
		}

		for _, c := range roster {
			user, err := getUserTx(tx, c.UserID)
			if err != nil {
				return err
			}
			collaborators = append(collaborators, db.TripCollaboratorWithUser{
				TripCollaborator: c,
				Username:         user.Username,
			})
		}
		return nil
	})

	sort.SliceStable(collaborators, func(i, j int) bool {
		a, b := collaborators[i], collaborators[j]
		if (a.Role == db.CollaboratorCreator) != (b.Role == db.CollaboratorCreator) {
			return a.Role == db.CollaboratorCreator
		}
		if !a.Added.Equal(b.Added) {
			return a.Added.Before(b.Added)
		}
		return a.UserID < b.UserID
	})

	return
}

func (d *BoltDb) GetTripCollaborator(tripID int, userID int) (db.TripCollaborator, error) {
	return getObject[db.TripCollaborator](d, collaboratorBucket, collaboratorID(tripID, userID))
}

func (d *BoltDb) CreateTripCollaborator(collaborator db.TripCollaborator) (newCollaborator db.TripCollaborator, err error) {
	if collaborator.Role == "" {
		collaborator.Role = db.CollaboratorMember
	}

	if err = collaborator.Validate(); err != nil {
		return
	}

	collaborator.Added = time.Now().UTC()

	err = d.db.Update(func(tx *bbolt.Tx) error {
		if _, err := getObjectTx[db.Trip](tx, tripBucket, intObjectID(collaborator.TripID)); err != nil {
			return err
		}

		if _, err := getUserTx(tx, collaborator.UserID); err != nil {
			return err
		}

		id := collaboratorID(collaborator.TripID, collaborator.UserID)

		_, err := getObjectTx[db.TripCollaborator](tx, collaboratorBucket, id)
		if err == nil {
			return db.ErrAlreadyCollaborator
		}
		if !errors.Is(err, db.ErrNotFound) {
			return err
		}

		return putObjectTx(tx, collaboratorBucket, id, collaborator)
	})

	if err != nil {
		return
	}

	newCollaborator = collaborator
	return
}
