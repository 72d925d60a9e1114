package sql

import (
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/go-gorp/gorp/v3"
	"github.com/trailfeathers/trailfeathers/db"
)

var tripFields = []string{
	"t.id",
	"t.creator_id",
	"t.trip_name",
	"t.trail_name",
	"t.activity_type",
	"t.intended_start_date",
	"t.created",
}

const collaboratorColumns = "`trip_id`, `user_id`, `role`, `added`"

func (d *SqlDb) CreateTrip(trip db.Trip) (newTrip db.Trip, err error) {
	if err = trip.Validate(); err != nil {
		return
	}

	trip.Created = time.Now().UTC()

	err = d.transact(func(tx *gorp.Transaction) error {
		var creator db.User
		if err := d.selectOne(tx, &creator, "select "+userColumns+" from `user` where `id`=?", trip.CreatorID); err != nil {
			return err
		}

		var err error
		trip.ID, err = d.insert(
			tx,
			"id",
			"insert into `trip` (`creator_id`, `trip_name`, `trail_name`, `activity_type`, `intended_start_date`, `created`) values (?, ?, ?, ?, ?, ?)",
			trip.CreatorID,
			trip.Name,
			trip.TrailName,
			trip.ActivityType,
			trip.IntendedStartDate,
			trip.Created)
		if err != nil {
			return err
		}

		_, err = d.exec(
			tx,
			"insert into `trip__collaborator` ("+collaboratorColumns+") values (?, ?, ?, ?)",
			trip.ID,
			trip.CreatorID,
			db.CollaboratorCreator,
			trip.Created)
		return err
	})

	if err != nil {
		return
	}

	newTrip = trip
	return
}

func (d *SqlDb) getTrip(q gorp.SqlExecutor, tripID int) (trip db.Trip, err error) {
	query, args, err := squirrel.Select(tripFields...).
		From("`trip` t").
		Where(squirrel.Eq{"t.id": tripID}).
		ToSql()
	if err != nil {
		return
	}

	err = d.selectOne(q, &trip, query, args...)
	return
}

func (d *SqlDb) GetTrip(tripID int) (db.Trip, error) {
	return d.getTrip(d.sql, tripID)
}

func (d *SqlDb) GetUserTrips(userID int) (trips []db.Trip, err error) {
	trips = make([]db.Trip, 0)

	// At most one roster row matches per trip, so the join never duplicates.
	query, args, err := squirrel.Select(tripFields...).
		From("`trip` t").
		LeftJoin("`trip__collaborator` tc on (tc.trip_id = t.id and tc.user_id = ?)", userID).
		Where(squirrel.Or{
			squirrel.Eq{"t.creator_id": userID},
			squirrel.NotEq{"tc.user_id": nil},
		}).
		OrderBy("t.created desc", "t.id desc").
		ToSql()

	if err != nil {
		return
	}

	_, err = d.selectAll(d.sql, &trips, query, args...)
	return
}

func (d *SqlDb) GetTripCollaborators(tripID int) (collaborators []db.TripCollaboratorWithUser, err error) {
	collaborators = make([]db.TripCollaboratorWithUser, 0)

	query, args, err := squirrel.Select(
		"tc.trip_id",
		"tc.user_id",
		"tc.role",
		"tc.added",
		"u.username",
	).
		From("`trip__collaborator` tc").
		Join("`user` u on u.id = tc.user_id").
		Where(squirrel.Eq{"tc.trip_id": tripID}).
		OrderBy("case when tc.role = 'creator' then 0 else 1 end", "tc.added", "tc.user_id").
		ToSql()

	if err != nil {
		return
	}

	_, err = d.selectAll(d.sql, &collaborators, query, args...)
	return
}

func (d *SqlDb) getTripCollaborator(q gorp.SqlExecutor, tripID int, userID int) (collaborator db.TripCollaborator, err error) {
	err = d.selectOne(q, &collaborator,
		"select "+collaboratorColumns+" from `trip__collaborator` where `trip_id`=? and `user_id`=?",
		tripID,
		userID)
	return
}

func (d *SqlDb) GetTripCollaborator(tripID int, userID int) (db.TripCollaborator, error) {
	return d.getTripCollaborator(d.sql, tripID, userID)
}

func (d *SqlDb) CreateTripCollaborator(collaborator db.TripCollaborator) (newCollaborator db.TripCollaborator, err error) {
	if collaborator.Role == "" {
		collaborator.Role = db.CollaboratorMember
	}

	if err = collaborator.Validate(); err != nil {
		return
	}

	collaborator.Added = time.Now().UTC()

	err = d.transact(func(tx *gorp.Transaction) error {
		if _, err := d.getTrip(tx, collaborator.TripID); err != nil {
			return err
		}

		var user db.User
		if err := d.selectOne(tx, &user, "select "+userColumns+" from `user` where `id`=?", collaborator.UserID); err != nil {
			return err
		}

		_, err := d.getTripCollaborator(tx, collaborator.TripID, collaborator.UserID)
		if err == nil {
			return db.ErrAlreadyCollaborator
		}
		if !errors.Is(err, db.ErrNotFound) {
			return err
		}

		_, err = d.exec(
			tx,
			"insert into `trip__collaborator` ("+collaboratorColumns+") values (?, ?, ?, ?)",
			collaborator.TripID,
			collaborator.UserID,
			collaborator.Role,
			collaborator.Added)
		return err
	})

	if isUniqueViolation(err) {
		err = db.ErrAlreadyCollaborator
	}

	if err != nil {
		return
	}

	newCollaborator = collaborator
	return
}
