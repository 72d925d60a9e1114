package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailfeathers/trailfeathers/db"
)

func TestCreateTripAddsCreatorToRoster(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		alice := env.signup(t, "alice")

		trail := "Enchanted Valley"
		start := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)

		trip, err := env.trips.CreateTrip(alice.ID, db.Trip{
			Name:              "Fourth of July",
			TrailName:         &trail,
			ActivityType:      db.ActivityBackpacking,
			IntendedStartDate: &start,
		})
		require.NoError(t, err)
		assert.NotZero(t, trip.ID)
		assert.Equal(t, alice.ID, trip.CreatorID)

		roster, err := env.trips.ListCollaborators(alice.ID, trip.ID)
		require.NoError(t, err)
		require.Len(t, roster, 1)
		assert.Equal(t, alice.ID, roster[0].UserID)
		assert.Equal(t, db.CollaboratorCreator, roster[0].Role)
		assert.Equal(t, "alice", roster[0].Username)

		trips, err := env.trips.ListTripsFor(alice.ID)
		require.NoError(t, err)
		require.Len(t, trips, 1)
		assert.Equal(t, trip.ID, trips[0].ID)

		stored, err := env.trips.GetTrip(alice.ID, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, "Fourth of July", stored.Name)
		require.NotNil(t, stored.TrailName)
		assert.Equal(t, trail, *stored.TrailName)
		require.NotNil(t, stored.IntendedStartDate)
		assert.True(t, start.Equal(*stored.IntendedStartDate))
	})
}

func TestCreateTripValidation(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		alice := env.signup(t, "alice")

		_, err := env.trips.CreateTrip(alice.ID, db.Trip{Name: "Jump", ActivityType: "Skydiving"})
		assert.ErrorIs(t, err, db.ErrMissingField)

		_, err = env.trips.CreateTrip(alice.ID, db.Trip{Name: "  ", ActivityType: db.ActivityHiking})
		assert.ErrorIs(t, err, db.ErrMissingField)

		trips, err := env.trips.ListTripsFor(alice.ID)
		require.NoError(t, err)
		assert.Empty(t, trips)
	})
}

func TestListTripsNewestFirst(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		alice := env.signup(t, "alice")

		first := env.createTrip(t, alice, "First")
		second := env.createTrip(t, alice, "Second")

		trips, err := env.trips.ListTripsFor(alice.ID)
		require.NoError(t, err)
		require.Len(t, trips, 2)
		assert.Equal(t, second.ID, trips[0].ID)
		assert.Equal(t, first.ID, trips[1].ID)
	})
}

func TestTripHiddenFromStrangers(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		alice := env.signup(t, "alice")
		mallory := env.signup(t, "mallory")

		trip := env.createTrip(t, alice, "Private")

		_, err := env.trips.GetTrip(mallory.ID, trip.ID)
		assert.ErrorIs(t, err, db.ErrNotFound)

		_, err = env.trips.ListCollaborators(mallory.ID, trip.ID)
		assert.ErrorIs(t, err, db.ErrNotFound)

		_, err = env.trips.Checklist(mallory.ID, trip.ID)
		assert.ErrorIs(t, err, db.ErrNotFound)

		_, err = env.trips.GetTrip(alice.ID, trip.ID+100)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})
}

func TestAddCollaborator(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		alice := env.signup(t, "alice")
		bob := env.signup(t, "bob")
		trip := env.createTrip(t, alice, "Ridge walk")

		c, err := env.trips.AddCollaborator(trip.ID, bob.ID, "")
		require.NoError(t, err)
		assert.Equal(t, db.CollaboratorMember, c.Role)

		_, err = env.trips.AddCollaborator(trip.ID, bob.ID, db.CollaboratorMember)
		assert.ErrorIs(t, err, db.ErrAlreadyCollaborator)

		_, err = env.trips.AddCollaborator(trip.ID, alice.ID, db.CollaboratorMember)
		assert.ErrorIs(t, err, db.ErrAlreadyCollaborator)

		_, err = env.trips.AddCollaborator(trip.ID+100, bob.ID, db.CollaboratorMember)
		assert.ErrorIs(t, err, db.ErrNotFound)

		roster, err := env.trips.ListCollaborators(bob.ID, trip.ID)
		require.NoError(t, err)
		require.Len(t, roster, 2)
		assert.Equal(t, alice.ID, roster[0].UserID)
		assert.Equal(t, bob.ID, roster[1].UserID)

		trips, err := env.trips.ListTripsFor(bob.ID)
		require.NoError(t, err)
		require.Len(t, trips, 1)
	})
}

func TestChecklistAndActivityTypes(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		alice := env.signup(t, "alice")
		trip := env.createTrip(t, alice, "Day hike")

		items, err := env.trips.Checklist(alice.ID, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Daypack", "Water", "Snacks", "First aid", "Map"}, items)

		types := env.trips.ActivityTypes()
		assert.Len(t, types, 6)
		assert.Equal(t, db.ActivityBackpacking, types[0])
	})
}
