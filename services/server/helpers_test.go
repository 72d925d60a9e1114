package server

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trailfeathers/trailfeathers/db"
	"github.com/trailfeathers/trailfeathers/db/bolt"
	dbsql "github.com/trailfeathers/trailfeathers/db/sql"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	store   db.Store
	users   *UserServiceImpl
	friends *FriendshipServiceImpl
	access  *AccessServiceImpl
	trips   *TripServiceImpl
	invites *TripInviteServiceImpl
	gear    *GearServiceImpl
}

func newTestEnv(store db.Store) *testEnv {
	users := NewUserService(store)
	users.hashCost = bcrypt.MinCost

	friends := NewFriendshipService(store, store)
	access := NewAccessService(store, store)

	return &testEnv{
		store:   store,
		users:   users,
		friends: friends,
		access:  access,
		trips:   NewTripService(store, access),
		invites: NewTripInviteService(store, friends, access),
		gear:    NewGearService(store),
	}
}

// forEachStore runs fn once against the sqlite store and once against bolt.
func forEachStore(t *testing.T, fn func(t *testing.T, env *testEnv)) {
	backends := []struct {
		name   string
		create func() db.Store
	}{
		{"sql", func() db.Store { return dbsql.CreateTestStore() }},
		{"bolt", func() db.Store { return bolt.CreateTestStore() }},
	}

	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			store := backend.create()
			defer store.Close()

			fn(t, newTestEnv(store))
		})
	}
}

func (env *testEnv) signup(t *testing.T, username string) db.User {
	t.Helper()

	user, err := env.users.Signup(username, "password123")
	require.NoError(t, err)
	return user
}

func (env *testEnv) befriend(t *testing.T, a db.User, b db.User) {
	t.Helper()

	req, err := env.friends.SendRequest(a.ID, b.ID)
	require.NoError(t, err)

	ok, err := env.friends.Accept(req.ID, b.ID)
	require.NoError(t, err)
	require.True(t, ok)
}

func (env *testEnv) createTrip(t *testing.T, creator db.User, name string) db.Trip {
	t.Helper()

	trip, err := env.trips.CreateTrip(creator.ID, db.Trip{
		Name:         name,
		ActivityType: db.ActivityHiking,
	})
	require.NoError(t, err)
	return trip
}
