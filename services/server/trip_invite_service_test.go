package server

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailfeathers/trailfeathers/db"
)

func TestCreateInviteGuards(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		alice := env.signup(t, "alice")
		bob := env.signup(t, "bob")
		carol := env.signup(t, "carol")
		trip := env.createTrip(t, alice, "Lake loop")

		_, err := env.invites.CreateInvite(trip.ID, alice.ID, alice.ID)
		assert.ErrorIs(t, err, db.ErrSelfInvite)

		_, err = env.invites.CreateInvite(trip.ID, alice.ID, bob.ID)
		assert.ErrorIs(t, err, db.ErrNotFriends)

		env.befriend(t, alice, bob)
		env.befriend(t, bob, carol)

		_, err = env.invites.CreateInvite(trip.ID, bob.ID, carol.ID)
		assert.ErrorIs(t, err, db.ErrNotFound, "only the creator may invite")

		_, err = env.invites.CreateInvite(trip.ID+100, alice.ID, bob.ID)
		assert.ErrorIs(t, err, db.ErrNotFound)

		invite, err := env.invites.CreateInvite(trip.ID, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, db.TripInvitePending, invite.Status)

		_, err = env.invites.CreateInvite(trip.ID, alice.ID, bob.ID)
		assert.ErrorIs(t, err, db.ErrDuplicateInvite)
	})
}

func TestDeclinedInviteIsTerminal(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		alice := env.signup(t, "alice")
		bob := env.signup(t, "bob")
		env.befriend(t, alice, bob)
		trip := env.createTrip(t, alice, "Coast")

		invite, err := env.invites.CreateInvite(trip.ID, alice.ID, bob.ID)
		require.NoError(t, err)

		ok, err := env.invites.Decline(invite.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = env.invites.CreateInvite(trip.ID, alice.ID, bob.ID)
		assert.ErrorIs(t, err, db.ErrAlreadyResolved)

		canView, err := env.access.CanView(bob.ID, trip.ID)
		require.NoError(t, err)
		assert.False(t, canView)
	})
}

func TestInviteAlreadyMember(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		alice := env.signup(t, "alice")
		bob := env.signup(t, "bob")
		env.befriend(t, alice, bob)
		trip := env.createTrip(t, alice, "Summit")

		_, err := env.trips.AddCollaborator(trip.ID, bob.ID, db.CollaboratorMember)
		require.NoError(t, err)

		_, err = env.invites.CreateInvite(trip.ID, alice.ID, bob.ID)
		assert.ErrorIs(t, err, db.ErrAlreadyMember)
	})
}

func TestInviteResolutionGuards(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		alice := env.signup(t, "alice")
		bob := env.signup(t, "bob")
		env.befriend(t, alice, bob)
		trip := env.createTrip(t, alice, "Canyon")

		invite, err := env.invites.CreateInvite(trip.ID, alice.ID, bob.ID)
		require.NoError(t, err)

		ok, err := env.invites.Accept(invite.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, ok, "only the invitee may accept")

		ok, err = env.invites.Accept(invite.ID+100, bob.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = env.invites.Accept(invite.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = env.invites.Accept(invite.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		pending, err := env.invites.HasPendingInvite(bob.ID, trip.ID)
		require.NoError(t, err)
		assert.False(t, pending)
	})
}

func TestListPendingForTripCreatorOnly(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		alice := env.signup(t, "alice")
		bob := env.signup(t, "bob")
		env.befriend(t, alice, bob)
		trip := env.createTrip(t, alice, "Falls")

		_, err := env.invites.CreateInvite(trip.ID, alice.ID, bob.ID)
		require.NoError(t, err)

		pending, err := env.invites.ListPendingForTrip(alice.ID, trip.ID)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "alice", pending[0].InviterUsername)
		assert.Equal(t, "bob", pending[0].InviteeUsername)

		_, err = env.invites.ListPendingForTrip(bob.ID, trip.ID)
		assert.ErrorIs(t, err, db.ErrNotFound)

		canMutate, err := env.access.CanMutateInvites(bob.ID, trip.ID)
		require.NoError(t, err)
		assert.False(t, canMutate)

		canMutate, err = env.access.CanMutateInvites(alice.ID, trip.ID)
		require.NoError(t, err)
		assert.True(t, canMutate)
	})
}

func TestAcceptRacingAddCollaborator(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		alice := env.signup(t, "alice")
		bob := env.signup(t, "bob")
		env.befriend(t, alice, bob)
		trip := env.createTrip(t, alice, "Race")

		invite, err := env.invites.CreateInvite(trip.ID, alice.ID, bob.ID)
		require.NoError(t, err)

		var wg sync.WaitGroup
		var acceptOK bool
		var acceptErr, addErr error

		wg.Add(2)
		go func() {
			defer wg.Done()
			acceptOK, acceptErr = env.invites.Accept(invite.ID, bob.ID)
		}()
		go func() {
			defer wg.Done()
			_, addErr = env.trips.AddCollaborator(trip.ID, bob.ID, db.CollaboratorMember)
		}()
		wg.Wait()

		require.NoError(t, acceptErr)
		assert.True(t, acceptOK)
		if addErr != nil {
			assert.ErrorIs(t, addErr, db.ErrAlreadyCollaborator)
		}

		roster, err := env.trips.ListCollaborators(alice.ID, trip.ID)
		require.NoError(t, err)

		count := 0
		for _, c := range roster {
			if c.UserID == bob.ID {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})
}

func TestEndToEndTripCollaboration(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		alice := env.signup(t, "alice")
		bob := env.signup(t, "bob")

		trip, err := env.trips.CreateTrip(alice.ID, db.Trip{Name: "T", ActivityType: "Hiking"})
		require.NoError(t, err)

		roster, err := env.trips.ListCollaborators(alice.ID, trip.ID)
		require.NoError(t, err)
		require.Len(t, roster, 1)

		env.befriend(t, alice, bob)

		invite, err := env.invites.CreateInvite(trip.ID, alice.ID, bob.ID)
		require.NoError(t, err)

		incoming, err := env.invites.ListIncoming(bob.ID)
		require.NoError(t, err)
		require.Len(t, incoming, 1)
		assert.Equal(t, invite.ID, incoming[0].ID)
		assert.Equal(t, "T", incoming[0].TripName)
		assert.Equal(t, "alice", incoming[0].InviterUsername)

		canView, err := env.access.CanView(bob.ID, trip.ID)
		require.NoError(t, err)
		assert.True(t, canView)

		_, err = env.trips.GetTrip(bob.ID, trip.ID)
		assert.NoError(t, err, "pending invitees may preview the trip")

		ok, err := env.invites.Accept(invite.ID, bob.ID)
		require.NoError(t, err)
		require.True(t, ok)

		roster, err = env.trips.ListCollaborators(bob.ID, trip.ID)
		require.NoError(t, err)
		require.Len(t, roster, 2)
		assert.Equal(t, "alice", roster[0].Username)
		assert.Equal(t, db.CollaboratorCreator, roster[0].Role)
		assert.Equal(t, "bob", roster[1].Username)
		assert.Equal(t, db.CollaboratorMember, roster[1].Role)

		_, err = env.invites.CreateInvite(trip.ID, alice.ID, bob.ID)
		assert.ErrorIs(t, err, db.ErrAlreadyMember)

		incoming, err = env.invites.ListIncoming(bob.ID)
		require.NoError(t, err)
		assert.Empty(t, incoming)

		bobTrips, err := env.trips.ListTripsFor(bob.ID)
		require.NoError(t, err)
		require.Len(t, bobTrips, 1)
		assert.Equal(t, trip.ID, bobTrips[0].ID)
	})
}
