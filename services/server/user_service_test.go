package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailfeathers/trailfeathers/db"
)

func TestSignupAndAuthenticate(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		alice, err := env.users.Signup("  alice ", "password123")
		require.NoError(t, err)
		assert.Equal(t, "alice", alice.Username)

		user, err := env.users.Authenticate("alice", "password123")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, user.ID)

		_, err = env.users.Authenticate("alice", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = env.users.Authenticate("nobody", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestSignupRejectsDuplicatesAndBadInput(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		env.signup(t, "alice")

		_, err := env.users.Signup("alice", "password123")
		assert.ErrorIs(t, err, db.ErrUsernameTaken)

		_, err = env.users.Signup("Alice", "password123")
		assert.NoError(t, err, "usernames are case-sensitive")

		_, err = env.users.Signup("   ", "password123")
		assert.ErrorIs(t, err, db.ErrMissingField)

		_, err = env.users.Signup("carol", "short")
		assert.ErrorIs(t, err, db.ErrMissingField)
	})
}

func TestIdentityLookups(t *testing.T) {
	forEachStore(t, func(t *testing.T, env *testEnv) {
		alice := env.signup(t, "alice")

		byID, err := env.users.GetUser(alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Username)

		byName, err := env.users.GetUserByUsername("alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byName.ID)

		_, err = env.users.GetUser(alice.ID + 100)
		assert.ErrorIs(t, err, db.ErrNotFound)

		ok, err := env.users.Exists("alice")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = env.users.Exists("ALICE")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
