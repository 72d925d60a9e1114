package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFriendRequest_Validate(t *testing.T) {
	req := FriendRequest{SenderID: 4, ReceiverID: 4, Status: FriendRequestPending}
	assert.ErrorIs(t, req.Validate(), ErrSelfReference)

	req.ReceiverID = 5
	assert.NoError(t, req.Validate())
}

func TestFriendRequest_Conflict(t *testing.T) {
	tests := []struct {
		name   string
		status FriendRequestStatus
		caller int
		want   error
	}{
		{"accepted by sender", FriendRequestAccepted, 1, ErrAlreadyFriends},
		{"accepted by receiver", FriendRequestAccepted, 2, ErrAlreadyFriends},
		{"pending by sender", FriendRequestPending, 1, ErrDuplicateRequest},
		{"pending by receiver", FriendRequestPending, 2, ErrReciprocalPending},
		{"declined", FriendRequestDeclined, 1, ErrRequestExists},
		{"declined reversed", FriendRequestDeclined, 2, ErrRequestExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := FriendRequest{ID: 1, SenderID: 1, ReceiverID: 2, Status: tt.status}
			err := req.Conflict(tt.caller)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFriendPair(t *testing.T) {
	low, high := FriendPair(9, 3)
	assert.Equal(t, 3, low)
	assert.Equal(t, 9, high)

	low2, high2 := FriendPair(3, 9)
	assert.Equal(t, low, low2)
	assert.Equal(t, high, high2)
}

func TestFriendRequest_Counterpart(t *testing.T) {
	req := FriendRequest{SenderID: 1, ReceiverID: 2}
	assert.Equal(t, 2, req.Counterpart(1))
	assert.Equal(t, 1, req.Counterpart(2))
}
