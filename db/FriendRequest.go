package db

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestDeclined FriendRequestStatus = "declined"
)

func (s FriendRequestStatus) IsValid() bool {
	switch s {
	case FriendRequestPending, FriendRequestAccepted, FriendRequestDeclined:
		return true
	default:
		return false
	}
}

// IsResolution reports whether a pending request may move to s.
func (s FriendRequestStatus) IsResolution() bool {
	return s == FriendRequestAccepted || s == FriendRequestDeclined
}

// FriendRequest is the single record kept for an unordered pair of users.
// SenderID survives acceptance for audit; the friendship itself is symmetric.
type FriendRequest struct {
	ID         int                 `db:"id" json:"id"`
	SenderID   int                 `db:"sender_id" json:"sender_id"`
	ReceiverID int                 `db:"receiver_id" json:"receiver_id"`
	Status     FriendRequestStatus `db:"status" json:"status"`
	Created    time.Time           `db:"created" json:"created"`
}

type FriendRequestWithSender struct {
	FriendRequest
	SenderUsername string `db:"sender_username" json:"sender_username"`
}

func (r FriendRequest) Validate() error {
	if r.SenderID == r.ReceiverID {
		return ErrSelfReference
	}
	if !r.Status.IsValid() {
		return NewValidationError("status", "unknown friend request status %q", r.Status)
	}
	return nil
}

// Counterpart returns the other side of the pair as seen by userID.
func (r FriendRequest) Counterpart(userID int) int {
	if r.SenderID == userID {
		return r.ReceiverID
	}
	return r.SenderID
}

// Conflict explains why callerID can not open a new request while r exists
// for the same pair.
func (r FriendRequest) Conflict(callerID int) error {
	switch r.Status {
	case FriendRequestAccepted:
		return ErrAlreadyFriends
	case FriendRequestPending:
		if r.SenderID == callerID {
			return ErrDuplicateRequest
		}
		return ErrReciprocalPending
	default:
		return ErrRequestExists
	}
}

// FriendPair orders two user ids so (a, b) and (b, a) share one key.
func FriendPair(a, b int) (low int, high int) {
	if a < b {
		return a, b
	}
	return b, a
}
