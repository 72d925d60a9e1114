package db

import (
	"time"
)

type TripInviteStatus string

const (
	TripInvitePending  TripInviteStatus = "pending"
	TripInviteAccepted TripInviteStatus = "accepted"
	TripInviteDeclined TripInviteStatus = "declined"
)

func (s TripInviteStatus) IsValid() bool {
	switch s {
	case TripInvitePending, TripInviteAccepted, TripInviteDeclined:
		return true
	default:
		return false
	}
}

func (s TripInviteStatus) IsResolution() bool {
	return s == TripInviteAccepted || s == TripInviteDeclined
}

type TripInvite struct {
	ID         int              `db:"id" json:"id"`
	TripID     int              `db:"trip_id" json:"trip_id"`
	InviterID  int              `db:"inviter_id" json:"inviter_id"`
	InviteeID  int              `db:"invitee_id" json:"invitee_id"`
	Status     TripInviteStatus `db:"status" json:"status"`
	Created    time.Time        `db:"created" json:"created"`
	ResolvedAt *time.Time       `db:"resolved_at" json:"resolved_at,omitempty"`
}

// TripInviteWithUsers is the creator's view of the invites sent for a trip.
type TripInviteWithUsers struct {
	TripInvite
	InviterUsername string `db:"inviter_username" json:"inviter_username"`
	InviteeUsername string `db:"invitee_username" json:"invitee_username"`
}

// TripInviteWithTrip is the invitee's view of an invite.
type TripInviteWithTrip struct {
	TripInvite
	TripName        string `db:"trip_name" json:"trip_name"`
	InviterUsername string `db:"inviter_username" json:"inviter_username"`
}

func (i TripInvite) Validate() error {
	if i.InviterID == i.InviteeID {
		return ErrSelfInvite
	}
	if !i.Status.IsValid() {
		return NewValidationError("status", "unknown invite status %q", i.Status)
	}
	return nil
}

// Conflict explains why a new invite can not be created while i exists for
// the same trip and invitee. Answered invites are never reopened.
func (i TripInvite) Conflict() error {
	if i.Status == TripInvitePending {
		return ErrDuplicateInvite
	}
	return ErrAlreadyResolved
}
