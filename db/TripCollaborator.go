package db

import "time"

type CollaboratorRole string

const (
	CollaboratorCreator CollaboratorRole = "creator"
	CollaboratorMember  CollaboratorRole = "member"
)

func (r CollaboratorRole) IsValid() bool {
	return r == CollaboratorCreator || r == CollaboratorMember
}

// TripCollaborator is one roster row. The creator gets one at trip creation,
// everybody else through an accepted invite.
type TripCollaborator struct {
	TripID int              `db:"trip_id" json:"trip_id"`
	UserID int              `db:"user_id" json:"user_id"`
	Role   CollaboratorRole `db:"role" json:"role"`
	Added  time.Time        `db:"added" json:"added"`
}

type TripCollaboratorWithUser struct {
	TripCollaborator
	Username string `db:"username" json:"username"`
}

func (c TripCollaborator) Validate() error {
	if !c.Role.IsValid() {
		return NewValidationError("role", "unknown collaborator role %q", c.Role)
	}
	return nil
}
