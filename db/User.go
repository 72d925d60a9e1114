package db

import (
	"strings"
	"time"
)

const maxUsernameLength = 50

// User is the identity every other record points at. It is never deleted.
type User struct {
	ID       int       `db:"id" json:"id"`
	Username string    `db:"username" json:"username"`
	Created  time.Time `db:"created" json:"created"`
}

type UserWithPwd struct {
	User
	Pwd string `db:"password" json:"-"`
}

func (user *User) Validate() error {
	user.Username = strings.TrimSpace(user.Username)

	if user.Username == "" {
		return NewValidationError("username", "username is required")
	}

	if len(user.Username) > maxUsernameLength {
		return NewValidationError("username", "username must be at most %d characters", maxUsernameLength)
	}

	return nil
}
