package server

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/trailfeathers/trailfeathers/db"
)

// ErrInvalidCredentials is returned by login for an unknown user or a wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid username or password")

// storeError normalises an error coming back from the store and logs it at a
// level matching its kind.
func storeError(err error, fields log.Fields, msg string) error {
	if err == nil {
		return nil
	}

	err = db.Unavailable(err)

	if errors.Is(err, db.ErrUnavailable) {
		log.WithError(err).WithFields(fields).Error(msg)
	} else {
		log.WithError(err).WithFields(fields).Debug(msg)
	}

	return err
}
