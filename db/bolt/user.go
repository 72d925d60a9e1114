package bolt

import (
	"errors"
	"time"

	"github.com/trailfeathers/trailfeathers/db"
	"go.etcd.io/bbolt"
)

// userRecord is the stored form of a user; db.UserWithPwd hides the hash from JSON.
type userRecord struct {
	db.User
	Password string `json:"password"`
}

func getUserTx(tx *bbolt.Tx, userID int) (db.User, error) {
	rec, err := getObjectTx[userRecord](tx, userBucket, intObjectID(userID))
	return rec.User, err
}

func findUserByUsernameTx(tx *bbolt.Tx, username string) (rec userRecord, err error) {
	users, err := findObjectsTx(tx, userBucket, func(u userRecord) bool {
		return u.Username == username
	})
	if err != nil {
		return
	}

	if len(users) == 0 {
		err = db.ErrNotFound
		return
	}

	rec = users[0]
	return
}

func (d *BoltDb) CreateUser(user db.UserWithPwd) (newUser db.User, err error) {
	if err = user.Validate(); err != nil {
		return
	}

	user.Created = time.Now().UTC()

	err = d.db.Update(func(tx *bbolt.Tx) error {
		_, err := findUserByUsernameTx(tx, user.Username)
		if err == nil {
			return db.ErrUsernameTaken
		}
		if !errors.Is(err, db.ErrNotFound) {
			return err
		}

		id, err := nextIDTx(tx, userBucket)
		if err != nil {
			return err
		}
		user.ID = id

		return putObjectTx(tx, userBucket, intObjectID(id), userRecord{User: user.User, Password: user.Pwd})
	})

	if err != nil {
		return
	}

	newUser = user.User
	return
}

func (d *BoltDb) GetUser(userID int) (user db.User, err error) {
	rec, err := getObject[userRecord](d, userBucket, intObjectID(userID))
	user = rec.User
	return
}

func (d *BoltDb) GetUserByUsername(username string) (user db.User, err error) {
	res, err := d.GetUserWithPwd(username)
	user = res.User
	return
}

func (d *BoltDb) GetUserWithPwd(username string) (user db.UserWithPwd, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		rec, err := findUserByUsernameTx(tx, username)
		if err != nil {
			return err
		}
		user = db.UserWithPwd{User: rec.User, Pwd: rec.Password}
		return nil
	})
	return
}
