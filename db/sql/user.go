package sql

import (
	"time"

	"github.com/trailfeathers/trailfeathers/db"
)

const userColumns = "`id`, `username`, `created`"

func (d *SqlDb) CreateUser(user db.UserWithPwd) (newUser db.User, err error) {
	if err = user.Validate(); err != nil {
		return
	}

	user.Created = time.Now().UTC()

	insertID, err := d.insert(
		d.sql,
		"id",
		"insert into `user` (`username`, `password`, `created`) values (?, ?, ?)",
		user.Username,
		user.Pwd,
		user.Created)

	if isUniqueViolation(err) {
		err = db.ErrUsernameTaken
	}

	if err != nil {
		return
	}

	newUser = user.User
	newUser.ID = insertID
	return
}

func (d *SqlDb) GetUser(userID int) (user db.User, err error) {
	err = d.selectOne(d.sql, &user, "select "+userColumns+" from `user` where `id`=?", userID)
	return
}

func (d *SqlDb) GetUserByUsername(username string) (user db.User, err error) {
	err = d.selectOne(d.sql, &user, "select "+userColumns+" from `user` where `username`=?", username)
	return
}

func (d *SqlDb) GetUserWithPwd(username string) (user db.UserWithPwd, err error) {
	err = d.selectOne(d.sql, &user, "select "+userColumns+", `password` from `user` where `username`=?", username)
	return
}
