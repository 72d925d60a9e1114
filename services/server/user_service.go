package server

import (
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/trailfeathers/trailfeathers/db"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type UserService interface {
	Signup(username string, password string) (db.User, error)
	Authenticate(username string, password string) (db.User, error)
	GetUser(userID int) (db.User, error)
	GetUserByUsername(username string) (db.User, error)
	Exists(username string) (bool, error)
}

type UserServiceImpl struct {
	userRepo db.UserManager
	hashCost int
}

func NewUserService(userRepo db.UserManager) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo: userRepo,
		hashCost: bcrypt.DefaultCost,
	}
}

func (s *UserServiceImpl) Signup(username string, password string) (user db.User, err error) {
	username = strings.TrimSpace(username)

	if len(password) < minPasswordLength {
		err = db.NewValidationError("password", "must be at least %d characters", minPasswordLength)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return
	}

	user, err = s.userRepo.CreateUser(db.UserWithPwd{
		User: db.User{Username: username},
		Pwd:  string(hash),
	})

	fields := log.Fields{"context": "user", "username": username}

	if err != nil {
		err = storeError(err, fields, "signup rejected")
		return
	}

	log.WithFields(fields).WithField("user_id", user.ID).Info("user signed up")
	return
}

func (s *UserServiceImpl) Authenticate(username string, password string) (db.User, error) {
	user, err := s.userRepo.GetUserWithPwd(strings.TrimSpace(username))

	if errors.Is(err, db.ErrNotFound) {
		return db.User{}, ErrInvalidCredentials
	}

	if err != nil {
		return db.User{}, storeError(err, log.Fields{"context": "user"}, "failed to load user")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Pwd), []byte(password)) != nil {
		log.WithFields(log.Fields{"context": "user", "username": user.Username}).Debug("wrong password")
		return db.User{}, ErrInvalidCredentials
	}

	return user.User, nil
}

func (s *UserServiceImpl) GetUser(userID int) (db.User, error) {
	user, err := s.userRepo.GetUser(userID)
	return user, db.Unavailable(err)
}

func (s *UserServiceImpl) GetUserByUsername(username string) (db.User, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	return user, db.Unavailable(err)
}

func (s *UserServiceImpl) Exists(username string) (bool, error) {
	_, err := s.userRepo.GetUserByUsername(username)

	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}

	if err != nil {
		return false, db.Unavailable(err)
	}

	return true, nil
}
