package server

import (
	log "github.com/sirupsen/logrus"
	"github.com/trailfeathers/trailfeathers/db"
)

type GearService interface {
	AddItem(userID int, item db.GearItem) (db.GearItem, error)
	ListItems(userID int) ([]db.GearItem, error)
}

type GearServiceImpl struct {
	gearRepo db.GearManager
}

func NewGearService(gearRepo db.GearManager) *GearServiceImpl {
	return &GearServiceImpl{gearRepo: gearRepo}
}

func (s *GearServiceImpl) AddItem(userID int, item db.GearItem) (db.GearItem, error) {
	item.ID = 0
	item.UserID = userID

	fields := log.Fields{
		"context": "gear",
		"user_id": userID,
	}

	newItem, err := s.gearRepo.CreateGearItem(item)
	if err != nil {
		return newItem, storeError(err, fields, "gear item rejected")
	}

	log.WithFields(fields).WithField("gear_id", newItem.ID).Info("gear item added")
	return newItem, nil
}

func (s *GearServiceImpl) ListItems(userID int) ([]db.GearItem, error) {
	items, err := s.gearRepo.GetGearItems(userID)
	return items, db.Unavailable(err)
}
