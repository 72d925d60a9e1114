package bolt

import (
	"encoding/json"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/trailfeathers/trailfeathers/db"
	"go.etcd.io/bbolt"
)

type migration struct {
	Version      string    `json:"version"`
	UpgradedDate time.Time `json:"upgraded_date"`
}

var migrationVersions = []string{
	"1.0.0",
}

func (d *BoltDb) isMigrationApplied(version string) (bool, error) {
	err := d.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(migrationsBucket))
		if b == nil {
			return db.ErrNotFound
		}

		if b.Get([]byte(version)) == nil {
			return db.ErrNotFound
		}

		return nil
	})

	if err == nil {
		return true, nil
	}

	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}

	return false, err
}

func (d *BoltDb) applyMigration(version string) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		switch version {
		case "1.0.0":
			for _, bucket := range allBuckets {
				if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
					return err
				}
			}
		}

		b, err := tx.CreateBucketIfNotExists([]byte(migrationsBucket))
		if err != nil {
			return err
		}

		j, err := json.Marshal(migration{Version: version, UpgradedDate: time.Now().UTC()})
		if err != nil {
			return err
		}

		return b.Put([]byte(version), j)
	})
}

func (d *BoltDb) Migrate() error {
	if d.db == nil {
		return errors.New("database is not connected")
	}

	for _, version := range migrationVersions {
		applied, err := d.isMigrationApplied(version)
		if err != nil {
			return db.Unavailable(err)
		}

		if applied {
			continue
		}

		log.WithField("version", version).Info("applying migration")

		if err = d.applyMigration(version); err != nil {
			return db.Unavailable(err)
		}
	}

	return nil
}
