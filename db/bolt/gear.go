package bolt

import (
	"sort"
	"time"

	"github.com/trailfeathers/trailfeathers/db"
	"go.etcd.io/bbolt"
)

func (d *BoltDb) CreateGearItem(item db.GearItem) (newItem db.GearItem, err error) {
	if err = item.Validate(); err != nil {
		return
	}

	item.Created = time.Now().UTC()

	err = d.db.Update(func(tx *bbolt.Tx) error {
		if _, err := getUserTx(tx, item.UserID); err != nil {
			return err
		}

		var err error
		item.ID, err = nextIDTx(tx, gearBucket)
		if err != nil {
			return err
		}

		return putObjectTx(tx, gearBucket, intObjectID(item.ID), item)
	})

	if err != nil {
		return
	}

	newItem = item
	return
}

func (d *BoltDb) GetGearItems(userID int) (items []db.GearItem, err error) {
	items, err = findObjects(d, gearBucket, func(g db.GearItem) bool {
		return g.UserID == userID
	})

	sort.SliceStable(items, newestFirst(func(i int) (time.Time, int) {
		return items[i].Created, items[i].ID
	}))

	return
}
