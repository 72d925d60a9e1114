package bolt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/trailfeathers/trailfeathers/db"
	"go.etcd.io/bbolt"
)

const (
	userBucket          = "user"
	friendRequestBucket = "friend_request"
	tripBucket          = "trip"
	collaboratorBucket  = "trip__collaborator"
	tripInviteBucket    = "trip__invite"
	gearBucket          = "gear_item"
	migrationsBucket    = "migrations"
)

var allBuckets = []string{
	userBucket,
	friendRequestBucket,
	tripBucket,
	collaboratorBucket,
	tripInviteBucket,
	gearBucket,
	migrationsBucket,
}

// BoltDb keeps every entity type in its own bucket as JSON documents.
// bbolt runs one read-write transaction at a time, so every check-then-insert
// below is serialized against concurrent writers.
type BoltDb struct {
	Filename string
	db       *bbolt.DB
}

var _ db.Store = (*BoltDb)(nil)

func CreateBoltDB(filename string) *BoltDb {
	return &BoltDb{Filename: filename}
}

type objectID interface {
	ToBytes() []byte
}

type intObjectID int
type strObjectID string

func (d intObjectID) ToBytes() []byte {
	return []byte(fmt.Sprintf("%010d", d))
}

func (d strObjectID) ToBytes() []byte {
	return []byte(d)
}

func collaboratorID(tripID int, userID int) objectID {
	return strObjectID(fmt.Sprintf("%010d_%010d", tripID, userID))
}

func (d *BoltDb) Connect() (err error) {
	d.db, err = bbolt.Open(d.Filename, 0600, &bbolt.Options{
		Timeout: 5 * time.Second,
	})
	return
}

func (d *BoltDb) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

func nextIDTx(tx *bbolt.Tx, bucket string) (int, error) {
	b := tx.Bucket([]byte(bucket))
	if b == nil {
		return 0, fmt.Errorf("bucket %s does not exist", bucket)
	}

	id, err := b.NextSequence()
	if err != nil {
		return 0, err
	}

	return int(id), nil
}

func getObjectTx[T any](tx *bbolt.Tx, bucket string, id objectID) (obj T, err error) {
	b := tx.Bucket([]byte(bucket))
	if b == nil {
		err = db.ErrNotFound
		return
	}

	str := b.Get(id.ToBytes())
	if str == nil {
		err = db.ErrNotFound
		return
	}

	err = json.Unmarshal(str, &obj)
	return
}

func putObjectTx(tx *bbolt.Tx, bucket string, id objectID, obj any) error {
	b, err := tx.CreateBucketIfNotExists([]byte(bucket))
	if err != nil {
		return err
	}

	str, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return b.Put(id.ToBytes(), str)
}

// findObjectsTx returns every object in bucket accepted by filter; a nil filter
// accepts everything.
func findObjectsTx[T any](tx *bbolt.Tx, bucket string, filter func(T) bool) ([]T, error) {
	objects := make([]T, 0)

	b := tx.Bucket([]byte(bucket))
	if b == nil {
		return objects, nil
	}

	err := b.ForEach(func(_, body []byte) error {
		var obj T
		if err := json.Unmarshal(body, &obj); err != nil {
			return err
		}
		if filter == nil || filter(obj) {
			objects = append(objects, obj)
		}
		return nil
	})

	return objects, err
}

func getObject[T any](d *BoltDb, bucket string, id objectID) (obj T, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		var txErr error
		obj, txErr = getObjectTx[T](tx, bucket, id)
		return txErr
	})
	return
}

func findObjects[T any](d *BoltDb, bucket string, filter func(T) bool) (objects []T, err error) {
	err = d.db.View(func(tx *bbolt.Tx) error {
		var txErr error
		objects, txErr = findObjectsTx(tx, bucket, filter)
		return txErr
	})
	return
}

// newestFirst orders a listing by creation time descending, breaking ties on id.
func newestFirst(key func(i int) (time.Time, int)) func(i, j int) bool {
	return func(i, j int) bool {
		ci, idI := key(i)
		cj, idJ := key(j)
		if ci.Equal(cj) {
			return idI > idJ
		}
		return ci.After(cj)
	}
}
