package bolt

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// CreateTestStore opens a migrated store in a fresh temp file.
func CreateTestStore() *BoltDb {
	dir, err := os.MkdirTemp("", "trailfeathers-bolt-")
	if err != nil {
		panic(err)
	}

	store := CreateBoltDB(filepath.Join(dir, "test_db_"+strconv.FormatInt(time.Now().UnixNano(), 10)))

	if err = store.Connect(); err != nil {
		panic(err)
	}

	if err = store.Migrate(); err != nil {
		panic(err)
	}

	return store
}
