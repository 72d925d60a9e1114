package sql

import (
	"github.com/trailfeathers/trailfeathers/util"
)

// CreateTestStore returns a migrated in-memory sqlite store. It panics on
// failure and is meant for tests only.
func CreateTestStore() *SqlDb {
	store := CreateDb(util.DbConfig{
		Dialect: util.DbDriverSQLite,
		Path:    ":memory:",
	})

	if err := store.Connect(); err != nil {
		panic(err)
	}

	if err := store.Migrate(); err != nil {
		panic(err)
	}

	return store
}
