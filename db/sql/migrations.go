package sql

import (
	"embed"
	"errors"
	"strings"
	"time"

	"github.com/go-gorp/gorp/v3"
	log "github.com/sirupsen/logrus"
	"github.com/trailfeathers/trailfeathers/db"
	"github.com/trailfeathers/trailfeathers/util"
)

//go:embed migrations/*.sql
var dbAssets embed.FS

// migrationVersions lists the schema versions in the order they are applied.
var migrationVersions = []string{
	"1.0.0",
}

func getVersionPath(version string) string {
	return "migrations/v" + version + ".sql"
}

func getVersionSQL(name string) (queries []string, err error) {
	sqlBytes, err := dbAssets.ReadFile(name)
	if err != nil {
		return
	}

	for _, query := range strings.Split(string(sqlBytes), ";\n") {
		query = strings.TrimSpace(query)
		if query != "" {
			queries = append(queries, query)
		}
	}
	return
}

// prepareMigration adapts the sqlite flavoured schema to the connected dialect.
func (d *SqlDb) prepareMigration(query string) string {
	switch d.config.Dialect {
	case util.DbDriverMySQL:
		query = strings.ReplaceAll(query, "integer primary key autoincrement", "integer primary key auto_increment")
		query = strings.ReplaceAll(query, " datetime", " datetime(6)")
	case util.DbDriverPostgres:
		query = strings.ReplaceAll(query, "integer primary key autoincrement", "serial primary key")
		query = strings.ReplaceAll(query, " datetime", " timestamp")
		query = strings.ReplaceAll(query, " real", " double precision")
	}
	return d.PrepareQuery(query)
}

func (d *SqlDb) isMigrationApplied(version string) (bool, error) {
	count, err := d.selectInt(d.sql, "select count(1) from `migrations` where `version`=?", version)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (d *SqlDb) applyMigration(version string) error {
	queries, err := getVersionSQL(getVersionPath(version))
	if err != nil {
		return err
	}

	return d.transact(func(tx *gorp.Transaction) error {
		for _, query := range queries {
			if _, err := tx.Exec(d.prepareMigration(query)); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"version": version,
					"query":   query,
				}).Error("migration query failed")
				return err
			}
		}

		_, err := d.exec(tx, "insert into `migrations` (`version`, `upgraded_date`) values (?, ?)", version, time.Now().UTC())
		return err
	})
}

func (d *SqlDb) Migrate() error {
	if d.sql == nil {
		return errors.New("database is not connected")
	}

	_, err := d.sql.Exec(d.prepareMigration(
		"create table if not exists `migrations` (`version` varchar(255) not null primary key, `upgraded_date` datetime)"))
	if err != nil {
		return db.Unavailable(err)
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
