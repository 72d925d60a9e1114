package sql

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gorp/gorp/v3"
	_ "github.com/go-sql-driver/mysql" // imports mysql driver
	_ "github.com/lib/pq"              // imports postgres driver
	log "github.com/sirupsen/logrus"
	"github.com/trailfeathers/trailfeathers/db"
	"github.com/trailfeathers/trailfeathers/util"
	_ "modernc.org/sqlite" // imports sqlite driver
)

type SqlDb struct {
	sql    *gorp.DbMap
	config util.DbConfig
}

var _ db.Store = (*SqlDb)(nil)

// CreateDb returns a store for the given configuration. Connect must be called
// before use.
func CreateDb(config util.DbConfig) *SqlDb {
	return &SqlDb{config: config}
}

func (d *SqlDb) Sql() *gorp.DbMap {
	return d.sql
}

func (d *SqlDb) Dialect() util.DbDialect {
	return d.config.Dialect
}

func driverName(dialect util.DbDialect) (string, gorp.Dialect, error) {
	switch dialect {
	case util.DbDriverMySQL:
		return "mysql", gorp.MySQLDialect{Engine: "InnoDB", Encoding: "UTF8"}, nil
	case util.DbDriverPostgres:
		return "postgres", gorp.PostgresDialect{}, nil
	case util.DbDriverSQLite:
		return "sqlite", gorp.SqliteDialect{}, nil
	default:
		return "", nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
}

func (d *SqlDb) Connect() error {
	driver, dialect, err := driverName(d.config.Dialect)
	if err != nil {
		return err
	}

	connectionString, err := d.config.GetConnectionString(true)
	if err != nil {
		return err
	}

	sqlDb, err := sql.Open(driver, connectionString)
	if err != nil {
		return err
	}

	if d.config.Dialect == util.DbDriverSQLite {
		// sqlite allows one writer; a single connection serializes transactions.
		sqlDb.SetMaxOpenConns(1)
	}

	if err = sqlDb.Ping(); err != nil {
		_ = sqlDb.Close()
		return err
	}

	if d.config.Dialect == util.DbDriverSQLite {
		if _, err = sqlDb.Exec("PRAGMA foreign_keys = ON"); err != nil {
			_ = sqlDb.Close()
			return err
		}
	}

	d.sql = &gorp.DbMap{Db: sqlDb, Dialect: dialect}
	return nil
}

func (d *SqlDb) Close() error {
	if d.sql == nil {
		return nil
	}
	return d.sql.Db.Close()
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// PrepareQuery rewrites a query written with backtick identifiers and ?
// placeholders for the connected dialect.
func (d *SqlDb) PrepareQuery(query string) string {
	if d.config.Dialect != util.DbDriverPostgres {
		return query
	}

	query = strings.ReplaceAll(query, "`", "\"")

	n := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}

func (d *SqlDb) insert(q gorp.SqlExecutor, primaryKeyColumnName string, query string, args ...any) (int, error) {
	if d.config.Dialect == util.DbDriverPostgres {
		id, err := q.SelectInt(d.PrepareQuery(query+" returning "+primaryKeyColumnName), args...)
		return int(id), err
	}

	res, err := q.Exec(d.PrepareQuery(query), args...)
	if err != nil {
		return 0, err
	}

	insertID, err := res.LastInsertId()
	return int(insertID), err
}

// insertIgnoreQuery builds an insert that silently skips rows violating a
// unique index.
func (d *SqlDb) insertIgnoreQuery(table string, columns ...string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	values := "(" + strings.Join(columns, ", ") + ") values (" + placeholders + ")"

	if d.config.Dialect == util.DbDriverMySQL {
		return "insert ignore into " + table + " " + values
	}
	return "insert into " + table + " " + values + " on conflict do nothing"
}

func (d *SqlDb) exec(q gorp.SqlExecutor, query string, args ...any) (sql.Result, error) {
	return q.Exec(d.PrepareQuery(query), args...)
}

func (d *SqlDb) selectOne(q gorp.SqlExecutor, holder any, query string, args ...any) error {
	err := q.SelectOne(holder, d.PrepareQuery(query), args...)

	if errors.Is(err, sql.ErrNoRows) {
		err = db.ErrNotFound
	}

	return err
}

func (d *SqlDb) selectAll(q gorp.SqlExecutor, holder any, query string, args ...any) ([]any, error) {
	return q.Select(holder, d.PrepareQuery(query), args...)
}

func (d *SqlDb) selectInt(q gorp.SqlExecutor, query string, args ...any) (int64, error) {
	return q.SelectInt(d.PrepareQuery(query), args...)
}

// transact runs fn inside a transaction that is committed when fn returns nil
// and rolled back otherwise.
func (d *SqlDb) transact(fn func(tx *gorp.Transaction) error) (err error) {
	tx, err := d.sql.Begin()
	if err != nil {
		return
	}

	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			handleRollbackError(rbErr)
		}
	}()

	if err = fn(tx); err != nil {
		return
	}

	err = tx.Commit()
	return
}

func handleRollbackError(err error) {
	if errors.Is(err, sql.ErrTxDone) {
		return
	}
	log.WithError(err).Warn("failed to rollback transaction")
}

func validateMutationResult(res sql.Result, err error) error {
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return db.ErrNotFound
	}

	return nil
}
