package database

import (
	"database/sql"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"
)

// Open returns a Postgres handle, or an SQLite one when dsn uses the file: scheme.
func Open(dsn string, password string) (*bun.DB, error) {
	if IsSQLite(dsn) {
		return OpenSQLite(dsn)
	}

	opts := []pgdriver.Option{pgdriver.WithDSN(dsn)}
	if password != "" {
		opts = append(opts, pgdriver.WithPassword(password))
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))

	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite has a single writer
	sqldb.SetMaxOpenConns(1)

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func IsSQLite(dsn string) bool {
	return strings.HasPrefix(dsn, "file:")
}
