// Package database opens the single bun connection used by a publish run.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

// Open resolves dsn, opens a one-connection pool and pings it so connection
// failures surface here rather than on the first query.
func Open(ctx context.Context, dsn string) (*bun.DB, error) {
	target, err := Resolve(dsn)
	if err != nil {
		return nil, err
	}

	dialect, err := dialectFor(target.Driver)
	if err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(target.Driver, target.DSN)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", target.Driver, err)
	}
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)

	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	return bun.NewDB(sqldb, dialect), nil
}

func dialectFor(driver string) (schema.Dialect, error) {
	switch driver {
	case DriverPostgres:
		return pgdialect.New(), nil
	case DriverSQLite:
		return sqlitedialect.New(), nil
	default:
		return nil, fmt.Errorf("%w: driver %s", ErrUnsupportedScheme, driver)
	}
}

// ErrorMetadata extracts driver diagnostics from err for attaching to a
// categorised error. It returns nil when err carries none.
func ErrorMetadata(err error) map[string]any {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		meta := map[string]any{
			"driver":   DriverPostgres,
			"sqlstate": pgErr.Code,
		}
		if pgErr.ConstraintName != "" {
			meta["constraint"] = pgErr.ConstraintName
		}
		if pgErr.TableName != "" {
			meta["table"] = pgErr.TableName
		}
		return meta
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return map[string]any{
			"driver":               DriverSQLite,
			"sqlite_code":          int(liteErr.Code),
			"sqlite_extended_code": int(liteErr.ExtendedCode),
		}
	}

	return nil
}
