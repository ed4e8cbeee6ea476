package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"noteful/internal/store"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// sqliteDriver is go-sqlite3 with LOWER replaced by a Unicode-aware version,
// so case-insensitive search agrees with strings.ToLower on the search term.
const sqliteDriver = "sqlite3_noteful"

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
}

// DBType represents the SQL dialect spoken by the configured driver
type DBType string

const (
	SQLite   DBType = "sqlite3"
	Postgres DBType = "postgres"
)

var _ store.Store = (*SQLStore)(nil)

// SQLStore implements the Store interface for SQL databases
type SQLStore struct {
	db     *sql.DB
	dbType DBType
}

// driverName returns the registered database/sql driver to open for driver.
func driverName(driver string) string {
	if driver == "sqlite3" {
		return sqliteDriver
	}
	return driver
}

// dialect maps a database/sql driver name to the SQL dialect it speaks.
// Both lib/pq ("postgres") and pgx ("pgx") talk to PostgreSQL.
func dialect(driver string) (DBType, error) {
	switch driver {
	case "sqlite3":
		return SQLite, nil
	case "postgres", "pgx":
		return Postgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// New creates a new SQLStore with the given driver and connection string,
// bringing the schema up to date before returning.
func New(driver, connStr string) (*SQLStore, error) {
	dbType, err := dialect(driver)
	if err != nil {
		return nil, err
	}

	if err := migrateUp(driverName(driver), dbType, connStr); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	db, err := sql.Open(driverName(driver), connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// SQLite allows a single writer; serialize access through one connection.
	if dbType == SQLite {
		db.SetMaxOpenConns(1)
	}

	return &SQLStore{
		db:     db,
		dbType: dbType,
	}, nil
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL
func (s *SQLStore) rebind(query string) string {
	if s.dbType == SQLite {
		return query
	}
	var result strings.Builder
	argNum := 1
	for _, c := range query {
		if c == '?' {
			result.WriteString(fmt.Sprintf("$%d", argNum))
			argNum++
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}

// placeholders returns "?, ?, ..." with n markers, for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Reset empties all tables in one transaction, join table first.
func (s *SQLStore) Reset(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"note_tags", "notes", "tags", "folders", "users"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("reset %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
