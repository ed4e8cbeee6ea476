package sqlstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite3 "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// migrateUp applies the embedded migrations for the dialect. It uses its own
// connection because the migrate drivers close the database they are handed.
func migrateUp(driver string, dbType DBType, connStr string) error {
	db, err := sql.Open(driver, connStr)
	if err != nil {
		return err
	}

	var dbDriver database.Driver
	switch dbType {
	case Postgres:
		dbDriver, err = migratepostgres.WithInstance(db, &migratepostgres.Config{})
	default:
		dbDriver, err = migratesqlite3.WithInstance(db, &migratesqlite3.Config{})
	}
	if err != nil {
		db.Close()
		return err
	}

	src, err := iofs.New(migrationsFS, "migrations/"+string(dbType))
	if err != nil {
		db.Close()
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, string(dbType), dbDriver)
	if err != nil {
		db.Close()
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
