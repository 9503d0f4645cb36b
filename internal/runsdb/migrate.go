package runsdb

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrateUp applies every pending migration. Running against an up-to-date
// store is not an error.
func (db *RunsDB) MigrateUp(migrationsDir string) error {
	m, err := db.newMigrate(migrationsDir)
	if err != nil {
		return err
	}
	// The migrate instance is not closed: closing it would close the
	// underlying connection.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// MigrateDown rolls back the most recent migration.
func (db *RunsDB) MigrateDown(migrationsDir string) error {
	m, err := db.newMigrate(migrationsDir)
	if err != nil {
		return err
	}

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

// MigrateStatus reports the applied schema version and the dirty flag. A
// store with no applied migrations reports version 0, clean.
func (db *RunsDB) MigrateStatus(migrationsDir string) (version uint, dirty bool, err error) {
	m, err := db.newMigrate(migrationsDir)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// MigrateForce overwrites the recorded schema version without running any
// migration. Recovery tool for a dirty store; not for regular use.
func (db *RunsDB) MigrateForce(migrationsDir string, version int) error {
	m, err := db.newMigrate(migrationsDir)
	if err != nil {
		return err
	}

	if err := m.Force(version); err != nil {
		return fmt.Errorf("forcing version %d failed: %w", version, err)
	}
	return nil
}

// LatestVersion scans the migrations directory for the highest migration
// number. File names follow the 000001_name.up.sql convention.
func LatestVersion(migrationsDir string) (uint, error) {
	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return 0, fmt.Errorf("resolving migrations path: %w", err)
	}

	entries, err := filepath.Glob(filepath.Join(absPath, "*.up.sql"))
	if err != nil {
		return 0, fmt.Errorf("scanning migrations: %w", err)
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("no migration files in %s", absPath)
	}

	var max uint
	for _, entry := range entries {
		var v uint
		if _, err := fmt.Sscanf(filepath.Base(entry), "%d_", &v); err == nil && v > max {
			max = v
		}
	}
	if max == 0 {
		return 0, errors.New("could not parse any migration version")
	}
	return max, nil
}

// EnsureCurrent verifies the store is at the latest schema version and
// clean. It never migrates on its own; the server refuses to start on an
// out-of-date store and tells the operator what to run.
func (db *RunsDB) EnsureCurrent(migrationsDir string) error {
	current, dirty, err := db.MigrateStatus(migrationsDir)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	latest, err := LatestVersion(migrationsDir)
	if err != nil {
		return err
	}

	if dirty {
		return fmt.Errorf("store is dirty at version %d; run 'bravais-server migrate status' to diagnose", current)
	}
	if current == latest {
		return nil
	}
	if current > latest {
		return fmt.Errorf("store version %d is ahead of latest migration %d", current, latest)
	}

	log.Printf("store schema is out of date: have %d, want %d", current, latest)
	log.Printf("apply the outstanding migrations with: bravais-server migrate up")
	return fmt.Errorf("store schema is out of date (version %d, need %d)", current, latest)
}

// newMigrate wires a migrate instance onto the open connection with the
// file:// source.
func (db *RunsDB) newMigrate(migrationsDir string) (*migrate.Migrate, error) {
	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("resolving migrations path: %w", err)
	}

	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("creating sqlite driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", absPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("creating migrate instance: %w", err)
	}

	m.Log = &migrateLogger{}
	return m, nil
}

// migrateLogger adapts the standard logger to the migrate.Logger interface.
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	log.Printf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool { return false }
