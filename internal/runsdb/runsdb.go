// Package runsdb persists band-structure runs in SQLite: one row per run
// plus the per-sample band frequencies, so past computations can be listed,
// re-plotted and inspected through the admin surface.
package runsdb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/photonworks/bravais/solver"
)

// ErrRunNotFound reports a run ID with no row behind it.
var ErrRunNotFound = errors.New("runsdb: run not found")

// RunsDB wraps the SQLite handle. Schema management lives in migrate.go.
type RunsDB struct {
	*sql.DB
	path string
}

// Open opens (or creates) the run store at path. The schema is not touched
// here; call MigrateUp or EnsureCurrent before reading or writing.
func Open(path string) (*RunsDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("runsdb: opening %s: %w", path, err)
	}
	return &RunsDB{DB: db, path: path}, nil
}

// Path returns the filesystem path the store was opened with.
func (db *RunsDB) Path() string { return db.path }

// Run is the stored summary of one band-structure computation.
type Run struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Config    string    `json:"config,omitempty"`
	Volume    float64   `json:"volume"`
	Harmonics int       `json:"harmonics"`
	Points    int       `json:"points"`
	Bands     int       `json:"bands"`
}

// BandPoint is one stored frequency sample: band b at path point p.
type BandPoint struct {
	PointIndex int     `json:"point_index"`
	BandIndex  int     `json:"band_index"`
	Distance   float64 `json:"distance"`
	Frequency  float64 `json:"frequency"`
}

// RecordRun stores a solver result with its context: the scene config that
// produced it, the cell volume and the harmonic count actually used. The
// run row and every band sample commit in one transaction.
func (db *RunsDB) RecordRun(res *solver.Result, configJSON string, volume float64, harmonics int) error {
	if res == nil {
		return errors.New("runsdb: nil result")
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, created_at, config, volume, harmonics, points, bands)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.ID, time.Now().Unix(), configJSON, volume, harmonics,
		len(res.Distances), res.NumBands(),
	)
	if err != nil {
		return fmt.Errorf("runsdb: inserting run %s: %w", res.ID, err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO bands (run_id, point_index, band_index, distance, frequency)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for p, freqs := range res.Frequencies {
		for b, f := range freqs {
			if _, err := stmt.Exec(res.ID, p, b, res.Distances[p], f); err != nil {
				return fmt.Errorf("runsdb: inserting band sample (%d,%d): %w", p, b, err)
			}
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (db *RunsDB) ListRuns(limit int) ([]Run, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := db.Query(
		`SELECT id, created_at, volume, harmonics, points, bands
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created int64
		if err := rows.Scan(&r.ID, &created, &r.Volume, &r.Harmonics, &r.Points, &r.Bands); err != nil {
			return nil, err
		}
		r.CreatedAt = time.Unix(created, 0).UTC()
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun loads one run with its stored config.
func (db *RunsDB) GetRun(id string) (*Run, error) {
	var r Run
	var created int64
	err := db.QueryRow(
		`SELECT id, created_at, config, volume, harmonics, points, bands
		 FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &created, &r.Config, &r.Volume, &r.Harmonics, &r.Points, &r.Bands)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	r.CreatedAt = time.Unix(created, 0).UTC()
	return &r, nil
}

// BandsForRun returns every stored frequency sample of a run, ordered by
// path point then band.
func (db *RunsDB) BandsForRun(id string) ([]BandPoint, error) {
	rows, err := db.Query(
		`SELECT point_index, band_index, distance, frequency
		 FROM bands WHERE run_id = ? ORDER BY point_index, band_index`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []BandPoint
	for rows.Next() {
		var p BandPoint
		if err := rows.Scan(&p.PointIndex, &p.BandIndex, &p.Distance, &p.Frequency); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

// DeleteRun removes a run and its band samples.
func (db *RunsDB) DeleteRun(id string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM bands WHERE run_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return tx.Commit()
}
