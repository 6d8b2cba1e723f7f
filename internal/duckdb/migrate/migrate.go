// Package migrate brings a client state database up to the schema this
// build reads and writes.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"slices"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var files embed.FS

// ErrNewerSchema is returned when the database was written by a build that
// knows more schema steps than this one.
var ErrNewerSchema = errors.New("client state schema is newer than this build")

// Step is one embedded schema change, loaded from NNN_name.sql.
type Step struct {
	Version int
	Name    string
	SQL     string
}

// Steps returns the embedded schema steps in version order.
func Steps() ([]Step, error) {
	entries, err := fs.ReadDir(files, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read schema steps: %w", err)
	}
	var steps []Step
	for _, e := range entries {
		num, name, ok := strings.Cut(strings.TrimSuffix(e.Name(), ".sql"), "_")
		if e.IsDir() || !ok || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		v, err := strconv.Atoi(num)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("schema step %s: bad version %q", e.Name(), num)
		}
		body, err := files.ReadFile("migrations/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read schema step %s: %w", e.Name(), err)
		}
		steps = append(steps, Step{Version: v, Name: name, SQL: string(body)})
	}
	slices.SortFunc(steps, func(a, b Step) int { return a.Version - b.Version })
	for i := 1; i < len(steps); i++ {
		if steps[i].Version == steps[i-1].Version {
			return nil, fmt.Errorf("schema steps %s and %s share version %d",
				steps[i-1].Name, steps[i].Name, steps[i].Version)
		}
	}
	return steps, nil
}

const versionTable = `CREATE TABLE IF NOT EXISTS client_state_schema (
	version    INTEGER PRIMARY KEY,
	step       VARCHAR NOT NULL,
	applied_at TIMESTAMP NOT NULL DEFAULT current_timestamp
)`

// Version returns the last schema step applied to db, 0 for a new database.
func Version(ctx context.Context, db *sql.DB) (int, error) {
	if _, err := db.ExecContext(ctx, versionTable); err != nil {
		return 0, fmt.Errorf("create client_state_schema: %w", err)
	}
	var v sql.NullInt64
	if err := db.QueryRowContext(ctx, "SELECT max(version) FROM client_state_schema").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(v.Int64), nil
}

// Apply runs every step newer than the recorded version, each in its own
// transaction, and returns the version the database ends at.
func Apply(ctx context.Context, db *sql.DB) (int, error) {
	steps, err := Steps()
	if err != nil {
		return 0, err
	}
	current, err := Version(ctx, db)
	if err != nil {
		return 0, err
	}
	if n := len(steps); n > 0 && current > steps[n-1].Version {
		return current, fmt.Errorf("%w: database at %d, build knows %d", ErrNewerSchema, current, steps[n-1].Version)
	}
	for _, s := range steps {
		if s.Version <= current {
			continue
		}
		if err := apply(ctx, db, s); err != nil {
			return current, err
		}
		current = s.Version
		log.Printf("client state schema: applied %03d %s", s.Version, s.Name)
	}
	return current, nil
}

func apply(ctx context.Context, db *sql.DB, s Step) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("schema step %s: %w", s.Name, err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, s.SQL); err != nil {
		return fmt.Errorf("schema step %s: %w", s.Name, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO client_state_schema (version, step) VALUES (?, ?)", s.Version, s.Name); err != nil {
		return fmt.Errorf("record schema step %s: %w", s.Name, err)
	}
	return tx.Commit()
}
