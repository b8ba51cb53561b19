// Package storage persists specimen geometry and computed KPIs to a
// SQLite database. The property rows come from the specimen manifest,
// so the schema never needs to know individual KPI names.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/specimen"
)

// Store is a handle to the results database.
type Store struct {
	db   *sql.DB
	path string
}

// Property is one persisted KPI row.
type Property struct {
	Name     string
	Label    string
	Unit     string
	Category string
	Value    float64
}

// Record is the stored identity and geometry of one specimen.
type Record struct {
	ID       string
	Name     string
	Kind     string
	Geometry specimen.Geometry
	SavedAt  time.Time
}

// Open opens (or creates) the database at path and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping results database: %w", err)
	}
	s := &Store{db: db, path: path}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	schema := `
		CREATE TABLE IF NOT EXISTS specimens (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			kind       TEXT NOT NULL,
			length     REAL NOT NULL,
			width      REAL NOT NULL,
			thickness  REAL NOT NULL,
			mass       REAL NOT NULL,
			saved_at   TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS properties (
			specimen_id TEXT NOT NULL REFERENCES specimens(id),
			name        TEXT NOT NULL,
			label       TEXT NOT NULL,
			unit        TEXT NOT NULL,
			category    TEXT NOT NULL,
			value       REAL NOT NULL,
			PRIMARY KEY (specimen_id, name)
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Save writes the specimen's identity, geometry and every present
// manifest property. Saving the same specimen again replaces its rows.
func (s *Store) Save(e *specimen.Entity) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	g := e.Geometry()
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO specimens
			(id, name, kind, length, width, thickness, mass, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Name, e.Kind.String(),
		g.Length, g.Width, g.Thickness, g.Mass,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save specimen %q: %w", e.Name, err)
	}

	if _, err := tx.Exec(`DELETE FROM properties WHERE specimen_id = ?`, e.ID.String()); err != nil {
		return fmt.Errorf("failed to clear old properties: %w", err)
	}
	for _, m := range specimen.Manifest() {
		v, ok := m.Value(e)
		if !ok {
			continue
		}
		_, err := tx.Exec(`
			INSERT INTO properties (specimen_id, name, label, unit, category, value)
			VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID.String(), m.Name, m.Label, m.Unit, m.Category, v,
		)
		if err != nil {
			return fmt.Errorf("failed to save property %q: %w", m.Name, err)
		}
	}
	return tx.Commit()
}

// Specimens lists every stored specimen, newest first.
func (s *Store) Specimens() ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, name, kind, length, width, thickness, mass, saved_at
		FROM specimens ORDER BY saved_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query specimens: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var savedAt string
		err := rows.Scan(&r.ID, &r.Name, &r.Kind,
			&r.Geometry.Length, &r.Geometry.Width, &r.Geometry.Thickness,
			&r.Geometry.Mass, &savedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan specimen row: %w", err)
		}
		r.SavedAt, _ = time.Parse(time.RFC3339, savedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Properties returns the stored KPI rows for one specimen in manifest
// order.
func (s *Store) Properties(specimenID string) ([]Property, error) {
	rows, err := s.db.Query(`
		SELECT name, label, unit, category, value
		FROM properties WHERE specimen_id = ? ORDER BY rowid`, specimenID)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	var props []Property
	for rows.Next() {
		var p Property
		if err := rows.Scan(&p.Name, &p.Label, &p.Unit, &p.Category, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
