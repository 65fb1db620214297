// Package index provides the SQLite-backed spatial index adapter.
// Geometries are stored as WKB blobs next to an R-tree virtual table
// holding their envelopes; queries pre-filter by envelope in SQL and
// leave exact predicates to the engine.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver with R-tree support

	"github.com/jobrunner/locus/internal/codec"
	"github.com/jobrunner/locus/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	geoset_id TEXT NOT NULL,
	name      TEXT NOT NULL,
	wkb       BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_geoset ON records(geoset_id);
CREATE VIRTUAL TABLE IF NOT EXISTS records_rtree USING rtree(
	id, min_lon, max_lon, min_lat, max_lat
);
`

// SQLiteIndex implements the SpatialIndex port on a SQLite database.
type SQLiteIndex struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteIndex opens (or creates) the index database at path. An
// empty path uses an in-memory database.
func NewSQLiteIndex(path string) (*SQLiteIndex, error) {
	dsn := ":memory:"
	if path != "" {
		dsn = fmt.Sprintf("file:%s?cache=shared", path)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}
	// The shared-cache in-memory database disappears once the last
	// connection closes; a single connection keeps it stable.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &domain.IndexError{Err: fmt.Errorf("%w: %v", domain.ErrIndexCreation, err)}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, &domain.IndexError{Err: fmt.Errorf("%w: creating schema: %v", domain.ErrIndexCreation, err)}
	}

	return &SQLiteIndex{db: db}, nil
}

// AddGeoset indexes the records of a geoset, replacing any previous
// entries for the same geoset.
func (s *SQLiteIndex) AddGeoset(ctx context.Context, geosetID string, records []domain.NamedGeometry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.IndexError{GeosetID: geosetID, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	if err := removeGeosetTx(ctx, tx, geosetID); err != nil {
		return &domain.IndexError{GeosetID: geosetID, Err: err}
	}

	insertRecord, err := tx.PrepareContext(ctx,
		"INSERT INTO records (geoset_id, name, wkb) VALUES (?, ?, ?)")
	if err != nil {
		return &domain.IndexError{GeosetID: geosetID, Err: err}
	}
	defer func() { _ = insertRecord.Close() }()

	insertEnvelope, err := tx.PrepareContext(ctx,
		"INSERT INTO records_rtree (id, min_lon, max_lon, min_lat, max_lat) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return &domain.IndexError{GeosetID: geosetID, Err: err}
	}
	defer func() { _ = insertEnvelope.Close() }()

	for _, rec := range records {
		wkb, err := codec.MarshalWKB(rec.Geometry)
		if err != nil {
			return &domain.IndexError{GeosetID: geosetID, Err: fmt.Errorf("encoding %s: %w", rec.Name, err)}
		}

		res, err := insertRecord.ExecContext(ctx, geosetID, rec.Name, wkb)
		if err != nil {
			return &domain.IndexError{GeosetID: geosetID, Err: err}
		}
		id, err := res.LastInsertId()
		if err != nil {
			return &domain.IndexError{GeosetID: geosetID, Err: err}
		}

		env := rec.Geometry.Envelope()
		if _, err := insertEnvelope.ExecContext(ctx, id, env.MinLon, env.MaxLon, env.MinLat, env.MaxLat); err != nil {
			return &domain.IndexError{GeosetID: geosetID, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.IndexError{GeosetID: geosetID, Err: err}
	}
	return nil
}

// RemoveGeoset drops all entries of a geoset.
func (s *SQLiteIndex) RemoveGeoset(ctx context.Context, geosetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.IndexError{GeosetID: geosetID, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	if err := removeGeosetTx(ctx, tx, geosetID); err != nil {
		return &domain.IndexError{GeosetID: geosetID, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &domain.IndexError{GeosetID: geosetID, Err: err}
	}
	return nil
}

// Candidates returns the records of a geoset whose envelope contains
// the coordinate.
func (s *SQLiteIndex) Candidates(ctx context.Context, geosetID string, coord domain.Coordinate) ([]domain.NamedGeometry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT r.name, r.wkb
		FROM records r
		INNER JOIN records_rtree x ON r.id = x.id
		WHERE r.geoset_id = ?
		  AND x.min_lon <= ? AND x.max_lon >= ?
		  AND x.min_lat <= ? AND x.max_lat >= ?
		ORDER BY r.id
	`
	rows, err := s.db.QueryContext(ctx, query, geosetID, coord.Lon, coord.Lon, coord.Lat, coord.Lat)
	if err != nil {
		return nil, &domain.IndexError{GeosetID: geosetID, Err: err}
	}
	return scanRecords(rows, geosetID)
}

// All returns every record of a geoset.
func (s *SQLiteIndex) All(ctx context.Context, geosetID string) ([]domain.NamedGeometry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, wkb FROM records WHERE geoset_id = ? ORDER BY id", geosetID)
	if err != nil {
		return nil, &domain.IndexError{GeosetID: geosetID, Err: err}
	}
	return scanRecords(rows, geosetID)
}

// Count returns the number of indexed records of a geoset.
func (s *SQLiteIndex) Count(ctx context.Context, geosetID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM records WHERE geoset_id = ?", geosetID).Scan(&count)
	if err != nil {
		return 0, &domain.IndexError{GeosetID: geosetID, Err: err}
	}
	return count, nil
}

// Close releases the index resources.
func (s *SQLiteIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func removeGeosetTx(ctx context.Context, tx *sql.Tx, geosetID string) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM records_rtree WHERE id IN (SELECT id FROM records WHERE geoset_id = ?)",
		geosetID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, "DELETE FROM records WHERE geoset_id = ?", geosetID)
	return err
}

func scanRecords(rows *sql.Rows, geosetID string) ([]domain.NamedGeometry, error) {
	defer func() { _ = rows.Close() }()

	var records []domain.NamedGeometry
	for rows.Next() {
		var (
			name string
			wkb  []byte
		)
		if err := rows.Scan(&name, &wkb); err != nil {
			return nil, &domain.IndexError{GeosetID: geosetID, Err: err}
		}

		geom, err := codec.ParseWKB(wkb)
		if err != nil {
			return nil, &domain.IndexError{GeosetID: geosetID, Err: fmt.Errorf("decoding %s: %w", name, err)}
		}
		records = append(records, domain.NamedGeometry{Name: name, Geometry: geom})
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.IndexError{GeosetID: geosetID, Err: err}
	}
	return records, nil
}
