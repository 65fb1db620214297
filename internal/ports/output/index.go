package output

import (
	"context"

	"github.com/jobrunner/locus/internal/domain"
)

// SpatialIndex defines the secondary port for the envelope index over
// geoset geometries. Implementations pre-filter by bounding box; exact
// predicates run in the engine on the returned candidates.
type SpatialIndex interface {
	// AddGeoset indexes the records of a geoset, replacing any
	// previous entries for the same geoset.
	AddGeoset(ctx context.Context, geosetID string, records []domain.NamedGeometry) error

	// RemoveGeoset drops all entries of a geoset.
	RemoveGeoset(ctx context.Context, geosetID string) error

	// Candidates returns the records of a geoset whose envelope
	// contains the coordinate.
	Candidates(ctx context.Context, geosetID string, coord domain.Coordinate) ([]domain.NamedGeometry, error)

	// All returns every record of a geoset.
	All(ctx context.Context, geosetID string) ([]domain.NamedGeometry, error)

	// Count returns the number of indexed records of a geoset.
	Count(ctx context.Context, geosetID string) (int, error)

	// Close releases the index resources.
	Close() error
}
