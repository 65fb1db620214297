// Package input defines the primary/driving ports of the application.
package input

import (
	"context"

	"github.com/jobrunner/locus/internal/domain"
)

// QueryService defines the primary port for geofencing queries.
type QueryService interface {
	// QueryPoint performs a containment query across all ready geosets.
	QueryPoint(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error)

	// QueryPointInGeoset performs a containment query in a specific geoset.
	QueryPointInGeoset(ctx context.Context, geosetID string, req domain.QueryRequest) (*domain.QueryResult, error)

	// Nearest returns geometries ordered by distance from a point.
	Nearest(ctx context.Context, req domain.NearestRequest) (*domain.NearestResponse, error)

	// Buffer builds a polygon approximating a circle around a point.
	Buffer(ctx context.Context, req domain.BufferRequest) (*domain.BufferResponse, error)
}

// GeosetRegistry defines the primary port for geoset management.
type GeosetRegistry interface {
	// ListGeosets returns all registered geosets.
	ListGeosets(ctx context.Context) ([]domain.Geoset, error)

	// GetGeoset returns a specific geoset by ID.
	GetGeoset(ctx context.Context, id string) (*domain.Geoset, error)

	// GetGeosetStatus returns the status of a geoset.
	GetGeosetStatus(ctx context.Context, id string) (domain.GeosetStatus, error)
}

// HealthChecker defines the primary port for health checks.
type HealthChecker interface {
	// IsHealthy returns true if the service is healthy.
	IsHealthy(ctx context.Context) bool

	// IsReady returns true if the service is ready to accept requests.
	IsReady(ctx context.Context) bool

	// GetHealthDetails returns detailed health information.
	GetHealthDetails(ctx context.Context) HealthDetails
}

// HealthDetails contains detailed health information.
type HealthDetails struct {
	Healthy       bool              // Overall health status
	Ready         bool              // Ready to accept requests
	GeosetsLoaded int               // Number of loaded geosets
	GeosetsReady  int               // Number of ready geosets
	Components    map[string]string // Component statuses
}
