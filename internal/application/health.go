package application

import (
	"context"

	"github.com/jobrunner/locus/internal/domain"
	"github.com/jobrunner/locus/internal/ports/input"
)

// HealthService provides health check functionality.
type HealthService struct {
	registry *GeosetRegistry
}

// NewHealthService creates a new health service.
func NewHealthService(registry *GeosetRegistry) *HealthService {
	return &HealthService{
		registry: registry,
	}
}

// IsHealthy returns true if the service is healthy.
func (s *HealthService) IsHealthy(_ context.Context) bool {
	return true // Basic health check
}

// IsReady returns true if the service is ready to accept requests.
func (s *HealthService) IsReady(ctx context.Context) bool {
	geosets, err := s.registry.ListGeosets(ctx)
	if err != nil {
		return false
	}

	// Ready if at least one geoset is ready
	for _, gs := range geosets {
		if gs.IsReady() {
			return true
		}
	}

	// Also ready if no geosets are configured (empty state)
	return len(geosets) == 0
}

// GetHealthDetails returns detailed health information.
func (s *HealthService) GetHealthDetails(ctx context.Context) input.HealthDetails {
	geosets, _ := s.registry.ListGeosets(ctx)

	loaded := len(geosets)
	ready := 0
	for _, gs := range geosets {
		if gs.IsReady() {
			ready++
		}
	}

	components := map[string]string{
		"storage": "ok",
		"index":   "ok",
	}

	return input.HealthDetails{
		Healthy:       s.IsHealthy(ctx),
		Ready:         s.IsReady(ctx),
		GeosetsLoaded: loaded,
		GeosetsReady:  ready,
		Components:    components,
	}
}

// GeosetHealth contains health info for a single geoset.
type GeosetHealth struct {
	ID     string
	Status domain.GeosetStatus
	Ready  bool
}

// GetGeosetHealth returns health info for all geosets.
func (s *HealthService) GetGeosetHealth(ctx context.Context) []GeosetHealth {
	geosets, _ := s.registry.ListGeosets(ctx)

	health := make([]GeosetHealth, len(geosets))
	for i, gs := range geosets {
		status, _ := s.registry.GetGeosetStatus(ctx, gs.ID)
		health[i] = GeosetHealth{
			ID:     gs.ID,
			Status: status,
			Ready:  gs.IsReady(),
		}
	}

	return health
}
