package application

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/jobrunner/locus/internal/codec"
	"github.com/jobrunner/locus/internal/domain"
	"github.com/jobrunner/locus/internal/engine"
	"github.com/jobrunner/locus/internal/ports/output"
)

// QueryService handles geofencing queries across geosets.
type QueryService struct {
	registry    *GeosetRegistry
	index       output.SpatialIndex
	metrics     output.MetricsCollector
	logger      *slog.Logger
	defaultSRID int
	maxMatches  int
}

// QueryServiceConfig holds configuration for the query service.
type QueryServiceConfig struct {
	DefaultSRID int
	MaxMatches  int
}

// NewQueryService creates a new query service.
func NewQueryService(
	registry *GeosetRegistry,
	index output.SpatialIndex,
	metrics output.MetricsCollector,
	logger *slog.Logger,
	cfg QueryServiceConfig,
) *QueryService {
	if cfg.DefaultSRID == 0 {
		cfg.DefaultSRID = domain.SRIDWGS84
	}
	if cfg.MaxMatches == 0 {
		cfg.MaxMatches = 1000
	}

	return &QueryService{
		registry:    registry,
		index:       index,
		metrics:     metrics,
		logger:      logger,
		defaultSRID: cfg.DefaultSRID,
		maxMatches:  cfg.MaxMatches,
	}
}

// QueryPoint performs a containment query across all ready geosets.
func (s *QueryService) QueryPoint(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	start := time.Now()

	s.applyDefaults(&req)
	if err := req.Coordinate.Validate(req.SRID); err != nil {
		return nil, err
	}

	response := &domain.QueryResponse{
		Coordinate: req.Coordinate,
	}

	geosetIDs, err := s.targetGeosets(req.GeosetID)
	if err != nil {
		return nil, err
	}

	for _, geosetID := range geosetIDs {
		result, err := s.QueryPointInGeoset(ctx, geosetID, req)
		if err != nil {
			s.logger.Warn("query failed for geoset", "geoset", geosetID, "error", err)
			s.metrics.IncQueryCount(geosetID, false)
			continue
		}

		if result.HasMatches() {
			response.AddResult(*result)
		}
		s.metrics.IncQueryCount(geosetID, true)
	}

	response.ProcessingTime = time.Since(start)
	return response, nil
}

// QueryPointInGeoset performs a containment query in a specific geoset.
func (s *QueryService) QueryPointInGeoset(ctx context.Context, geosetID string, req domain.QueryRequest) (*domain.QueryResult, error) {
	start := time.Now()

	s.applyDefaults(&req)

	geoset, err := s.registry.GetGeoset(ctx, geosetID)
	if err != nil {
		return nil, err
	}
	if geoset.SRID != req.SRID {
		return nil, &domain.QueryError{GeosetID: geosetID, Err: domain.ErrSRIDMismatch}
	}

	point, err := domain.NewPointSRID(req.Coordinate.Lon, req.Coordinate.Lat, req.SRID)
	if err != nil {
		return nil, err
	}

	result := &domain.QueryResult{
		GeosetID:   geoset.ID,
		GeosetName: geoset.Name,
		License:    geoset.License,
	}

	candidates, err := s.index.Candidates(ctx, geosetID, req.Coordinate)
	if err != nil {
		return nil, err
	}

	for _, cand := range candidates {
		contained, err := s.containsPoint(cand.Geometry, point)
		if err != nil {
			s.logger.Warn("predicate failed", "geoset", geosetID, "record", cand.Name, "error", err)
			continue
		}
		if !contained {
			continue
		}

		match := domain.Match{Name: cand.Name, Geometry: cand.Geometry}
		if req.WithWKT {
			if wkt, err := codec.MarshalWKT(cand.Geometry); err == nil {
				match.WKT = wkt
			}
		}
		result.Matches = append(result.Matches, match)

		if len(result.Matches) >= s.maxMatches {
			break
		}
	}

	result.QueryTime = time.Since(start)
	s.metrics.ObserveQueryDuration(geosetID, result.QueryTime)

	return result, nil
}

// containsPoint evaluates containment for one candidate: ray casting
// for polygons, exact coordinate equality for point records.
func (s *QueryService) containsPoint(g domain.Geometry, point domain.Point) (bool, error) {
	switch geom := g.(type) {
	case domain.Polygon:
		return engine.Contains(geom, point)
	case domain.Point:
		return geom.Equal(point), nil
	}
	return false, domain.ErrUnsupportedType
}

// Nearest returns geometries ordered by distance from a point.
func (s *QueryService) Nearest(ctx context.Context, req domain.NearestRequest) (*domain.NearestResponse, error) {
	start := time.Now()

	if req.SRID == 0 {
		req.SRID = s.defaultSRID
	}
	if err := req.Coordinate.Validate(req.SRID); err != nil {
		return nil, err
	}

	origin, err := domain.NewPointSRID(req.Coordinate.Lon, req.Coordinate.Lat, req.SRID)
	if err != nil {
		return nil, err
	}

	geosetIDs, err := s.targetGeosets(req.GeosetID)
	if err != nil {
		return nil, err
	}

	var neighbors []domain.Neighbor
	for _, geosetID := range geosetIDs {
		geoset, err := s.registry.GetGeoset(ctx, geosetID)
		if err != nil || geoset.SRID != req.SRID {
			continue
		}

		records, err := s.index.All(ctx, geosetID)
		if err != nil {
			s.logger.Warn("nearest scan failed for geoset", "geoset", geosetID, "error", err)
			continue
		}

		for _, rec := range records {
			d, err := engine.Distance(origin, rec.Geometry)
			if err != nil {
				continue
			}
			if req.MaxMeters > 0 && d > req.MaxMeters {
				continue
			}
			neighbors = append(neighbors, domain.Neighbor{
				GeosetID: geosetID,
				Name:     rec.Name,
				Geometry: rec.Geometry,
				Distance: d,
			})
		}
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})

	if req.Limit > 0 && len(neighbors) > req.Limit {
		neighbors = neighbors[:req.Limit]
	}

	return &domain.NearestResponse{
		Neighbors:      neighbors,
		ProcessingTime: time.Since(start),
		Coordinate:     req.Coordinate,
	}, nil
}

// Buffer builds a polygon approximating a circle around a point.
func (s *QueryService) Buffer(_ context.Context, req domain.BufferRequest) (*domain.BufferResponse, error) {
	start := time.Now()

	if req.SRID == 0 {
		req.SRID = s.defaultSRID
	}
	if err := req.Coordinate.Validate(req.SRID); err != nil {
		return nil, err
	}

	center, err := domain.NewPointSRID(req.Coordinate.Lon, req.Coordinate.Lat, req.SRID)
	if err != nil {
		return nil, err
	}

	segments := req.Segments
	if segments <= 0 {
		segments = engine.DefaultBufferSegments
	}

	poly, err := engine.BufferN(center, req.Radius, segments)
	if err != nil {
		return nil, err
	}

	return &domain.BufferResponse{
		Polygon:        &poly,
		ProcessingTime: time.Since(start),
	}, nil
}

// applyDefaults fills in the default reference system.
func (s *QueryService) applyDefaults(req *domain.QueryRequest) {
	if req.SRID == 0 {
		req.SRID = s.defaultSRID
	}
}

// targetGeosets resolves the geosets a query runs against: all ready
// geosets, or the single requested one if it is ready.
func (s *QueryService) targetGeosets(geosetID string) ([]string, error) {
	geosetIDs := s.registry.ReadyGeosetIDs()
	if geosetID == "" {
		return geosetIDs, nil
	}

	for _, id := range geosetIDs {
		if id == geosetID {
			return []string{geosetID}, nil
		}
	}
	return nil, domain.ErrGeosetNotFound
}
