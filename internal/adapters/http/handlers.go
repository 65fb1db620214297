package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jobrunner/locus/internal/application"
	"github.com/jobrunner/locus/internal/codec"
	"github.com/jobrunner/locus/internal/domain"
)

// QueryParams represents the query parameters for a point query.
type QueryParams struct {
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
	SRID    int     `json:"srid"`
	WithWKT bool    `json:"with_wkt"`
}

// handleQuery handles point containment queries across all geosets.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	params, err := s.parseQueryParams(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := domain.QueryRequest{
		Coordinate: domain.Coordinate{Lon: params.Lon, Lat: params.Lat},
		SRID:       params.SRID,
		WithWKT:    params.WithWKT || s.withWKT,
	}

	response, err := s.queryService.QueryPoint(r.Context(), req)
	if err != nil {
		s.handleQueryError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.formatQueryResponse(response))
}

// handleQueryGeoset handles point containment queries for a specific geoset.
func (s *Server) handleQueryGeoset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	geosetID := vars["geosetId"]

	params, err := s.parseQueryParams(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := domain.QueryRequest{
		Coordinate: domain.Coordinate{Lon: params.Lon, Lat: params.Lat},
		SRID:       params.SRID,
		GeosetID:   geosetID,
		WithWKT:    params.WithWKT || s.withWKT,
	}

	result, err := s.queryService.QueryPointInGeoset(r.Context(), geosetID, req)
	if err != nil {
		s.handleQueryError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.formatQueryResult(result))
}

// handleNearest handles nearest-neighbor queries.
func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	params, err := s.parseQueryParams(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := domain.NearestRequest{
		Coordinate: domain.Coordinate{Lon: params.Lon, Lat: params.Lat},
		SRID:       params.SRID,
		GeosetID:   r.URL.Query().Get("geoset"),
	}

	q := r.URL.Query()
	if limit := q.Get("limit"); limit != "" {
		v, err := strconv.Atoi(limit)
		if err != nil || v < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		req.Limit = v
	}
	if maxMeters := q.Get("max_meters"); maxMeters != "" {
		v, err := strconv.ParseFloat(maxMeters, 64)
		if err != nil || v < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid max_meters parameter")
			return
		}
		req.MaxMeters = v
	}

	response, err := s.queryService.Nearest(r.Context(), req)
	if err != nil {
		s.handleQueryError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.formatNearestResponse(response))
}

// handleBuffer handles circular buffer construction.
func (s *Server) handleBuffer(w http.ResponseWriter, r *http.Request) {
	params, err := s.parseQueryParams(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := domain.BufferRequest{
		Coordinate: domain.Coordinate{Lon: params.Lon, Lat: params.Lat},
		SRID:       params.SRID,
	}

	q := r.URL.Query()
	radius := q.Get("radius")
	if radius == "" {
		s.writeError(w, http.StatusBadRequest, "radius parameter required")
		return
	}
	v, err := strconv.ParseFloat(radius, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid radius parameter")
		return
	}
	req.Radius = v

	if segments := q.Get("segments"); segments != "" {
		n, err := strconv.Atoi(segments)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid segments parameter")
			return
		}
		req.Segments = n
	}

	response, err := s.queryService.Buffer(r.Context(), req)
	if err != nil {
		s.handleQueryError(w, err)
		return
	}

	s.writeBufferResponse(w, response)
}

// handleHealth returns detailed health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	details := s.health.GetHealthDetails(r.Context())

	status := http.StatusOK
	if !details.Healthy {
		status = http.StatusServiceUnavailable
	}

	s.writeJSON(w, status, map[string]interface{}{
		"status":         boolToStatus(details.Healthy),
		"ready":          details.Ready,
		"geosets_loaded": details.GeosetsLoaded,
		"geosets_ready":  details.GeosetsReady,
		"components":     details.Components,
	})
}

// handleLiveness returns liveness status.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	if s.health.IsHealthy(r.Context()) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	} else {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
}

// handleReadiness returns readiness status.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if s.health.IsReady(r.Context()) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	} else {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
	}
}

// handleListGeosets returns all registered geosets.
func (s *Server) handleListGeosets(w http.ResponseWriter, r *http.Request) {
	geosets, err := s.registry.ListGeosets(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to list geosets")
		return
	}

	response := make([]map[string]interface{}, len(geosets))
	for i := range geosets {
		response[i] = s.formatGeoset(&geosets[i])
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"geosets": response,
		"count":   len(geosets),
	})
}

// handleGetGeoset returns a specific geoset.
func (s *Server) handleGetGeoset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	geosetID := vars["geosetId"]

	gs, err := s.registry.GetGeoset(r.Context(), geosetID)
	if err != nil {
		if errors.Is(err, domain.ErrGeosetNotFound) {
			s.writeError(w, http.StatusNotFound, "Geoset not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "Failed to get geoset")
		return
	}

	s.writeJSON(w, http.StatusOK, s.formatGeoset(gs))
}

// handleOpenAPI returns the OpenAPI specification.
func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	spec, err := getOpenAPIJSON()
	if err != nil {
		s.logger.Error("failed to get OpenAPI spec", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to load OpenAPI specification")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(spec)
}

// handleSync handles the sync trigger endpoint.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if s.syncService == nil {
		s.writeError(w, http.StatusNotFound, "Sync service not available")
		return
	}

	result, err := s.syncService.TriggerSync(r.Context())
	if err != nil {
		if errors.Is(err, application.ErrRateLimited) {
			w.Header().Set("Retry-After", "30")
			s.writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Try again in 30 seconds.")
			return
		}
		s.logger.Error("sync failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Sync failed")
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// parseQueryParams parses shared coordinate parameters from the request.
func (s *Server) parseQueryParams(r *http.Request) (*QueryParams, error) {
	params := &QueryParams{}

	q := r.URL.Query()

	lon := q.Get("lon")
	lat := q.Get("lat")
	if lon == "" || lat == "" {
		return nil, errors.New("coordinates required: use lon and lat")
	}

	v, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil, errors.New("invalid lon parameter")
	}
	params.Lon = v

	v, err = strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, errors.New("invalid lat parameter")
	}
	params.Lat = v

	if srid := q.Get("srid"); srid != "" {
		n, err := strconv.Atoi(srid)
		if err != nil {
			return nil, errors.New("invalid srid parameter")
		}
		params.SRID = n
	}

	if wkt := q.Get("wkt"); wkt != "" {
		b, err := strconv.ParseBool(wkt)
		if err != nil {
			return nil, errors.New("invalid wkt parameter")
		}
		params.WithWKT = b
	}

	return params, nil
}

// formatQueryResponse formats the containment query response for JSON output.
func (s *Server) formatQueryResponse(resp *domain.QueryResponse) map[string]interface{} {
	results := make([]map[string]interface{}, len(resp.Results))
	for i := range resp.Results {
		results[i] = s.formatQueryResult(&resp.Results[i])
	}

	return map[string]interface{}{
		"coordinate": map[string]interface{}{
			"lon": resp.Coordinate.Lon,
			"lat": resp.Coordinate.Lat,
		},
		"results":            results,
		"total_matches":      resp.TotalMatches,
		"processing_time_ms": resp.ProcessingTime.Milliseconds(),
	}
}

// formatQueryResult formats the matches of one geoset.
func (s *Server) formatQueryResult(r *domain.QueryResult) map[string]interface{} {
	matches := make([]map[string]interface{}, len(r.Matches))
	for i := range r.Matches {
		m := &r.Matches[i]
		matches[i] = map[string]interface{}{
			"name": m.Name,
		}
		if m.WKT != "" {
			matches[i]["wkt"] = m.WKT
		}
	}

	result := map[string]interface{}{
		"geoset_id":     r.GeosetID,
		"geoset_name":   r.GeosetName,
		"matches":       matches,
		"match_count":   r.MatchCount(),
		"query_time_ms": r.QueryTime.Milliseconds(),
	}

	if !r.License.IsEmpty() {
		result["license"] = map[string]interface{}{
			"name":        r.License.Name,
			"url":         r.License.URL,
			"attribution": r.License.Attribution,
		}
	}

	return result
}

// formatNearestResponse formats the nearest-neighbor response.
func (s *Server) formatNearestResponse(resp *domain.NearestResponse) map[string]interface{} {
	neighbors := make([]map[string]interface{}, len(resp.Neighbors))
	for i := range resp.Neighbors {
		n := &resp.Neighbors[i]
		neighbors[i] = map[string]interface{}{
			"geoset_id":       n.GeosetID,
			"name":            n.Name,
			"distance_meters": n.Distance,
		}
		if s.withWKT && n.Geometry != nil {
			if wkt, err := codec.MarshalWKT(n.Geometry); err == nil {
				neighbors[i]["wkt"] = wkt
			}
		}
	}

	return map[string]interface{}{
		"coordinate": map[string]interface{}{
			"lon": resp.Coordinate.Lon,
			"lat": resp.Coordinate.Lat,
		},
		"neighbors":          neighbors,
		"count":              len(neighbors),
		"processing_time_ms": resp.ProcessingTime.Milliseconds(),
	}
}

// writeBufferResponse serializes the buffer polygon as GeoJSON and WKT.
func (s *Server) writeBufferResponse(w http.ResponseWriter, resp *domain.BufferResponse) {
	geojson, err := codec.MarshalGeoJSON(*resp.Polygon)
	if err != nil {
		s.logger.Error("buffer serialization failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Buffer serialization failed")
		return
	}

	wkt, err := codec.MarshalWKT(*resp.Polygon)
	if err != nil {
		s.logger.Error("buffer serialization failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Buffer serialization failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"geometry":           json.RawMessage(geojson),
		"wkt":                wkt,
		"processing_time_ms": resp.ProcessingTime.Milliseconds(),
	})
}

// formatGeoset formats a geoset for JSON output.
func (s *Server) formatGeoset(gs *domain.Geoset) map[string]interface{} {
	result := map[string]interface{}{
		"id":             gs.ID,
		"name":           gs.Name,
		"path":           gs.Path,
		"size":           gs.Size,
		"srid":           gs.SRID,
		"geometry_count": gs.GeometryCount,
		"indexed":        gs.Indexed,
		"ready":          gs.IsReady(),
		"loaded_at":      gs.LoadedAt,
		"last_queried":   gs.LastQueried,
	}

	if gs.Extent != nil {
		result["extent"] = map[string]interface{}{
			"min_lon": gs.Extent.MinLon,
			"min_lat": gs.Extent.MinLat,
			"max_lon": gs.Extent.MaxLon,
			"max_lat": gs.Extent.MaxLat,
		}
	}

	if !gs.License.IsEmpty() {
		result["license"] = map[string]interface{}{
			"name":        gs.License.Name,
			"url":         gs.License.URL,
			"attribution": gs.License.Attribution,
		}
	}

	return result
}

// handleQueryError maps query errors to HTTP status codes.
func (s *Server) handleQueryError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		s.writeError(w, http.StatusBadRequest, validationErr.Message)
		return
	}

	if errors.Is(err, domain.ErrGeosetNotFound) {
		s.writeError(w, http.StatusNotFound, "Geoset not found")
		return
	}

	if errors.Is(err, domain.ErrInvalidInput) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if errors.Is(err, domain.ErrNotReady) {
		s.writeError(w, http.StatusServiceUnavailable, "Service not ready")
		return
	}

	s.logger.Error("query error", "error", err)
	s.writeError(w, http.StatusInternalServerError, "Query failed")
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func boolToStatus(b bool) string {
	if b {
		return "ok"
	}
	return "unhealthy"
}
