package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jobrunner/locus/internal/application"
	"github.com/jobrunner/locus/internal/config"
	"github.com/jobrunner/locus/internal/domain"
	"github.com/jobrunner/locus/internal/ports/output"
)

// mockIndex implements output.SpatialIndex for testing.
type mockIndex struct {
	records map[string][]domain.NamedGeometry
}

func newMockIndex() *mockIndex {
	return &mockIndex{records: make(map[string][]domain.NamedGeometry)}
}

func (m *mockIndex) AddGeoset(_ context.Context, geosetID string, records []domain.NamedGeometry) error {
	m.records[geosetID] = records
	return nil
}

func (m *mockIndex) RemoveGeoset(_ context.Context, geosetID string) error {
	delete(m.records, geosetID)
	return nil
}

func (m *mockIndex) Candidates(_ context.Context, geosetID string, coord domain.Coordinate) ([]domain.NamedGeometry, error) {
	var out []domain.NamedGeometry
	for _, rec := range m.records[geosetID] {
		if rec.Geometry.Envelope().Contains(coord) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockIndex) All(_ context.Context, geosetID string) ([]domain.NamedGeometry, error) {
	return m.records[geosetID], nil
}

func (m *mockIndex) Count(_ context.Context, geosetID string) (int, error) {
	return len(m.records[geosetID]), nil
}

func (m *mockIndex) Close() error { return nil }

// mockStorage implements output.ObjectStorage for testing.
type mockStorage struct{}

func (m *mockStorage) List(_ context.Context) ([]output.StorageObject, error) { return nil, nil }
func (m *mockStorage) Download(_ context.Context, _, _ string) error          { return nil }
func (m *mockStorage) GetReader(_ context.Context, _ string) (io.ReadCloser, error) {
	return nil, nil
}
func (m *mockStorage) Exists(_ context.Context, _ string) (bool, error) { return true, nil }

const zonesFile = `# name: City Zones
# license: CC BY 4.0
downtown SRID=4326;POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))
station SRID=4326;POINT(5 5)
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestServer builds a server over a registry with one loaded geoset.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := testLogger()
	dir := t.TempDir()
	path := filepath.Join(dir, "zones.wkt")
	if err := os.WriteFile(path, []byte(zonesFile), 0o600); err != nil {
		t.Fatalf("failed to write geoset file: %v", err)
	}

	index := newMockIndex()
	registry := application.NewGeosetRegistry(index, &mockStorage{}, &output.NoOpMetrics{}, logger, dir)
	if err := registry.LoadGeoset(context.Background(), path); err != nil {
		t.Fatalf("failed to load geoset: %v", err)
	}

	health := application.NewHealthService(registry)
	query := application.NewQueryService(registry, index, &output.NoOpMetrics{}, logger, application.QueryServiceConfig{})

	return NewServer(
		config.ServerConfig{
			Host:         "localhost",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		query,
		registry,
		health,
		nil, // No sync service for tests
		logger,
		false,
	)
}

func doRequest(t *testing.T, srv *Server, method, url string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, url, nil)
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)

	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return rr, body
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	rr, body := doRequest(t, srv, http.MethodGet, "/health")
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want %q", body["status"], "ok")
	}
	if body["geosets_loaded"] != float64(1) {
		t.Errorf("geosets_loaded = %v, want 1", body["geosets_loaded"])
	}
}

func TestHandleLiveness(t *testing.T) {
	srv := newTestServer(t)

	rr, body := doRequest(t, srv, http.MethodGet, "/health/live")
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want %q", body["status"], "ok")
	}
}

func TestHandleReadiness(t *testing.T) {
	srv := newTestServer(t)

	rr, _ := doRequest(t, srv, http.MethodGet, "/health/ready")
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestHandleQueryHit(t *testing.T) {
	srv := newTestServer(t)

	rr, body := doRequest(t, srv, http.MethodGet, "/api/v1/query?lon=5&lat=6")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if body["total_matches"] != float64(1) {
		t.Errorf("total_matches = %v, want 1", body["total_matches"])
	}

	results, ok := body["results"].([]interface{})
	if !ok || len(results) != 1 {
		t.Fatalf("results = %v, want one result", body["results"])
	}
	result := results[0].(map[string]interface{})
	if result["geoset_id"] != "zones" {
		t.Errorf("geoset_id = %v, want %q", result["geoset_id"], "zones")
	}
	matches := result["matches"].([]interface{})
	match := matches[0].(map[string]interface{})
	if match["name"] != "downtown" {
		t.Errorf("match name = %v, want %q", match["name"], "downtown")
	}
	if _, ok := match["wkt"]; ok {
		t.Error("wkt should be omitted unless requested")
	}
}

func TestHandleQueryWithWKT(t *testing.T) {
	srv := newTestServer(t)

	rr, body := doRequest(t, srv, http.MethodGet, "/api/v1/query?lon=5&lat=6&wkt=true")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	results := body["results"].([]interface{})
	result := results[0].(map[string]interface{})
	matches := result["matches"].([]interface{})
	match := matches[0].(map[string]interface{})
	if match["wkt"] != "POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))" {
		t.Errorf("wkt = %v, want the polygon WKT", match["wkt"])
	}
}

func TestHandleQueryMiss(t *testing.T) {
	srv := newTestServer(t)

	rr, body := doRequest(t, srv, http.MethodGet, "/api/v1/query?lon=50&lat=50")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if body["total_matches"] != float64(0) {
		t.Errorf("total_matches = %v, want 0", body["total_matches"])
	}
}

func TestHandleQueryMissingCoordinates(t *testing.T) {
	srv := newTestServer(t)

	rr, _ := doRequest(t, srv, http.MethodGet, "/api/v1/query")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestHandleQueryInvalidParams(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		url  string
	}{
		{"invalid lon", "/api/v1/query?lon=abc&lat=50"},
		{"invalid lat", "/api/v1/query?lon=10&lat=abc"},
		{"invalid srid", "/api/v1/query?lon=10&lat=50&srid=abc"},
		{"invalid wkt flag", "/api/v1/query?lon=10&lat=50&wkt=maybe"},
		{"out of range lat", "/api/v1/query?lon=10&lat=95"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, _ := doRequest(t, srv, http.MethodGet, tt.url)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestHandleQueryGeoset(t *testing.T) {
	srv := newTestServer(t)

	rr, body := doRequest(t, srv, http.MethodGet, "/api/v1/query/zones?lon=5&lat=6")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if body["match_count"] != float64(1) {
		t.Errorf("match_count = %v, want 1", body["match_count"])
	}
	license, ok := body["license"].(map[string]interface{})
	if !ok {
		t.Fatal("response should contain license")
	}
	if license["name"] != "CC BY 4.0" {
		t.Errorf("license name = %v, want %q", license["name"], "CC BY 4.0")
	}
}

func TestHandleQueryGeosetNotFound(t *testing.T) {
	srv := newTestServer(t)

	rr, _ := doRequest(t, srv, http.MethodGet, "/api/v1/query/unknown?lon=5&lat=6")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestHandleNearest(t *testing.T) {
	srv := newTestServer(t)

	rr, body := doRequest(t, srv, http.MethodGet, "/api/v1/nearest?lon=5&lat=5&limit=1")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if body["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", body["count"])
	}

	neighbors := body["neighbors"].([]interface{})
	neighbor := neighbors[0].(map[string]interface{})
	// Both records sit at distance 0 from (5,5); the stable sort
	// keeps the file order, so the polygon comes first.
	if neighbor["name"] != "downtown" {
		t.Errorf("nearest name = %v, want %q", neighbor["name"], "downtown")
	}
	if neighbor["distance_meters"] != float64(0) {
		t.Errorf("distance_meters = %v, want 0", neighbor["distance_meters"])
	}
}

func TestHandleNearestInvalidParams(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		url  string
	}{
		{"invalid limit", "/api/v1/nearest?lon=5&lat=5&limit=abc"},
		{"negative limit", "/api/v1/nearest?lon=5&lat=5&limit=-1"},
		{"invalid max_meters", "/api/v1/nearest?lon=5&lat=5&max_meters=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, _ := doRequest(t, srv, http.MethodGet, tt.url)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestHandleBuffer(t *testing.T) {
	srv := newTestServer(t)

	rr, body := doRequest(t, srv, http.MethodGet, "/api/v1/buffer?lon=5&lat=5&radius=1000")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	geometry, ok := body["geometry"].(map[string]interface{})
	if !ok {
		t.Fatal("response should contain GeoJSON geometry")
	}
	if geometry["type"] != "Polygon" {
		t.Errorf("geometry type = %v, want %q", geometry["type"], "Polygon")
	}
	if body["wkt"] == "" {
		t.Error("response should contain WKT")
	}
}

func TestHandleBufferInvalidParams(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		url  string
	}{
		{"missing radius", "/api/v1/buffer?lon=5&lat=5"},
		{"invalid radius", "/api/v1/buffer?lon=5&lat=5&radius=abc"},
		{"negative radius", "/api/v1/buffer?lon=5&lat=5&radius=-10"},
		{"invalid segments", "/api/v1/buffer?lon=5&lat=5&radius=100&segments=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, _ := doRequest(t, srv, http.MethodGet, tt.url)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestHandleListGeosets(t *testing.T) {
	srv := newTestServer(t)

	rr, body := doRequest(t, srv, http.MethodGet, "/api/v1/geosets")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if body["count"] != float64(1) {
		t.Errorf("count = %v, want 1", body["count"])
	}

	geosets := body["geosets"].([]interface{})
	gs := geosets[0].(map[string]interface{})
	if gs["id"] != "zones" {
		t.Errorf("id = %v, want %q", gs["id"], "zones")
	}
	if gs["name"] != "City Zones" {
		t.Errorf("name = %v, want %q", gs["name"], "City Zones")
	}
	if gs["geometry_count"] != float64(2) {
		t.Errorf("geometry_count = %v, want 2", gs["geometry_count"])
	}
}

func TestHandleGetGeoset(t *testing.T) {
	srv := newTestServer(t)

	rr, body := doRequest(t, srv, http.MethodGet, "/api/v1/geosets/zones")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if body["id"] != "zones" {
		t.Errorf("id = %v, want %q", body["id"], "zones")
	}
	if body["ready"] != true {
		t.Errorf("ready = %v, want true", body["ready"])
	}
	extent, ok := body["extent"].(map[string]interface{})
	if !ok {
		t.Fatal("response should contain extent")
	}
	if extent["max_lon"] != float64(10) {
		t.Errorf("max_lon = %v, want 10", extent["max_lon"])
	}
}

func TestHandleGetGeosetNotFound(t *testing.T) {
	srv := newTestServer(t)

	rr, _ := doRequest(t, srv, http.MethodGet, "/api/v1/geosets/unknown")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestHandleSyncUnavailable(t *testing.T) {
	// No sync service configured: the route is not registered.
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestHandleOpenAPI(t *testing.T) {
	srv := newTestServer(t)

	rr, body := doRequest(t, srv, http.MethodGet, "/openapi.json")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if body["openapi"] != "3.0.3" {
		t.Errorf("openapi = %v, want %q", body["openapi"], "3.0.3")
	}
}
