package codec

import (
	"encoding/json"
	"testing"

	"github.com/jobrunner/locus/internal/domain"
)

func TestMarshalGeoJSONPoint(t *testing.T) {
	p := mustPoint(t, 9.9, 52.5, domain.SRIDWGS84)

	data, err := MarshalGeoJSON(p)
	if err != nil {
		t.Fatalf("MarshalGeoJSON() error = %v", err)
	}

	want := `{"type":"Point","coordinates":[9.9,52.5]}`
	if string(data) != want {
		t.Errorf("MarshalGeoJSON() = %s, want %s", data, want)
	}
}

func TestMarshalGeoJSONPolygon(t *testing.T) {
	data, err := MarshalGeoJSON(mustSquare(t, domain.SRIDWGS84))
	if err != nil {
		t.Fatalf("MarshalGeoJSON() error = %v", err)
	}

	var obj struct {
		Type        string        `json:"type"`
		Coordinates [][][]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if obj.Type != "Polygon" {
		t.Errorf("type = %q, want Polygon", obj.Type)
	}
	if len(obj.Coordinates) != 1 {
		t.Fatalf("expected 1 ring, got %d", len(obj.Coordinates))
	}

	ring := obj.Coordinates[0]
	// The closing vertex is retained.
	if len(ring) != 5 {
		t.Fatalf("expected 5 ring positions, got %d", len(ring))
	}
	if ring[0][0] != ring[4][0] || ring[0][1] != ring[4][1] {
		t.Error("first and last position should match")
	}
}
