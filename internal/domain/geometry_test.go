package domain

import (
	"errors"
	"testing"
)

func closedSquare() []Coordinate {
	return []Coordinate{
		{Lon: 0, Lat: 0},
		{Lon: 10, Lat: 0},
		{Lon: 10, Lat: 10},
		{Lon: 0, Lat: 10},
		{Lon: 0, Lat: 0},
	}
}

func TestNewPoint(t *testing.T) {
	p, err := NewPoint(9.9, 52.5)
	if err != nil {
		t.Fatalf("NewPoint() error = %v", err)
	}

	if p.Coordinate.Lon != 9.9 {
		t.Errorf("expected Lon=9.9, got %f", p.Coordinate.Lon)
	}
	if p.Coordinate.Lat != 52.5 {
		t.Errorf("expected Lat=52.5, got %f", p.Coordinate.Lat)
	}
	if p.SRID() != SRIDWGS84 {
		t.Errorf("expected SRID=%d, got %d", SRIDWGS84, p.SRID())
	}
	if p.Type() != GeomPoint {
		t.Errorf("expected type %q, got %q", GeomPoint, p.Type())
	}
}

func TestNewPointInvalid(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		lat  float64
	}{
		{"longitude too high", 181, 0},
		{"latitude too low", 0, -91},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPoint(tt.lon, tt.lat)
			if err == nil {
				t.Fatal("NewPoint() expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestNewPointSRIDPlanar(t *testing.T) {
	// Planar systems are unbounded.
	p, err := NewPointSRID(500000, 5700000, SRIDPlanar)
	if err != nil {
		t.Fatalf("NewPointSRID() error = %v", err)
	}
	if p.SRID() != SRIDPlanar {
		t.Errorf("expected SRID=%d, got %d", SRIDPlanar, p.SRID())
	}
}

func TestPointEnvelope(t *testing.T) {
	p, err := NewPoint(9.9, 52.5)
	if err != nil {
		t.Fatalf("NewPoint() error = %v", err)
	}

	env := p.Envelope()
	if env.MinLon != 9.9 || env.MaxLon != 9.9 {
		t.Errorf("expected degenerate longitude bounds at 9.9, got [%f, %f]", env.MinLon, env.MaxLon)
	}
	if env.MinLat != 52.5 || env.MaxLat != 52.5 {
		t.Errorf("expected degenerate latitude bounds at 52.5, got [%f, %f]", env.MinLat, env.MaxLat)
	}
	if env.SRID != SRIDWGS84 {
		t.Errorf("expected SRID=%d, got %d", SRIDWGS84, env.SRID)
	}
}

func TestNewPolygon(t *testing.T) {
	p, err := NewPolygon(closedSquare())
	if err != nil {
		t.Fatalf("NewPolygon() error = %v", err)
	}

	if p.Type() != GeomPolygon {
		t.Errorf("expected type %q, got %q", GeomPolygon, p.Type())
	}
	if p.SRID() != SRIDWGS84 {
		t.Errorf("expected SRID=%d, got %d", SRIDWGS84, p.SRID())
	}
	if got := p.VertexCount(); got != 4 {
		t.Errorf("VertexCount() = %d, want 4", got)
	}
	// The closing vertex stays in the ring.
	if len(p.Ring) != 5 {
		t.Errorf("expected ring length 5, got %d", len(p.Ring))
	}
	if !p.Ring[0].Equal(p.Ring[len(p.Ring)-1]) {
		t.Error("ring should remain closed")
	}
}

func TestNewPolygonErrors(t *testing.T) {
	tests := []struct {
		name    string
		ring    []Coordinate
		wantErr error
	}{
		{
			name: "unclosed ring",
			ring: []Coordinate{
				{Lon: 0, Lat: 0},
				{Lon: 10, Lat: 0},
				{Lon: 10, Lat: 10},
			},
			wantErr: ErrUnclosedRing,
		},
		{
			name:    "empty ring",
			ring:    nil,
			wantErr: ErrUnclosedRing,
		},
		{
			name: "degenerate ring with two distinct vertices",
			ring: []Coordinate{
				{Lon: 0, Lat: 0},
				{Lon: 10, Lat: 0},
				{Lon: 0, Lat: 0},
			},
			wantErr: ErrDegenerateRing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPolygon(tt.ring)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewPolygon() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewPolygonCopiesRing(t *testing.T) {
	ring := closedSquare()
	p, err := NewPolygon(ring)
	if err != nil {
		t.Fatalf("NewPolygon() error = %v", err)
	}

	ring[0].Lon = 99
	if p.Ring[0].Lon == 99 {
		t.Error("polygon ring should not alias the caller's slice")
	}
}

func TestPolygonEnvelope(t *testing.T) {
	ring := []Coordinate{
		{Lon: 2, Lat: 3},
		{Lon: 8, Lat: 1},
		{Lon: 6, Lat: 9},
		{Lon: 2, Lat: 3},
	}
	p, err := NewPolygon(ring)
	if err != nil {
		t.Fatalf("NewPolygon() error = %v", err)
	}

	env := p.Envelope()
	want := Envelope{MinLon: 2, MinLat: 1, MaxLon: 8, MaxLat: 9, SRID: SRIDWGS84}
	if env != want {
		t.Errorf("Envelope() = %+v, want %+v", env, want)
	}
}

func TestPolygonValidate(t *testing.T) {
	tests := []struct {
		name    string
		ring    []Coordinate
		wantErr bool
	}{
		{
			name:    "simple square",
			ring:    closedSquare(),
			wantErr: false,
		},
		{
			name: "self-intersecting bowtie",
			ring: []Coordinate{
				{Lon: 0, Lat: 0},
				{Lon: 10, Lat: 10},
				{Lon: 10, Lat: 0},
				{Lon: 0, Lat: 10},
				{Lon: 0, Lat: 0},
			},
			wantErr: true,
		},
		{
			name: "simple triangle",
			ring: []Coordinate{
				{Lon: 0, Lat: 0},
				{Lon: 10, Lat: 0},
				{Lon: 5, Lat: 8},
				{Lon: 0, Lat: 0},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPolygon(tt.ring)
			if err != nil {
				t.Fatalf("NewPolygon() error = %v", err)
			}

			err = p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrMalformedRing) {
				t.Errorf("expected ErrMalformedRing, got %v", err)
			}
		})
	}
}

func TestGeometryVariants(t *testing.T) {
	p, _ := NewPoint(5, 5)
	sq, _ := NewPolygon(closedSquare())

	tests := []struct {
		name string
		g    Geometry
		typ  GeometryType
	}{
		{"point", p, GeomPoint},
		{"polygon", sq, GeomPolygon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.Type(); got != tt.typ {
				t.Errorf("Type() = %v, want %v", got, tt.typ)
			}
			if got := tt.g.SRID(); got != SRIDWGS84 {
				t.Errorf("SRID() = %v, want %v", got, SRIDWGS84)
			}
			if got := EnvelopeOf(tt.g); got != tt.g.Envelope() {
				t.Errorf("EnvelopeOf() = %+v, want %+v", got, tt.g.Envelope())
			}
		})
	}
}

func TestGeometryEqual(t *testing.T) {
	p1, _ := NewPoint(1, 2)
	p2, _ := NewPoint(1, 2)
	p3, _ := NewPoint(3, 4)
	sq1, _ := NewPolygon(closedSquare())
	sq2, _ := NewPolygon(closedSquare())

	tests := []struct {
		name string
		a    Geometry
		b    Geometry
		want bool
	}{
		{"equal points", p1, p2, true},
		{"different points", p1, p3, false},
		{"equal polygons", sq1, sq2, true},
		{"point vs polygon", p1, sq1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnvelopeOf(t *testing.T) {
	p, _ := NewPoint(5, 5)
	sq, _ := NewPolygon(closedSquare())

	if got := EnvelopeOf(p); got != p.Envelope() {
		t.Errorf("EnvelopeOf(point) = %+v, want %+v", got, p.Envelope())
	}
	if got := EnvelopeOf(sq); got != sq.Envelope() {
		t.Errorf("EnvelopeOf(polygon) = %+v, want %+v", got, sq.Envelope())
	}
}
