// Package domain contains the core business entities and value objects.
package domain

import (
	"fmt"
	"math"
)

// Coordinate represents a geographic position as a longitude/latitude pair.
type Coordinate struct {
	Lon float64 // Longitude or planar X
	Lat float64 // Latitude or planar Y
}

// NewCoordinate creates a coordinate from a longitude/latitude pair.
func NewCoordinate(lon, lat float64) Coordinate {
	return Coordinate{Lon: lon, Lat: lat}
}

// Validate checks if the coordinate is valid for the given SRID.
// Range checks apply only to the WGS84 spherical system; planar
// coordinates are unbounded.
func (c Coordinate) Validate(srid int) error {
	if srid != SRIDWGS84 {
		return nil
	}
	if c.Lon < -180 || c.Lon > 180 {
		return &ValidationError{
			Field:      "longitude",
			Value:      c.Lon,
			Constraint: "[-180, 180]",
			Message:    "longitude must be between -180 and 180",
			Err:        ErrInvalidCoordinate,
		}
	}
	if c.Lat < -90 || c.Lat > 90 {
		return &ValidationError{
			Field:      "latitude",
			Value:      c.Lat,
			Constraint: "[-90, 90]",
			Message:    "latitude must be between -90 and 90",
			Err:        ErrInvalidCoordinate,
		}
	}
	return nil
}

// Equal returns true if both components match exactly.
func (c Coordinate) Equal(other Coordinate) bool {
	return c.Lon == other.Lon && c.Lat == other.Lat
}

// String returns a string representation of the coordinate.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%g %g)", c.Lon, c.Lat)
}

// ReferenceSystem represents a coordinate reference system.
type ReferenceSystem struct {
	SRID int    // EPSG code (0 for the abstract planar system)
	Name string // Human-readable name
}

// Supported SRID constants. The default spherical system is WGS84;
// SRIDPlanar marks an explicitly planar Cartesian system.
const (
	SRIDWGS84  = 4326
	SRIDPlanar = 0
)

// KnownSystems contains the reference systems the engine operates in.
var KnownSystems = map[int]ReferenceSystem{
	SRIDWGS84:  {SRID: SRIDWGS84, Name: "WGS 84"},
	SRIDPlanar: {SRID: SRIDPlanar, Name: "Planar Cartesian"},
}

// IsKnownSRID returns true if the SRID is supported by the engine.
func IsKnownSRID(srid int) bool {
	_, ok := KnownSystems[srid]
	return ok
}

// Envelope represents an axis-aligned minimal bounding rectangle.
type Envelope struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
	SRID   int
}

// Contains checks if a coordinate is within the envelope.
// Both the min and max bounds are inclusive.
func (e Envelope) Contains(c Coordinate) bool {
	return c.Lon >= e.MinLon && c.Lon <= e.MaxLon && c.Lat >= e.MinLat && c.Lat <= e.MaxLat
}

// IsValid checks if the envelope has valid dimensions.
func (e Envelope) IsValid() bool {
	return e.MinLon <= e.MaxLon && e.MinLat <= e.MaxLat
}

// Width returns the longitudinal span of the envelope.
func (e Envelope) Width() float64 {
	return math.Abs(e.MaxLon - e.MinLon)
}

// Height returns the latitudinal span of the envelope.
func (e Envelope) Height() float64 {
	return math.Abs(e.MaxLat - e.MinLat)
}

// Center returns the center coordinate of the envelope.
func (e Envelope) Center() Coordinate {
	return Coordinate{
		Lon: (e.MinLon + e.MaxLon) / 2,
		Lat: (e.MinLat + e.MaxLat) / 2,
	}
}

// Expand returns the smallest envelope covering both e and other.
func (e Envelope) Expand(other Envelope) Envelope {
	return Envelope{
		MinLon: math.Min(e.MinLon, other.MinLon),
		MinLat: math.Min(e.MinLat, other.MinLat),
		MaxLon: math.Max(e.MaxLon, other.MaxLon),
		MaxLat: math.Max(e.MaxLat, other.MaxLat),
		SRID:   e.SRID,
	}
}

// Intersects returns true if the two envelopes overlap.
func (e Envelope) Intersects(other Envelope) bool {
	return e.MinLon <= other.MaxLon && e.MaxLon >= other.MinLon &&
		e.MinLat <= other.MaxLat && e.MaxLat >= other.MinLat
}
