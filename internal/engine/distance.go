package engine

import (
	"math"

	"github.com/jobrunner/locus/internal/domain"
)

// earthRadiusMeters is the mean earth radius used for great-circle
// distances.
const earthRadiusMeters = 6371000.0

// Distance computes the distance between two geometries sharing a
// reference system. Under WGS84 this is the haversine great-circle
// distance in meters; under any other system it is the planar
// Euclidean distance in coordinate units. Polygons are measured from
// their envelope center.
func Distance(a, b domain.Geometry) (float64, error) {
	if a.SRID() != b.SRID() {
		return 0, domain.ErrSRIDMismatch
	}

	ca := representative(a)
	cb := representative(b)

	if a.SRID() == domain.SRIDWGS84 {
		return haversine(ca, cb), nil
	}
	return euclidean(ca, cb), nil
}

// representative reduces a geometry to a single coordinate for
// distance purposes: the point itself, or the envelope center for
// polygons.
func representative(g domain.Geometry) domain.Coordinate {
	if p, ok := g.(domain.Point); ok {
		return p.Coordinate
	}
	return g.Envelope().Center()
}

// haversine computes the great-circle distance in meters between two
// WGS84 coordinates.
func haversine(a, b domain.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// euclidean computes the planar distance between two coordinates.
func euclidean(a, b domain.Coordinate) float64 {
	dx := b.Lon - a.Lon
	dy := b.Lat - a.Lat
	return math.Sqrt(dx*dx + dy*dy)
}
