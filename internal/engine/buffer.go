package engine

import (
	"math"

	"github.com/jobrunner/locus/internal/domain"
)

// DefaultBufferSegments is the vertex count of the regular polygon
// approximating a circular buffer.
const DefaultBufferSegments = 32

// Buffer approximates a circle of the given radius around the center
// as a regular polygon with DefaultBufferSegments vertices. Under
// WGS84 the radius is in meters along the sphere surface; under other
// systems it is in coordinate units on the plane.
func Buffer(center domain.Point, radius float64) (domain.Polygon, error) {
	return BufferN(center, radius, DefaultBufferSegments)
}

// BufferN is Buffer with an explicit vertex count. Counts below 3 fall
// back to the default.
func BufferN(center domain.Point, radius float64, segments int) (domain.Polygon, error) {
	if radius <= 0 {
		return domain.Polygon{}, domain.ErrInvalidRadius
	}
	if segments < 3 {
		segments = DefaultBufferSegments
	}

	ring := make([]domain.Coordinate, 0, segments+1)
	for i := 0; i < segments; i++ {
		bearing := 2 * math.Pi * float64(i) / float64(segments)
		if center.SRID() == domain.SRIDWGS84 {
			ring = append(ring, destination(center.Coordinate, radius, bearing))
		} else {
			ring = append(ring, domain.Coordinate{
				Lon: center.Coordinate.Lon + radius*math.Sin(bearing),
				Lat: center.Coordinate.Lat + radius*math.Cos(bearing),
			})
		}
	}
	ring = append(ring, ring[0])

	return domain.NewPolygonSRID(ring, center.SRID())
}

// destination computes the WGS84 coordinate reached by travelling
// distanceMeters from start along the given bearing (radians,
// clockwise from north) on a spherical earth.
func destination(start domain.Coordinate, distanceMeters, bearing float64) domain.Coordinate {
	lat1 := start.Lat * math.Pi / 180
	lon1 := start.Lon * math.Pi / 180
	ang := distanceMeters / earthRadiusMeters

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(ang) +
		math.Cos(lat1)*math.Sin(ang)*math.Cos(bearing))
	lon2 := lon1 + math.Atan2(math.Sin(bearing)*math.Sin(ang)*math.Cos(lat1),
		math.Cos(ang)-math.Sin(lat1)*math.Sin(lat2))

	// Normalize longitude to [-180, 180].
	lonDeg := math.Mod(lon2*180/math.Pi+540, 360) - 180

	return domain.Coordinate{Lon: lonDeg, Lat: lat2 * 180 / math.Pi}
}
