// Package engine evaluates spatial predicates and orderings over
// geometries. All operations are pure functions without shared state.
package engine

import (
	"github.com/jobrunner/locus/internal/domain"
)

// Contains reports whether the point lies strictly inside the polygon,
// using even-odd ray casting over the ring. Points on the boundary are
// NOT contained. Polygon and point must share a reference system.
func Contains(poly domain.Polygon, point domain.Point) (bool, error) {
	if poly.SRID() != point.SRID() {
		return false, domain.ErrSRIDMismatch
	}

	c := point.Coordinate

	// Envelope pre-filter.
	if !poly.Envelope().Contains(c) {
		return false, nil
	}

	if onRing(poly.Ring, c) {
		return false, nil
	}

	inside := false
	for i := 0; i < len(poly.Ring)-1; i++ {
		a, b := poly.Ring[i], poly.Ring[i+1]
		if (a.Lat > c.Lat) != (b.Lat > c.Lat) {
			x := a.Lon + (c.Lat-a.Lat)/(b.Lat-a.Lat)*(b.Lon-a.Lon)
			if c.Lon < x {
				inside = !inside
			}
		}
	}
	return inside, nil
}

// ContainsEnvelope reports whether the point lies within the envelope.
// Both the min and max bounds are inclusive; used as a cheap pre-filter
// and standalone for bounding-box queries.
func ContainsEnvelope(env domain.Envelope, point domain.Point) bool {
	return env.Contains(point.Coordinate)
}

// onRing reports whether c lies on one of the ring's edges.
func onRing(ring []domain.Coordinate, c domain.Coordinate) bool {
	for i := 0; i < len(ring)-1; i++ {
		a, b := ring[i], ring[i+1]
		cross := (b.Lon-a.Lon)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lon-a.Lon)
		if cross != 0 {
			continue
		}
		if c.Lon >= min(a.Lon, b.Lon) && c.Lon <= max(a.Lon, b.Lon) &&
			c.Lat >= min(a.Lat, b.Lat) && c.Lat <= max(a.Lat, b.Lat) {
			return true
		}
	}
	return false
}
