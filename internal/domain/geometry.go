package domain

// GeometryType identifies the concrete variant of a Geometry.
type GeometryType string

// Geometry type constants.
const (
	GeomPoint   GeometryType = "Point"
	GeomPolygon GeometryType = "Polygon"
)

// Geometry is the tagged variant over points and polygons. Values are
// immutable once constructed: constructors copy their inputs, and every
// transform produces a new value.
type Geometry interface {
	// Type returns the geometry variant tag.
	Type() GeometryType

	// SRID returns the spatial reference system identifier.
	SRID() int

	// Envelope returns the minimal axis-aligned bounding box.
	Envelope() Envelope

	geometry()
}

// Point represents a single position in a reference system.
type Point struct {
	Coordinate Coordinate
	Srid       int
}

// NewPoint creates a WGS84 point. It fails if the coordinate is out of
// the valid longitude/latitude range.
func NewPoint(lon, lat float64) (Point, error) {
	return NewPointSRID(lon, lat, SRIDWGS84)
}

// NewPointSRID creates a point in the given reference system.
func NewPointSRID(lon, lat float64, srid int) (Point, error) {
	c := Coordinate{Lon: lon, Lat: lat}
	if err := c.Validate(srid); err != nil {
		return Point{}, err
	}
	return Point{Coordinate: c, Srid: srid}, nil
}

// Type returns the geometry variant tag.
func (p Point) Type() GeometryType { return GeomPoint }

// SRID returns the spatial reference system identifier.
func (p Point) SRID() int { return p.Srid }

// Envelope returns the degenerate bounding box of the point.
func (p Point) Envelope() Envelope {
	return Envelope{
		MinLon: p.Coordinate.Lon,
		MinLat: p.Coordinate.Lat,
		MaxLon: p.Coordinate.Lon,
		MaxLat: p.Coordinate.Lat,
		SRID:   p.Srid,
	}
}

// Equal returns true if the points match structurally.
func (p Point) Equal(other Point) bool {
	return p.Srid == other.Srid && p.Coordinate.Equal(other.Coordinate)
}

func (p Point) geometry() {}

// Polygon represents a simple polygon bounded by a single closed ring.
// The ring is stored with its closing vertex: Ring[0] equals
// Ring[len(Ring)-1].
type Polygon struct {
	Ring []Coordinate
	Srid int
}

// NewPolygon creates a WGS84 polygon from a closed ring.
func NewPolygon(ring []Coordinate) (Polygon, error) {
	return NewPolygonSRID(ring, SRIDWGS84)
}

// NewPolygonSRID creates a polygon in the given reference system.
// The ring must be closed (first and last coordinate equal) and must
// contain at least 3 distinct vertices.
func NewPolygonSRID(ring []Coordinate, srid int) (Polygon, error) {
	if len(ring) < 2 || !ring[0].Equal(ring[len(ring)-1]) {
		return Polygon{}, ErrUnclosedRing
	}
	if distinctVertices(ring) < 3 {
		return Polygon{}, ErrDegenerateRing
	}
	for _, c := range ring {
		if err := c.Validate(srid); err != nil {
			return Polygon{}, err
		}
	}

	// Copy so callers cannot mutate the ring afterwards.
	owned := make([]Coordinate, len(ring))
	copy(owned, ring)

	return Polygon{Ring: owned, Srid: srid}, nil
}

// Type returns the geometry variant tag.
func (p Polygon) Type() GeometryType { return GeomPolygon }

// SRID returns the spatial reference system identifier.
func (p Polygon) SRID() int { return p.Srid }

// Envelope returns the minimal bounding box of the ring.
func (p Polygon) Envelope() Envelope {
	env := Envelope{
		MinLon: p.Ring[0].Lon,
		MinLat: p.Ring[0].Lat,
		MaxLon: p.Ring[0].Lon,
		MaxLat: p.Ring[0].Lat,
		SRID:   p.Srid,
	}
	for _, c := range p.Ring[1:] {
		if c.Lon < env.MinLon {
			env.MinLon = c.Lon
		}
		if c.Lon > env.MaxLon {
			env.MaxLon = c.Lon
		}
		if c.Lat < env.MinLat {
			env.MinLat = c.Lat
		}
		if c.Lat > env.MaxLat {
			env.MaxLat = c.Lat
		}
	}
	return env
}

func (p Polygon) geometry() {}

// Equal returns true if the polygons match structurally.
func (p Polygon) Equal(other Polygon) bool {
	if p.Srid != other.Srid || len(p.Ring) != len(other.Ring) {
		return false
	}
	for i := range p.Ring {
		if !p.Ring[i].Equal(other.Ring[i]) {
			return false
		}
	}
	return true
}

// VertexCount returns the number of distinct vertices, excluding the
// closing vertex.
func (p Polygon) VertexCount() int {
	return len(p.Ring) - 1
}

// Validate checks that the ring is simple, i.e. that no two
// non-adjacent edges intersect. Predicates assume a simple ring; this
// is the explicit pre-check for rings from untrusted sources.
func (p Polygon) Validate() error {
	n := len(p.Ring) - 1 // edges, closing vertex excluded
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			// Skip adjacent edges (they share a vertex by construction).
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if segmentsIntersect(p.Ring[i], p.Ring[i+1], p.Ring[j], p.Ring[j+1]) {
				return ErrMalformedRing
			}
		}
	}
	return nil
}

// EnvelopeOf computes the minimal axis-aligned bounding box of a
// geometry. Pure function: the same geometry always yields the same
// envelope.
func EnvelopeOf(g Geometry) Envelope {
	return g.Envelope()
}

// Equal compares two geometries structurally.
func Equal(a, b Geometry) bool {
	switch ga := a.(type) {
	case Point:
		gb, ok := b.(Point)
		return ok && ga.Equal(gb)
	case Polygon:
		gb, ok := b.(Polygon)
		return ok && ga.Equal(gb)
	default:
		return false
	}
}

// distinctVertices counts unique coordinates in a ring, treating the
// closing vertex as a repeat of the first.
func distinctVertices(ring []Coordinate) int {
	seen := make([]Coordinate, 0, len(ring))
	for _, c := range ring[:len(ring)-1] {
		dup := false
		for _, s := range seen {
			if s.Equal(c) {
				dup = true
				break
			}
		}
		if !dup {
			seen = append(seen, c)
		}
	}
	return len(seen)
}

// segmentsIntersect reports whether segments p1-p2 and p3-p4 properly
// intersect or touch.
func segmentsIntersect(p1, p2, p3, p4 Coordinate) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	return (d1 == 0 && onSegment(p3, p4, p1)) ||
		(d2 == 0 && onSegment(p3, p4, p2)) ||
		(d3 == 0 && onSegment(p1, p2, p3)) ||
		(d4 == 0 && onSegment(p1, p2, p4))
}

// cross returns the cross product of vectors ab and ac.
func cross(a, b, c Coordinate) float64 {
	return (b.Lon-a.Lon)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lon-a.Lon)
}

// onSegment reports whether c lies on the segment a-b, assuming the
// three points are collinear.
func onSegment(a, b, c Coordinate) bool {
	return c.Lon >= minf(a.Lon, b.Lon) && c.Lon <= maxf(a.Lon, b.Lon) &&
		c.Lat >= minf(a.Lat, b.Lat) && c.Lat <= maxf(a.Lat, b.Lat)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
