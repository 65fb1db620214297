package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jobrunner/locus/internal/domain"
)

// ParseWKT parses a geometry from its well-known text form. An
// optional extended prefix `SRID=<id>;` selects the reference system;
// without it the geometry is WGS84. Only POINT and POLYGON with a
// single ring are recognized.
func ParseWKT(s string) (domain.Geometry, error) {
	s = strings.TrimSpace(s)
	srid := domain.SRIDWGS84

	if rest, ok := cutPrefixFold(s, "SRID="); ok {
		semi := strings.IndexByte(rest, ';')
		if semi < 0 {
			return nil, parseErr("wkt", "missing ';' after SRID prefix")
		}
		id, err := strconv.Atoi(strings.TrimSpace(rest[:semi]))
		if err != nil {
			return nil, parseErrWrap("wkt", "invalid SRID value", domain.ErrInvalidSRID)
		}
		srid = id
		s = strings.TrimSpace(rest[semi+1:])
	}

	switch {
	case hasPrefixFold(s, "POINT"):
		return parseWKTPoint(s[len("POINT"):], srid)
	case hasPrefixFold(s, "POLYGON"):
		return parseWKTPolygon(s[len("POLYGON"):], srid)
	}

	tag := s
	if i := strings.IndexAny(s, " ("); i > 0 {
		tag = s[:i]
	}
	return nil, parseErrWrap("wkt", fmt.Sprintf("unsupported geometry type %q", tag), domain.ErrUnsupportedType)
}

// MarshalWKT renders a geometry as well-known text. Non-WGS84
// geometries carry the extended `SRID=<id>;` prefix so that the
// reference system survives a round trip.
func MarshalWKT(g domain.Geometry) (string, error) {
	var b strings.Builder
	if g.SRID() != domain.SRIDWGS84 {
		fmt.Fprintf(&b, "SRID=%d;", g.SRID())
	}

	switch geom := g.(type) {
	case domain.Point:
		b.WriteString("POINT(")
		writeCoord(&b, geom.Coordinate)
		b.WriteByte(')')
	case domain.Polygon:
		b.WriteString("POLYGON((")
		for i, c := range geom.Ring {
			if i > 0 {
				b.WriteString(", ")
			}
			writeCoord(&b, c)
		}
		b.WriteString("))")
	default:
		return "", domain.ErrUnsupportedType
	}

	return b.String(), nil
}

func parseWKTPoint(body string, srid int) (domain.Geometry, error) {
	inner, err := unwrapParens(body)
	if err != nil {
		return nil, err
	}

	c, err := parseCoord(inner)
	if err != nil {
		return nil, err
	}

	p, err := domain.NewPointSRID(c.Lon, c.Lat, srid)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func parseWKTPolygon(body string, srid int) (domain.Geometry, error) {
	outer, err := unwrapParens(body)
	if err != nil {
		return nil, err
	}
	ringBody, err := unwrapParens(outer)
	if err != nil {
		return nil, err
	}
	// A second parenthesized ring would be a hole, which the model
	// does not support.
	if strings.ContainsAny(ringBody, "()") {
		return nil, parseErrWrap("wkt", "polygons with interior rings are not supported", domain.ErrUnsupportedType)
	}

	parts := strings.Split(ringBody, ",")
	ring := make([]domain.Coordinate, 0, len(parts))
	for _, part := range parts {
		c, err := parseCoord(part)
		if err != nil {
			return nil, err
		}
		ring = append(ring, c)
	}

	poly, err := domain.NewPolygonSRID(ring, srid)
	if err != nil {
		return nil, err
	}
	return poly, nil
}

// unwrapParens strips one balanced pair of parentheses around s,
// allowing surrounding whitespace.
func unwrapParens(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return "", parseErr("wkt", "expected parenthesized coordinate list")
	}
	return s[1 : len(s)-1], nil
}

func parseCoord(s string) (domain.Coordinate, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return domain.Coordinate{}, parseErr("wkt", fmt.Sprintf("expected two coordinate values, got %d", len(fields)))
	}
	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return domain.Coordinate{}, parseErr("wkt", fmt.Sprintf("invalid longitude %q", fields[0]))
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return domain.Coordinate{}, parseErr("wkt", fmt.Sprintf("invalid latitude %q", fields[1]))
	}
	return domain.Coordinate{Lon: lon, Lat: lat}, nil
}

func writeCoord(b *strings.Builder, c domain.Coordinate) {
	b.WriteString(strconv.FormatFloat(c.Lon, 'g', -1, 64))
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(c.Lat, 'g', -1, 64))
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if hasPrefixFold(s, prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
