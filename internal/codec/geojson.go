package codec

import (
	"encoding/json"

	"github.com/jobrunner/locus/internal/domain"
)

// geoJSONGeometry is the wire shape of a GeoJSON geometry object.
type geoJSONGeometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// MarshalGeoJSON renders a geometry as a GeoJSON geometry object.
// This is a one-way projection: the SRID is not representable in
// GeoJSON and is dropped. Polygon rings keep their closing vertex.
func MarshalGeoJSON(g domain.Geometry) ([]byte, error) {
	var obj geoJSONGeometry

	switch geom := g.(type) {
	case domain.Point:
		obj = geoJSONGeometry{
			Type:        "Point",
			Coordinates: []float64{geom.Coordinate.Lon, geom.Coordinate.Lat},
		}
	case domain.Polygon:
		ring := make([][]float64, len(geom.Ring))
		for i, c := range geom.Ring {
			ring[i] = []float64{c.Lon, c.Lat}
		}
		obj = geoJSONGeometry{
			Type:        "Polygon",
			Coordinates: [][][]float64{ring},
		}
	default:
		return nil, domain.ErrUnsupportedType
	}

	return json.Marshal(obj)
}
