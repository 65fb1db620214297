package domain

import "time"

// QueryRequest represents a point containment query.
type QueryRequest struct {
	Coordinate Coordinate // Query coordinate
	SRID       int        // Reference system of the coordinate
	GeosetID   string     // Specific geoset (empty = all)
	WithWKT    bool       // Include WKT geometry in matches
}

// Match is a single geometry that contains the query point.
type Match struct {
	Name     string   // Record name from the geoset file
	Geometry Geometry // Matched geometry (nil unless requested)
	WKT      string   // WKT representation (empty unless requested)
}

// QueryResult represents the matches found in one geoset.
type QueryResult struct {
	GeosetID   string        // Geoset identifier
	GeosetName string        // Geoset display name
	Matches    []Match       // Containing geometries
	License    License       // License information
	QueryTime  time.Duration // Query execution time
}

// MatchCount returns the number of matches in the result.
func (r *QueryResult) MatchCount() int {
	return len(r.Matches)
}

// HasMatches returns true if any geometry contains the point.
func (r *QueryResult) HasMatches() bool {
	return len(r.Matches) > 0
}

// QueryResponse represents the full containment query response.
type QueryResponse struct {
	Results        []QueryResult // Results per geoset
	TotalMatches   int           // Total match count
	ProcessingTime time.Duration // Total processing time
	Coordinate     Coordinate    // Queried coordinate
}

// AddResult adds a query result to the response.
func (r *QueryResponse) AddResult(result QueryResult) {
	r.Results = append(r.Results, result)
	r.TotalMatches += result.MatchCount()
}

// NearestRequest represents a nearest-neighbor query.
type NearestRequest struct {
	Coordinate Coordinate // Query coordinate
	SRID       int        // Reference system of the coordinate
	GeosetID   string     // Specific geoset (empty = all)
	Limit      int        // Maximum number of neighbors (0 = all)
	MaxMeters  float64    // Distance cutoff in meters (0 = unbounded)
}

// Neighbor is a geometry ordered by distance from the query point.
type Neighbor struct {
	GeosetID string   // Geoset identifier
	Name     string   // Record name
	Geometry Geometry // Geometry value
	Distance float64  // Distance in meters (or SRID units for planar)
}

// NearestResponse represents the nearest-neighbor response, ordered
// by ascending distance.
type NearestResponse struct {
	Neighbors      []Neighbor    // Ordered neighbors
	ProcessingTime time.Duration // Total processing time
	Coordinate     Coordinate    // Queried coordinate
}

// BufferRequest represents a buffer construction request.
type BufferRequest struct {
	Coordinate Coordinate // Buffer center
	SRID       int        // Reference system of the coordinate
	Radius     float64    // Radius in meters (or SRID units for planar)
	Segments   int        // Vertices of the approximation (0 = default)
}

// BufferResponse carries the polygon approximating a circular buffer.
type BufferResponse struct {
	Polygon        *Polygon      // Buffer polygon
	ProcessingTime time.Duration // Total processing time
}
