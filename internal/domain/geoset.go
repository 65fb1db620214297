package domain

import "time"

// Geoset represents a registered named collection of geometries,
// loaded from a geoset file.
type Geoset struct {
	ID            string    // Unique identifier (derived from filename)
	Name          string    // Display name
	Path          string    // File path
	Size          int64     // File size in bytes
	SRID          int       // Reference system shared by all geometries
	GeometryCount int       // Number of geometries in the set
	Extent        *Envelope // Combined bounding box (nil when empty)
	License       License   // License information
	Indexed       bool      // Is the spatial index built?
	LoadedAt      time.Time // Load timestamp
	LastQueried   time.Time // Last query timestamp
}

// IsReady returns true if the geoset is indexed and ready for queries.
func (g *Geoset) IsReady() bool {
	return g.Indexed
}

// NamedGeometry is a single entry of a geoset: a geometry with its
// record name.
type NamedGeometry struct {
	Name     string   // Record name from the geoset file
	Geometry Geometry // Geometry value
}

// GeosetStatus represents the lifecycle status of a geoset.
type GeosetStatus string

const (
	StatusLoading   GeosetStatus = "loading"
	StatusIndexing  GeosetStatus = "indexing"
	StatusReady     GeosetStatus = "ready"
	StatusError     GeosetStatus = "error"
	StatusUnloading GeosetStatus = "unloading"
)

// License contains license information for a geoset.
type License struct {
	Name        string // License name (e.g., "CC BY 4.0")
	URL         string // Link to the license text
	Attribution string // Attribution text to display
}

// IsEmpty returns true if no license information is set.
func (l *License) IsEmpty() bool {
	return l.Name == "" && l.URL == "" && l.Attribution == ""
}

// String returns the attribution text or license name.
func (l *License) String() string {
	if l.Attribution != "" {
		return l.Attribution
	}
	return l.Name
}
