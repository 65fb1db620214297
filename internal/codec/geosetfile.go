package codec

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jobrunner/locus/internal/domain"
)

// RecordError describes a single rejected record in a geoset file.
type RecordError struct {
	Line int    // 1-based line number
	Name string // Record name, if it could be read
	Err  error  // Underlying parse error
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("line %d (%s): %v", e.Line, e.Name, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *RecordError) Unwrap() error {
	return e.Err
}

// ParseGeosetRecords reads a geoset file: one `name <EWKT>` record per
// line, with `#` comments and blank lines ignored. A malformed line
// rejects that record only; the remaining records still load. The
// returned error is non-nil only for read failures.
func ParseGeosetRecords(r io.Reader) ([]domain.NamedGeometry, []RecordError, error) {
	var (
		records []domain.NamedGeometry
		rejects []RecordError
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		name, wkt, ok := strings.Cut(text, " ")
		if !ok {
			rejects = append(rejects, RecordError{
				Line: line,
				Err:  parseErr("wkt", "expected `name <geometry>` record"),
			})
			continue
		}

		geom, err := ParseWKT(wkt)
		if err != nil {
			rejects = append(rejects, RecordError{Line: line, Name: name, Err: err})
			continue
		}

		records = append(records, domain.NamedGeometry{Name: name, Geometry: geom})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading geoset: %w", err)
	}

	return records, rejects, nil
}
