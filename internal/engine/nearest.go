package engine

import (
	"sort"

	"github.com/jobrunner/locus/internal/domain"
)

// OrderByDistance returns the candidates sorted ascending by their
// distance from the origin. The sort is stable: candidates at equal
// distance keep their input order. The input slice is not modified.
func OrderByDistance(origin domain.Point, candidates []domain.Point) ([]domain.Point, error) {
	type entry struct {
		point domain.Point
		dist  float64
	}

	entries := make([]entry, len(candidates))
	for i, c := range candidates {
		d, err := Distance(origin, c)
		if err != nil {
			return nil, err
		}
		entries[i] = entry{point: c, dist: d}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].dist < entries[j].dist
	})

	ordered := make([]domain.Point, len(entries))
	for i, e := range entries {
		ordered[i] = e.point
	}
	return ordered, nil
}
