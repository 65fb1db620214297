package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/jobrunner/locus/internal/domain"
)

func TestDistanceHaversine(t *testing.T) {
	tests := []struct {
		name      string
		a         domain.Point
		b         domain.Point
		want      float64
		tolerance float64
	}{
		{
			name:      "one degree of latitude",
			a:         mustPoint(t, 0, 0, domain.SRIDWGS84),
			b:         mustPoint(t, 0, 1, domain.SRIDWGS84),
			want:      111195, // pi/180 * 6371000
			tolerance: 1,
		},
		{
			name:      "same point",
			a:         mustPoint(t, 9.9, 52.5, domain.SRIDWGS84),
			b:         mustPoint(t, 9.9, 52.5, domain.SRIDWGS84),
			want:      0,
			tolerance: 0.001,
		},
		{
			name:      "hannover to berlin",
			a:         mustPoint(t, 9.73, 52.37, domain.SRIDWGS84),
			b:         mustPoint(t, 13.40, 52.52, domain.SRIDWGS84),
			want:      249000,
			tolerance: 5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Distance(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Distance() error = %v", err)
			}
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Distance() = %f, want %f ± %f", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := mustPoint(t, 9.73, 52.37, domain.SRIDWGS84)
	b := mustPoint(t, 13.40, 52.52, domain.SRIDWGS84)

	ab, err := Distance(a, b)
	if err != nil {
		t.Fatalf("Distance() error = %v", err)
	}
	ba, err := Distance(b, a)
	if err != nil {
		t.Fatalf("Distance() error = %v", err)
	}
	if ab != ba {
		t.Errorf("Distance is not symmetric: %f vs %f", ab, ba)
	}
}

func TestDistancePlanar(t *testing.T) {
	a := mustPoint(t, 0, 0, domain.SRIDPlanar)
	b := mustPoint(t, 3, 4, domain.SRIDPlanar)

	got, err := Distance(a, b)
	if err != nil {
		t.Fatalf("Distance() error = %v", err)
	}
	if got != 5 {
		t.Errorf("Distance() = %f, want 5", got)
	}
}

func TestDistancePolygonUsesEnvelopeCenter(t *testing.T) {
	poly := square(t) // center (5, 5)
	point := mustPoint(t, 5, 5, domain.SRIDWGS84)

	got, err := Distance(poly, point)
	if err != nil {
		t.Fatalf("Distance() error = %v", err)
	}
	if got > 0.001 {
		t.Errorf("Distance() = %f, want ~0 for the envelope center", got)
	}
}

func TestDistanceSRIDMismatch(t *testing.T) {
	a := mustPoint(t, 0, 0, domain.SRIDWGS84)
	b := mustPoint(t, 0, 0, domain.SRIDPlanar)

	_, err := Distance(a, b)
	if !errors.Is(err, domain.ErrSRIDMismatch) {
		t.Errorf("Distance() error = %v, want %v", err, domain.ErrSRIDMismatch)
	}
}
