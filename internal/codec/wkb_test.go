package codec

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/jobrunner/locus/internal/domain"
)

func TestMarshalWKBPoint(t *testing.T) {
	p := mustPoint(t, 9.9, 52.5, domain.SRIDWGS84)

	data, err := MarshalWKB(p)
	if err != nil {
		t.Fatalf("MarshalWKB() error = %v", err)
	}

	// 1 flag + 4 type + 4 srid + 16 coords
	if len(data) != 25 {
		t.Fatalf("expected 25 bytes, got %d", len(data))
	}
	if data[0] != wkbLittleEndian {
		t.Errorf("byte order flag = %d, want little-endian", data[0])
	}
	if typeCode := binary.LittleEndian.Uint32(data[1:5]); typeCode != wkbPoint|ewkbSRIDFlag {
		t.Errorf("type code = 0x%08x, want 0x%08x", typeCode, wkbPoint|ewkbSRIDFlag)
	}
	if srid := binary.LittleEndian.Uint32(data[5:9]); srid != domain.SRIDWGS84 {
		t.Errorf("srid = %d, want %d", srid, domain.SRIDWGS84)
	}
	if lon := math.Float64frombits(binary.LittleEndian.Uint64(data[9:17])); lon != 9.9 {
		t.Errorf("lon = %g, want 9.9", lon)
	}
}

func TestParseWKBBigEndian(t *testing.T) {
	// Hand-built big-endian plain WKB point without SRID.
	var data []byte
	data = append(data, wkbBigEndian)
	data = binary.BigEndian.AppendUint32(data, wkbPoint)
	data = binary.BigEndian.AppendUint64(data, math.Float64bits(9.9))
	data = binary.BigEndian.AppendUint64(data, math.Float64bits(52.5))

	g, err := ParseWKB(data)
	if err != nil {
		t.Fatalf("ParseWKB() error = %v", err)
	}

	p, ok := g.(domain.Point)
	if !ok {
		t.Fatalf("expected Point, got %T", g)
	}
	if p.Coordinate.Lon != 9.9 || p.Coordinate.Lat != 52.5 {
		t.Errorf("got (%g %g), want (9.9 52.5)", p.Coordinate.Lon, p.Coordinate.Lat)
	}
	if p.SRID() != domain.SRIDWGS84 {
		t.Errorf("plain WKB should default to SRID %d, got %d", domain.SRIDWGS84, p.SRID())
	}
}

func TestParseWKBErrors(t *testing.T) {
	square, err := MarshalWKB(mustSquare(t, domain.SRIDWGS84))
	if err != nil {
		t.Fatalf("MarshalWKB() error = %v", err)
	}

	badOrder := []byte{0x07}
	badType := []byte{wkbLittleEndian}
	badType = binary.LittleEndian.AppendUint32(badType, 2) // linestring

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "empty input",
			data:    nil,
			wantErr: ErrTruncated,
		},
		{
			name:    "truncated header",
			data:    []byte{wkbLittleEndian, 0x01},
			wantErr: ErrTruncated,
		},
		{
			name:    "truncated coordinates",
			data:    square[:len(square)-5],
			wantErr: ErrTruncated,
		},
		{
			name:    "invalid byte order flag",
			data:    badOrder,
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unsupported type code",
			data:    badType,
			wantErr: domain.ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWKB(tt.data)
			if err == nil {
				t.Fatal("ParseWKB() expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseWKB() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseWKBDeclaredCountOverflow(t *testing.T) {
	// A polygon declaring far more points than the buffer holds must
	// fail with a truncation error instead of allocating.
	var data []byte
	data = append(data, wkbLittleEndian)
	data = binary.LittleEndian.AppendUint32(data, wkbPolygon)
	data = binary.LittleEndian.AppendUint32(data, 1)
	data = binary.LittleEndian.AppendUint32(data, math.MaxUint32)

	_, err := ParseWKB(data)
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("ParseWKB() error = %v, want %v", err, ErrTruncated)
	}
}

func TestWKBRoundTrip(t *testing.T) {
	geoms := []domain.Geometry{
		mustPoint(t, 9.9, 52.5, domain.SRIDWGS84),
		mustPoint(t, -122.42, 37.77, domain.SRIDWGS84),
		mustPoint(t, 500000, 5700000, domain.SRIDPlanar),
		mustSquare(t, domain.SRIDWGS84),
		mustSquare(t, domain.SRIDPlanar),
	}

	for _, g := range geoms {
		data, err := MarshalWKB(g)
		if err != nil {
			t.Fatalf("MarshalWKB() error = %v", err)
		}
		back, err := ParseWKB(data)
		if err != nil {
			t.Fatalf("ParseWKB() error = %v", err)
		}
		if !domain.Equal(g, back) {
			t.Errorf("round trip changed the geometry %v", g)
		}
	}
}
