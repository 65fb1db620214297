package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/jobrunner/locus/internal/domain"
)

// Well-known binary geometry type codes.
const (
	wkbPoint   = 1
	wkbPolygon = 3

	// ewkbSRIDFlag marks the extended form carrying an explicit SRID.
	ewkbSRIDFlag = 0x20000000
)

// Byte order flags.
const (
	wkbBigEndian    = 0
	wkbLittleEndian = 1
)

// MarshalWKB renders a geometry in the extended well-known binary
// form: little-endian, with the SRID flag set and the SRID written
// after the type code.
func MarshalWKB(g domain.Geometry) ([]byte, error) {
	w := &wkbWriter{order: binary.LittleEndian}
	w.writeByte(wkbLittleEndian)

	switch geom := g.(type) {
	case domain.Point:
		w.writeUint32(wkbPoint | ewkbSRIDFlag)
		w.writeUint32(uint32(geom.SRID()))
		w.writeCoord(geom.Coordinate)
	case domain.Polygon:
		w.writeUint32(wkbPolygon | ewkbSRIDFlag)
		w.writeUint32(uint32(geom.SRID()))
		w.writeUint32(1) // ring count
		w.writeUint32(uint32(len(geom.Ring)))
		for _, c := range geom.Ring {
			w.writeCoord(c)
		}
	default:
		return nil, domain.ErrUnsupportedType
	}

	return w.buf, nil
}

// ParseWKB parses a geometry from well-known binary input. Both byte
// orders are accepted. Plain WKB without the extended SRID flag is
// read as WGS84.
func ParseWKB(data []byte) (domain.Geometry, error) {
	r := &wkbReader{data: data}

	flag, err := r.readByte()
	if err != nil {
		return nil, err
	}
	switch flag {
	case wkbBigEndian:
		r.order = binary.BigEndian
	case wkbLittleEndian:
		r.order = binary.LittleEndian
	default:
		return nil, parseErr("wkb", fmt.Sprintf("invalid byte order flag 0x%02x", flag))
	}

	typeCode, err := r.readUint32()
	if err != nil {
		return nil, err
	}

	srid := domain.SRIDWGS84
	if typeCode&ewkbSRIDFlag != 0 {
		s, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		srid = int(s)
		typeCode &^= ewkbSRIDFlag
	}

	switch typeCode {
	case wkbPoint:
		c, err := r.readCoord()
		if err != nil {
			return nil, err
		}
		p, err := domain.NewPointSRID(c.Lon, c.Lat, srid)
		if err != nil {
			return nil, err
		}
		return p, nil

	case wkbPolygon:
		ringCount, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		if ringCount == 0 {
			return nil, parseErr("wkb", "polygon has no rings")
		}
		if ringCount > 1 {
			return nil, parseErrWrap("wkb", "polygons with interior rings are not supported", domain.ErrUnsupportedType)
		}

		pointCount, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		if rem := r.remaining(); uint64(rem) < uint64(pointCount)*16 {
			return nil, ErrTruncated
		}

		ring := make([]domain.Coordinate, 0, pointCount)
		for i := uint32(0); i < pointCount; i++ {
			c, err := r.readCoord()
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

	return nil, parseErrWrap("wkb", fmt.Sprintf("unsupported geometry type code %d", typeCode), domain.ErrUnsupportedType)
}

type wkbWriter struct {
	order binary.ByteOrder
	buf   []byte
}

func (w *wkbWriter) writeByte(b byte) {
	w.buf = append(w.buf, b)
}

func (w *wkbWriter) writeUint32(v uint32) {
	var tmp [4]byte
	w.order.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *wkbWriter) writeFloat64(v float64) {
	var tmp [8]byte
	w.order.PutUint64(tmp[:], math.Float64bits(v))
	w.buf = append(w.buf, tmp[:]...)
}

func (w *wkbWriter) writeCoord(c domain.Coordinate) {
	w.writeFloat64(c.Lon)
	w.writeFloat64(c.Lat)
}

type wkbReader struct {
	data  []byte
	pos   int
	order binary.ByteOrder
}

func (r *wkbReader) remaining() int {
	return len(r.data) - r.pos
}

func (r *wkbReader) readByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, ErrTruncated
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *wkbReader) readUint32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, ErrTruncated
	}
	v := r.order.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *wkbReader) readFloat64() (float64, error) {
	if r.remaining() < 8 {
		return 0, ErrTruncated
	}
	v := math.Float64frombits(r.order.Uint64(r.data[r.pos:]))
	r.pos += 8
	return v, nil
}

func (r *wkbReader) readCoord() (domain.Coordinate, error) {
	lon, err := r.readFloat64()
	if err != nil {
		return domain.Coordinate{}, err
	}
	lat, err := r.readFloat64()
	if err != nil {
		return domain.Coordinate{}, err
	}
	return domain.Coordinate{Lon: lon, Lat: lat}, nil
}
