package application

import (
	"context"
	"io"

	"github.com/jobrunner/locus/internal/domain"
	"github.com/jobrunner/locus/internal/ports/output"
)

// mockIndex implements output.SpatialIndex for testing.
type mockIndex struct {
	records map[string][]domain.NamedGeometry
	addErr  error
	addHook func(geosetID string)
}

func newMockIndex() *mockIndex {
	return &mockIndex{records: make(map[string][]domain.NamedGeometry)}
}

func (m *mockIndex) AddGeoset(_ context.Context, geosetID string, records []domain.NamedGeometry) error {
	if m.addHook != nil {
		m.addHook(geosetID)
	}
	if m.addErr != nil {
		return m.addErr
	}
	m.records[geosetID] = records
	return nil
}

func (m *mockIndex) RemoveGeoset(_ context.Context, geosetID string) error {
	delete(m.records, geosetID)
	return nil
}

func (m *mockIndex) Candidates(_ context.Context, geosetID string, coord domain.Coordinate) ([]domain.NamedGeometry, error) {
	var out []domain.NamedGeometry
	for _, rec := range m.records[geosetID] {
		if rec.Geometry.Envelope().Contains(coord) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockIndex) All(_ context.Context, geosetID string) ([]domain.NamedGeometry, error) {
	return m.records[geosetID], nil
}

func (m *mockIndex) Count(_ context.Context, geosetID string) (int, error) {
	return len(m.records[geosetID]), nil
}

func (m *mockIndex) Close() error {
	return nil
}

// mockStorage implements output.ObjectStorage for testing.
type mockStorage struct {
	objects     []output.StorageObject
	files       map[string]string // key -> file content
	downloadErr error
	listErr     error
}

func (m *mockStorage) addObject(key, content string) {
	m.objects = append(m.objects, output.StorageObject{Key: key, Size: int64(len(content))})
	m.files[key] = content
}

func (m *mockStorage) List(_ context.Context) ([]output.StorageObject, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.objects, nil
}

func (m *mockStorage) Download(_ context.Context, key, dest string) error {
	if m.downloadErr != nil {
		return m.downloadErr
	}
	if m.files != nil {
		if content, ok := m.files[key]; ok {
			return writeFile(dest, content)
		}
	}
	return nil
}

func (m *mockStorage) GetReader(_ context.Context, _ string) (io.ReadCloser, error) {
	return nil, nil
}

func (m *mockStorage) Exists(_ context.Context, _ string) (bool, error) {
	return true, nil
}
