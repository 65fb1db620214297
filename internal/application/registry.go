// Package application contains the application services.
package application

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jobrunner/locus/internal/codec"
	"github.com/jobrunner/locus/internal/domain"
	"github.com/jobrunner/locus/internal/ports/output"
)

// GeosetRegistry manages loaded geosets.
type GeosetRegistry struct {
	mu        sync.RWMutex
	geosets   map[string]*geosetEntry
	index     output.SpatialIndex
	storage   output.ObjectStorage
	metrics   output.MetricsCollector
	logger    *slog.Logger
	localPath string
}

type geosetEntry struct {
	Geoset *domain.Geoset
	Status domain.GeosetStatus
	Error  error
}

// NewGeosetRegistry creates a new geoset registry.
func NewGeosetRegistry(
	index output.SpatialIndex,
	storage output.ObjectStorage,
	metrics output.MetricsCollector,
	logger *slog.Logger,
	localPath string,
) *GeosetRegistry {
	return &GeosetRegistry{
		geosets:   make(map[string]*geosetEntry),
		index:     index,
		storage:   storage,
		metrics:   metrics,
		logger:    logger,
		localPath: localPath,
	}
}

// LoadGeoset loads a geoset file from the given path.
func (r *GeosetRegistry) LoadGeoset(ctx context.Context, path string) error {
	r.logger.Info("loading geoset", "path", path)

	geosetID := DeriveGeosetID(path)

	r.mu.Lock()
	r.geosets[geosetID] = &geosetEntry{
		Geoset: &domain.Geoset{ID: geosetID, Name: geosetID, Path: path},
		Status: domain.StatusLoading,
	}
	r.mu.Unlock()

	f, err := os.Open(path) //#nosec G304 -- path comes from configured storage
	if err != nil {
		r.logger.Error("failed to open geoset", "path", path, "error", err)
		loadErr := &domain.StorageError{Operation: "open", Key: path, Err: err}
		r.markFailed(geosetID, loadErr)
		return loadErr
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		loadErr := &domain.StorageError{Operation: "stat", Key: path, Err: err}
		r.markFailed(geosetID, loadErr)
		return loadErr
	}

	geoset := &domain.Geoset{
		ID:   geosetID,
		Name: geosetID,
		Path: path,
		Size: info.Size(),
	}
	readGeosetHeader(f, geoset)

	records, rejects, err := codec.ParseGeosetRecords(f)
	if err != nil {
		r.logger.Error("failed to read geoset", "path", path, "error", err)
		r.markFailed(geosetID, err)
		return err
	}
	for _, reject := range rejects {
		r.logger.Warn("skipping malformed record", "geoset", geosetID, "line", reject.Line, "error", reject.Err)
	}

	records = r.applyGeosetSRID(geoset, records)

	r.mu.Lock()
	r.geosets[geosetID] = &geosetEntry{
		Geoset: geoset,
		Status: domain.StatusIndexing,
	}
	r.mu.Unlock()

	if err := r.index.AddGeoset(ctx, geosetID, records); err != nil {
		r.markFailed(geosetID, err)
		r.logger.Error("failed to index geoset", "geoset", geosetID, "error", err)
		return err
	}

	r.mu.Lock()
	if entry, ok := r.geosets[geosetID]; ok {
		entry.Status = domain.StatusReady
		entry.Geoset.Indexed = true
		entry.Geoset.GeometryCount = len(records)
		entry.Geoset.LoadedAt = time.Now()
	}
	r.mu.Unlock()

	r.updateMetrics()
	r.logger.Info("geoset loaded", "id", geosetID, "geometries", len(records), "rejected", len(rejects))

	return nil
}

// markFailed records a load failure on the geoset's entry.
func (r *GeosetRegistry) markFailed(geosetID string, err error) {
	r.mu.Lock()
	if entry, ok := r.geosets[geosetID]; ok {
		entry.Status = domain.StatusError
		entry.Error = err
	}
	r.mu.Unlock()
}

// applyGeosetSRID fixes the geoset's reference system to the one of
// its first record and drops records in a different system.
func (r *GeosetRegistry) applyGeosetSRID(geoset *domain.Geoset, records []domain.NamedGeometry) []domain.NamedGeometry {
	if len(records) == 0 {
		geoset.SRID = domain.SRIDWGS84
		return records
	}

	geoset.SRID = records[0].Geometry.SRID()

	kept := records[:0]
	var extent *domain.Envelope
	for _, rec := range records {
		if rec.Geometry.SRID() != geoset.SRID {
			r.logger.Warn("dropping record in foreign reference system",
				"geoset", geoset.ID, "record", rec.Name,
				"srid", rec.Geometry.SRID(), "geoset_srid", geoset.SRID)
			continue
		}
		env := rec.Geometry.Envelope()
		if extent == nil {
			e := env
			extent = &e
		} else {
			e := extent.Expand(env)
			extent = &e
		}
		kept = append(kept, rec)
	}
	geoset.Extent = extent
	return kept
}

// UnloadGeoset unloads a geoset and drops its index entries.
func (r *GeosetRegistry) UnloadGeoset(ctx context.Context, geosetID string) error {
	r.logger.Info("unloading geoset", "id", geosetID)

	r.mu.Lock()
	if entry, ok := r.geosets[geosetID]; ok {
		entry.Status = domain.StatusUnloading
	}
	r.mu.Unlock()

	if err := r.index.RemoveGeoset(ctx, geosetID); err != nil {
		r.logger.Error("failed to remove geoset from index", "id", geosetID, "error", err)
		return err
	}

	r.mu.Lock()
	delete(r.geosets, geosetID)
	r.mu.Unlock()

	r.updateMetrics()
	return nil
}

// ListGeosets returns all registered geosets.
func (r *GeosetRegistry) ListGeosets(_ context.Context) ([]domain.Geoset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	geosets := make([]domain.Geoset, 0, len(r.geosets))
	for _, entry := range r.geosets {
		geosets = append(geosets, *entry.Geoset)
	}

	return geosets, nil
}

// GetGeoset returns a specific geoset by ID.
func (r *GeosetRegistry) GetGeoset(_ context.Context, id string) (*domain.Geoset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.geosets[id]
	if !ok {
		return nil, domain.ErrGeosetNotFound
	}

	return entry.Geoset, nil
}

// GetGeosetStatus returns the status of a geoset.
func (r *GeosetRegistry) GetGeosetStatus(_ context.Context, id string) (domain.GeosetStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.geosets[id]
	if !ok {
		return "", domain.ErrGeosetNotFound
	}

	return entry.Status, nil
}

// IsReady returns true if a geoset is ready for queries.
func (r *GeosetRegistry) IsReady(geosetID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.geosets[geosetID]
	if !ok {
		return false
	}

	return entry.Status == domain.StatusReady
}

// ReadyGeosetIDs returns IDs of all ready geosets.
func (r *GeosetRegistry) ReadyGeosetIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0)
	for id, entry := range r.geosets {
		if entry.Status == domain.StatusReady {
			ids = append(ids, id)
		}
	}
	return ids
}

// updateMetrics updates the metrics collector with current geoset counts.
func (r *GeosetRegistry) updateMetrics() {
	r.mu.RLock()
	total := len(r.geosets)
	ready := 0
	for _, entry := range r.geosets {
		if entry.Status == domain.StatusReady {
			ready++
		}
	}
	r.mu.RUnlock()

	r.metrics.SetGeosetsLoaded(total)
	r.metrics.SetGeosetsReady(ready)
}

// LoadAll loads all geosets from storage.
func (r *GeosetRegistry) LoadAll(ctx context.Context) error {
	r.logger.Info("loading all geosets from storage")

	objects, err := r.storage.List(ctx)
	if err != nil {
		return err
	}

	for _, obj := range objects {
		localPath := filepath.Join(r.localPath, obj.Key)
		if err := r.storage.Download(ctx, obj.Key, localPath); err != nil {
			r.logger.Error("failed to download geoset", "key", obj.Key, "error", err)
			continue
		}

		if err := r.LoadGeoset(ctx, localPath); err != nil {
			r.logger.Error("failed to load geoset", "path", localPath, "error", err)
		}
	}

	return nil
}

// IsLoaded returns true if a geoset with the given ID is already loaded.
func (r *GeosetRegistry) IsLoaded(geosetID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.geosets[geosetID]
	return ok
}

// GeosetCount returns the number of loaded geosets.
func (r *GeosetRegistry) GeosetCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.geosets)
}

// SyncStats contains statistics from a sync operation.
type SyncStats struct {
	Added   int
	Removed int
}

// Sync synchronizes with remote storage, downloading new geosets and
// removing geosets that no longer exist in remote storage.
func (r *GeosetRegistry) Sync(ctx context.Context) (SyncStats, error) {
	r.logger.Info("syncing geosets from storage")

	objects, err := r.storage.List(ctx)
	if err != nil {
		return SyncStats{}, err
	}

	remoteGeosets := make(map[string]string) // geosetID -> objectKey
	for _, obj := range objects {
		remoteGeosets[DeriveGeosetID(obj.Key)] = obj.Key
	}

	stats := SyncStats{}

	for geosetID, objectKey := range remoteGeosets {
		if r.IsLoaded(geosetID) {
			r.logger.Debug("geoset already loaded, skipping", "id", geosetID)
			continue
		}

		localPath := filepath.Join(r.localPath, objectKey)
		if err := r.storage.Download(ctx, objectKey, localPath); err != nil {
			r.logger.Error("failed to download geoset", "key", objectKey, "error", err)
			continue
		}

		if err := r.LoadGeoset(ctx, localPath); err != nil {
			r.logger.Error("failed to load geoset", "path", localPath, "error", err)
			continue
		}

		stats.Added++
		r.logger.Info("new geoset synced", "id", geosetID)
	}

	for _, geosetID := range r.findGeosetsToRemove(remoteGeosets) {
		r.logger.Info("removing geoset not in remote storage", "id", geosetID)

		localPath := r.getGeosetPath(geosetID)

		if err := r.UnloadGeoset(ctx, geosetID); err != nil {
			r.logger.Error("failed to unload removed geoset", "id", geosetID, "error", err)
			continue
		}

		if localPath != "" {
			if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
				r.logger.Warn("failed to delete local cache file", "path", localPath, "error", err)
			} else {
				r.logger.Debug("deleted local cache file", "path", localPath)
			}
		}

		stats.Removed++
	}

	r.logger.Info("sync completed", "added", stats.Added, "removed", stats.Removed, "total", r.GeosetCount())
	return stats, nil
}

// findGeosetsToRemove returns geoset IDs that are loaded but not in remote storage.
func (r *GeosetRegistry) findGeosetsToRemove(remoteGeosets map[string]string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var toRemove []string
	for geosetID := range r.geosets {
		if _, exists := remoteGeosets[geosetID]; !exists {
			toRemove = append(toRemove, geosetID)
		}
	}
	return toRemove
}

// getGeosetPath returns the local file path for a loaded geoset.
func (r *GeosetRegistry) getGeosetPath(geosetID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, ok := r.geosets[geosetID]; ok && entry.Geoset != nil {
		return entry.Geoset.Path
	}
	return ""
}

// DeriveGeosetID extracts a geoset ID from a file path or object key.
func DeriveGeosetID(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// readGeosetHeader reads optional `# key: value` directives from the
// leading comment block of a geoset file: name, license, license-url
// and attribution. The reader is rewound afterwards.
func readGeosetHeader(f *os.File, geoset *domain.Geoset) {
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			break
		}

		key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "#")), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			geoset.Name = value
		case "license":
			geoset.License.Name = value
		case "license-url":
			geoset.License.URL = value
		case "attribution":
			geoset.License.Attribution = value
		}
	}

	_, _ = f.Seek(0, 0)
}
