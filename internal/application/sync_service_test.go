package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jobrunner/locus/internal/ports/output"
)

func newTestSyncService(t *testing.T, interval time.Duration) (*SyncService, *mockStorage) {
	t.Helper()

	storage := &mockStorage{files: make(map[string]string)}
	registry := NewGeosetRegistry(newMockIndex(), storage, &output.NoOpMetrics{}, testLogger(), t.TempDir())
	return NewSyncService(registry, interval, testLogger()), storage
}

func TestSyncServiceTriggerSync(t *testing.T) {
	svc, storage := newTestSyncService(t, time.Hour)
	storage.addObject("zones.wkt", zonesFile)

	result, err := svc.TriggerSync(context.Background())
	if err != nil {
		t.Fatalf("TriggerSync() error = %v", err)
	}
	if result.GeosetsAdded != 1 {
		t.Errorf("GeosetsAdded = %d, want 1", result.GeosetsAdded)
	}
	if result.GeosetsTotal != 1 {
		t.Errorf("GeosetsTotal = %d, want 1", result.GeosetsTotal)
	}
	if result.SyncedAt.IsZero() {
		t.Error("SyncedAt should be set")
	}
}

func TestSyncServiceRateLimiting(t *testing.T) {
	svc, storage := newTestSyncService(t, time.Hour)
	storage.addObject("zones.wkt", zonesFile)
	ctx := context.Background()

	if _, err := svc.TriggerSync(ctx); err != nil {
		t.Fatalf("first TriggerSync() error = %v", err)
	}

	// Second trigger within the cooldown window must be rejected.
	_, err := svc.TriggerSync(ctx)
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("second TriggerSync() error = %v, want ErrRateLimited", err)
	}

	// Rewinding the last sync time clears the limit.
	svc.apiMutex.Lock()
	svc.lastAPISync = time.Now().Add(-time.Minute)
	svc.apiMutex.Unlock()

	if _, err := svc.TriggerSync(ctx); err != nil {
		t.Errorf("TriggerSync() after cooldown error = %v", err)
	}
}

func TestSyncServiceTriggerSyncError(t *testing.T) {
	svc, storage := newTestSyncService(t, time.Hour)
	storage.listErr = errors.New("bucket unavailable")

	if _, err := svc.TriggerSync(context.Background()); err == nil {
		t.Error("TriggerSync() should propagate storage errors")
	}
}

func TestSyncServiceStartStop(t *testing.T) {
	svc, storage := newTestSyncService(t, 50*time.Millisecond)
	storage.addObject("zones.wkt", zonesFile)

	svc.Start(context.Background())
	time.Sleep(120 * time.Millisecond)
	svc.Stop()

	if svc.registry.GeosetCount() != 1 {
		t.Errorf("GeosetCount() = %d, want 1 after periodic sync", svc.registry.GeosetCount())
	}
}

func TestSyncServiceInterval(t *testing.T) {
	svc, _ := newTestSyncService(t, 5*time.Minute)
	if got := svc.Interval(); got != 5*time.Minute {
		t.Errorf("Interval() = %v, want 5m", got)
	}
}
