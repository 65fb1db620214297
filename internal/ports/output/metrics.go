package output

import "time"

// MetricsCollector defines the secondary port for metrics collection.
type MetricsCollector interface {
	// IncQueryCount increments the query counter.
	IncQueryCount(geosetID string, success bool)

	// ObserveQueryDuration records query duration.
	ObserveQueryDuration(geosetID string, duration time.Duration)

	// SetGeosetsLoaded sets the number of loaded geosets.
	SetGeosetsLoaded(count int)

	// SetGeosetsReady sets the number of ready geosets.
	SetGeosetsReady(count int)

	// IncStorageOperations increments storage operation counter.
	IncStorageOperations(operation string, success bool)

	// ObserveStorageDuration records storage operation duration.
	ObserveStorageDuration(operation string, duration time.Duration)
}

// NoOpMetrics is a no-op implementation of MetricsCollector.
type NoOpMetrics struct{}

// IncQueryCount implements MetricsCollector.
func (n *NoOpMetrics) IncQueryCount(_ string, _ bool) {}

// ObserveQueryDuration implements MetricsCollector.
func (n *NoOpMetrics) ObserveQueryDuration(_ string, _ time.Duration) {}

// SetGeosetsLoaded implements MetricsCollector.
func (n *NoOpMetrics) SetGeosetsLoaded(_ int) {}

// SetGeosetsReady implements MetricsCollector.
func (n *NoOpMetrics) SetGeosetsReady(_ int) {}

// IncStorageOperations implements MetricsCollector.
func (n *NoOpMetrics) IncStorageOperations(_ string, _ bool) {}

// ObserveStorageDuration implements MetricsCollector.
func (n *NoOpMetrics) ObserveStorageDuration(_ string, _ time.Duration) {}
