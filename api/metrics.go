package api

import (
	"sync"
	"time"
)

// AlertType identifies the kind of anomaly detected.
type AlertType string

const (
	AlertPrivateKeyExportSpike AlertType = "private_key_export_spike"
	AlertFingerprintMismatch   AlertType = "fingerprint_mismatch_spike"
)

// AlertEvent describes an anomaly that triggered an alert.
type AlertEvent struct {
	Type      AlertType `json:"type"`
	Message   string    `json:"message"`
	Count     int       `json:"count"`
	Threshold int       `json:"threshold"`
	Timestamp time.Time `json:"timestamp"`
}

// AlertFunc is the callback invoked when an anomaly is detected.
type AlertFunc func(AlertEvent)

// slidingWindow counts events within a trailing time window.
type slidingWindow struct {
	events    []time.Time
	window    time.Duration
	threshold int
}

// metricsCollector tracks sliding window counters for anomaly detection.
type metricsCollector struct {
	mu sync.Mutex

	exports    slidingWindow
	mismatches slidingWindow

	alertFn AlertFunc
}

const (
	defaultExportWindow      = 5 * time.Minute
	defaultExportThreshold   = 10
	defaultMismatchWindow    = 1 * time.Minute
	defaultMismatchThreshold = 50
)

func newMetricsCollector(alertFn AlertFunc) *metricsCollector {
	return &metricsCollector{
		exports:    slidingWindow{window: defaultExportWindow, threshold: defaultExportThreshold},
		mismatches: slidingWindow{window: defaultMismatchWindow, threshold: defaultMismatchThreshold},
		alertFn:    alertFn,
	}
}

// recordEvent inspects an audit event and updates the relevant counters.
func (m *metricsCollector) recordEvent(event AuditEvent) {
	if m == nil || m.alertFn == nil {
		return
	}
	switch event {
	case AuditPrivateKeyExported:
		m.record(&m.exports, AlertPrivateKeyExportSpike, "private key export rate exceeds threshold")
	case AuditFingerprintMismatch:
		m.record(&m.mismatches, AlertFingerprintMismatch, "fingerprint mismatch rate exceeds threshold")
	}
}

func (m *metricsCollector) record(w *slidingWindow, typ AlertType, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	w.events = append(w.events, now)
	w.events = trimWindow(w.events, now, w.window)

	if len(w.events) >= w.threshold {
		m.alertFn(AlertEvent{
			Type:      typ,
			Message:   msg,
			Count:     len(w.events),
			Threshold: w.threshold,
			Timestamp: now,
		})
		// Reset to avoid repeated alerts within the same spike.
		w.events = w.events[:0]
	}
}

// trimWindow removes entries older than (now - window) from the sorted slice.
func trimWindow(times []time.Time, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)
	start := 0
	for start < len(times) && times[start].Before(cutoff) {
		start++
	}
	return times[start:]
}
