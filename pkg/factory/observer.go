package factory

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer defines hooks for observability of a session.
// Implementations can use these hooks to collect metrics or log operations.
type Observer interface {
	// OnBuild is called whenever a sequence value is consumed.
	OnBuild(typeName string, seq int)

	// OnCreate is called after a record is stored and its hooks have run.
	OnCreate(typeName, collection, recordID string, duration time.Duration)

	// OnError is called when a top-level operation fails.
	OnError(typeName, operation string, err error)

	// OnReset is called after the session is reset.
	OnReset(generation int, duration time.Duration)
}

// NoopObserver ignores every event.
type NoopObserver struct{}

func (NoopObserver) OnBuild(string, int)                            {}
func (NoopObserver) OnCreate(string, string, string, time.Duration) {}
func (NoopObserver) OnError(string, string, error)                  {}
func (NoopObserver) OnReset(int, time.Duration)                     {}

type multiObserver []Observer

func (m multiObserver) OnBuild(typeName string, seq int) {
	for _, o := range m {
		o.OnBuild(typeName, seq)
	}
}

func (m multiObserver) OnCreate(typeName, collection, recordID string, d time.Duration) {
	for _, o := range m {
		o.OnCreate(typeName, collection, recordID, d)
	}
}

func (m multiObserver) OnError(typeName, operation string, err error) {
	for _, o := range m {
		o.OnError(typeName, operation, err)
	}
}

func (m multiObserver) OnReset(generation int, d time.Duration) {
	for _, o := range m {
		o.OnReset(generation, d)
	}
}

// LogObserver writes session events to a slog.Logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (l *LogObserver) OnBuild(typeName string, seq int) {
	l.logger.Debug("record built", "type", typeName, "sequence", seq)
}

func (l *LogObserver) OnCreate(typeName, collection, recordID string, d time.Duration) {
	l.logger.Debug("record created", "type", typeName, "collection", collection, "id", recordID, "duration", d)
}

func (l *LogObserver) OnError(typeName, operation string, err error) {
	l.logger.Warn("factory operation failed", "type", typeName, "operation", operation, "error", err)
}

func (l *LogObserver) OnReset(generation int, d time.Duration) {
	l.logger.Info("session reset", "generation", generation, "duration", d)
}

// MetricsObserver counts session events. All counters are atomic.
type MetricsObserver struct {
	buildCount     atomic.Int64
	createCount    atomic.Int64
	errorCount     atomic.Int64
	resetCount     atomic.Int64
	totalLatencyNs atomic.Int64
}

// NewMetricsObserver creates a new thread-safe metrics observer.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

func (m *MetricsObserver) OnBuild(string, int) {
	m.buildCount.Add(1)
}

func (m *MetricsObserver) OnCreate(_, _, _ string, d time.Duration) {
	m.createCount.Add(1)
	m.totalLatencyNs.Add(int64(d))
}

func (m *MetricsObserver) OnError(string, string, error) {
	m.errorCount.Add(1)
}

func (m *MetricsObserver) OnReset(_ int, d time.Duration) {
	m.resetCount.Add(1)
	m.totalLatencyNs.Add(int64(d))
}

// Snapshot returns a copy of the current counters.
func (m *MetricsObserver) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		BuildCount:   m.buildCount.Load(),
		CreateCount:  m.createCount.Load(),
		ErrorCount:   m.errorCount.Load(),
		ResetCount:   m.resetCount.Load(),
		TotalLatency: time.Duration(m.totalLatencyNs.Load()),
	}
}

// MetricsSnapshot is a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	BuildCount   int64         `json:"buildCount"`
	CreateCount  int64         `json:"createCount"`
	ErrorCount   int64         `json:"errorCount"`
	ResetCount   int64         `json:"resetCount"`
	TotalLatency time.Duration `json:"totalLatencyNs"`
}
