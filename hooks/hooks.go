// Package hooks provides production-ready Hook and Logger implementations.
package hooks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Skryldev/image-acquire/core"
)

// ── Structured logger adapter ─────────────────────────────────────────────────

// SlogLogger wraps the standard library slog.Logger to satisfy core.Logger.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger creates a logger backed by slog.
func NewSlogLogger(l *slog.Logger) *SlogLogger { return &SlogLogger{log: l} }

func (s *SlogLogger) Debug(msg string, fields ...interface{}) {
	s.log.Debug(msg, fields...)
}
func (s *SlogLogger) Info(msg string, fields ...interface{}) {
	s.log.Info(msg, fields...)
}
func (s *SlogLogger) Warn(msg string, fields ...interface{}) {
	s.log.Warn(msg, fields...)
}
func (s *SlogLogger) Error(msg string, fields ...interface{}) {
	s.log.Error(msg, fields...)
}

// ── Logging hook ──────────────────────────────────────────────────────────────

// LoggingHook logs before/after each router stage.
type LoggingHook struct {
	logger core.Logger
}

// NewLoggingHook creates a LoggingHook.
func NewLoggingHook(l core.Logger) *LoggingHook { return &LoggingHook{logger: l} }

func (h *LoggingHook) BeforeStage(_ context.Context, stage string, token core.PendingToken) {
	h.logger.Debug("acquire.stage.start",
		"stage", stage,
		"token", uint64(token),
	)
}

func (h *LoggingHook) AfterStage(_ context.Context, stage string, token core.PendingToken, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("acquire.stage.error",
			"stage", stage,
			"token", uint64(token),
			"duration_ms", d.Milliseconds(),
			"error", err.Error(),
		)
		return
	}
	h.logger.Debug("acquire.stage.done",
		"stage", stage,
		"token", uint64(token),
		"duration_ms", d.Milliseconds(),
	)
}

// ── In-memory stage metrics ───────────────────────────────────────────────────

// StageMetrics accumulates per-stage observations; safe for concurrent use.
// It implements core.Hook and can be attached directly to a Router.
type StageMetrics struct {
	mu sync.RWMutex

	stageDurationsMs map[string]int64 // cumulative ms per stage
	stageCalls       map[string]int64 // call count per stage
	stageErrors      map[string]int64
}

// NewStageMetrics creates an empty metrics store.
func NewStageMetrics() *StageMetrics {
	return &StageMetrics{
		stageDurationsMs: make(map[string]int64),
		stageCalls:       make(map[string]int64),
		stageErrors:      make(map[string]int64),
	}
}

func (m *StageMetrics) BeforeStage(_ context.Context, _ string, _ core.PendingToken) {}

func (m *StageMetrics) AfterStage(_ context.Context, stage string, _ core.PendingToken, d time.Duration, err error) {
	m.mu.Lock()
	m.stageDurationsMs[stage] += d.Milliseconds()
	m.stageCalls[stage]++
	if err != nil {
		m.stageErrors[stage]++
	}
	m.mu.Unlock()
}

// Snapshot returns a copy of current metrics.
func (m *StageMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		StageDurationsMs: make(map[string]int64, len(m.stageDurationsMs)),
		StageCalls:       make(map[string]int64, len(m.stageCalls)),
		StageErrors:      make(map[string]int64, len(m.stageErrors)),
	}
	for k, v := range m.stageDurationsMs {
		snap.StageDurationsMs[k] = v
	}
	for k, v := range m.stageCalls {
		snap.StageCalls[k] = v
	}
	for k, v := range m.stageErrors {
		snap.StageErrors[k] = v
	}
	return snap
}

// MetricsSnapshot is an immutable point-in-time copy of metrics.
type MetricsSnapshot struct {
	StageDurationsMs map[string]int64
	StageCalls       map[string]int64
	StageErrors      map[string]int64
}
