package telemetry

import (
	"sync"

	"go.uber.org/zap"
)

// Metric keys published by the obstacle set.
const (
	KeyResets          = "obstacles_resets_total"
	KeySteps           = "obstacles_steps_total"
	KeyCollisions      = "obstacles_collisions_total"
	KeyClearanceMisses = "obstacles_clearance_misses_total"
	KeyOverlapMisses   = "obstacles_overlap_misses_total"
	KeyObstacleCount   = "obstacles_count"
)

// Metric keys published by the layout stream.
const (
	KeyVizSubscribers = "viz_subscribers"
	KeyVizBytes       = "viz_broadcast_bytes_total"
)

// Logger exposes the logging capabilities required by arena components.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts functions into the Logger interface.
type LoggerFunc func(format string, args ...any)

// Printf implements Logger for LoggerFunc.
func (f LoggerFunc) Printf(format string, args ...any) {
	if f == nil {
		return
	}
	f(format, args...)
}

// WrapLogger adapts a zap sugared logger to the Logger interface.
func WrapLogger(logger *zap.SugaredLogger) Logger {
	return &loggerAdapter{logger: logger}
}

type loggerAdapter struct {
	logger *zap.SugaredLogger
}

func (l *loggerAdapter) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Infof(format, args...)
}

// Metrics exposes the telemetry methods required by arena components.
// Add accumulates counters; Store overwrites gauges.
type Metrics interface {
	Add(key string, delta uint64)
	Store(key string, value uint64)
}

type nopMetrics struct{}

func (nopMetrics) Add(string, uint64)   {}
func (nopMetrics) Store(string, uint64) {}

// NopMetrics discards every sample.
func NopMetrics() Metrics {
	return nopMetrics{}
}

// Counters is an in-process Metrics implementation.
type Counters struct {
	mu     sync.Mutex
	values map[string]uint64
}

func (c *Counters) Add(key string, delta uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]uint64)
	}
	c.values[key] += delta
}

func (c *Counters) Store(key string, value uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]uint64)
	}
	c.values[key] = value
}

// Snapshot copies the current values.
func (c *Counters) Snapshot() map[string]uint64 {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]uint64, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

type multiMetrics []Metrics

func (m multiMetrics) Add(key string, delta uint64) {
	for _, sink := range m {
		sink.Add(key, delta)
	}
}

func (m multiMetrics) Store(key string, value uint64) {
	for _, sink := range m {
		sink.Store(key, value)
	}
}

// Multi fans samples out to every non-nil sink.
func Multi(sinks ...Metrics) Metrics {
	out := make(multiMetrics, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			out = append(out, sink)
		}
	}
	if len(out) == 0 {
		return NopMetrics()
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}
