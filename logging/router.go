package logging

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads wall time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type Sink interface {
	Write(Event) error
	Close(context.Context) error
}

type NamedSink struct {
	Name string
	Sink Sink
}

// sinkFailureLimit is the number of consecutive write errors after which a
// sink stops receiving events.
const sinkFailureLimit = 8

// Router stamps, filters and decorates published events, then hands each one
// to every sink on that sink's own goroutine. Publish never blocks; a full
// lane discards the event and counts it.
type Router struct {
	clock       Clock
	log         *zap.SugaredLogger
	minSeverity Severity
	fields      map[string]any
	warnEvery   time.Duration

	mu     sync.RWMutex
	closed bool
	lanes  []*lane
	group  errgroup.Group

	accepted atomic.Uint64
	dropped  atomic.Uint64
	lastWarn atomic.Int64
}

type RouterStats struct {
	EventsTotal  uint64
	DroppedTotal uint64
}

func NewRouter(cfg Config, clock Clock, fallback *zap.SugaredLogger, namedSinks []NamedSink) (*Router, error) {
	if clock == nil {
		clock = SystemClock{}
	}
	if fallback == nil {
		fallback = zap.NewNop().Sugar()
	}
	depth := cfg.BufferSize
	if depth <= 0 {
		depth = DefaultConfig().BufferSize
	}
	warnEvery := cfg.DropWarnInterval
	if warnEvery <= 0 {
		warnEvery = DefaultConfig().DropWarnInterval
	}

	r := &Router{
		clock:       clock,
		log:         fallback.Named("logging"),
		minSeverity: ParseSeverity(cfg.MinimumSeverity),
		fields:      cfg.CloneFields(),
		warnEvery:   warnEvery,
	}
	for _, named := range namedSinks {
		if named.Sink == nil {
			continue
		}
		l := &lane{name: named.Name, sink: named.Sink, events: make(chan Event, depth), log: r.log}
		r.lanes = append(r.lanes, l)
		r.group.Go(l.drain)
	}
	return r, nil
}

func (r *Router) Publish(_ context.Context, event Event) {
	if event.Type == "" || event.Severity < r.minSeverity {
		return
	}
	if event.Time.IsZero() {
		event.Time = r.clock.Now()
	}
	event = withFields(event, r.fields)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	r.accepted.Add(1)
	for _, l := range r.lanes {
		if !l.offer(event) {
			r.dropped.Add(1)
			r.warnDrop(l.name, event)
		}
	}
}

// warnDrop logs at most one drop per warn interval.
func (r *Router) warnDrop(sink string, event Event) {
	now := r.clock.Now().UnixNano()
	last := r.lastWarn.Load()
	if last != 0 && now-last < r.warnEvery.Nanoseconds() {
		return
	}
	if r.lastWarn.CompareAndSwap(last, now) {
		r.log.Warnw("dropping event", "sink", sink, "type", event.Type, "tick", event.Tick)
	}
}

// Close stops accepting events, waits for every lane to drain and closes the
// sinks. The first sink error is returned.
func (r *Router) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	for _, l := range r.lanes {
		close(l.events)
	}
	r.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		_ = r.group.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		return ctx.Err()
	}

	var firstErr error
	for _, l := range r.lanes {
		if err := l.sink.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Router) Stats() RouterStats {
	return RouterStats{EventsTotal: r.accepted.Load(), DroppedTotal: r.dropped.Load()}
}

// Sink returns the sink registered under name, or nil.
func (r *Router) Sink(name string) Sink {
	for _, l := range r.lanes {
		if l.name == name {
			return l.sink
		}
	}
	return nil
}

// lane is the queue and writer goroutine of one sink.
type lane struct {
	name     string
	sink     Sink
	events   chan Event
	log      *zap.SugaredLogger
	failures int
}

func (l *lane) offer(event Event) bool {
	select {
	case l.events <- Clone(event):
		return true
	default:
		return false
	}
}

func (l *lane) drain() error {
	for event := range l.events {
		if l.failures >= sinkFailureLimit {
			continue
		}
		if err := l.sink.Write(event); err != nil {
			l.failures++
			l.log.Errorw("sink write failed", "sink", l.name, "error", err, "failures", l.failures)
			if l.failures == sinkFailureLimit {
				l.log.Errorw("disabling sink", "sink", l.name)
			}
			continue
		}
		l.failures = 0
	}
	return nil
}
