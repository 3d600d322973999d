package telemetry

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus registers a counter per Add key and a gauge per Store key on
// first use.
type Prometheus struct {
	mu         sync.Mutex
	namespace  string
	constLabel prometheus.Labels
	registerer prometheus.Registerer
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	onError    func(error)
}

// NewPrometheus builds an adapter. A nil registerer uses the default one.
// Registration failures are reported to onError, which may be nil.
func NewPrometheus(namespace string, constLabels map[string]string, registerer prometheus.Registerer, onError func(error)) *Prometheus {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &Prometheus{
		namespace:  namespace,
		constLabel: constLabels,
		registerer: registerer,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		onError:    onError,
	}
}

func (p *Prometheus) Add(key string, delta uint64) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	counter, ok := p.counters[key]
	if !ok {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   p.namespace,
			Name:        metricName(key),
			Help:        "obstacle core counter " + key,
			ConstLabels: p.constLabel,
		})
		counter = p.register(c).(prometheus.Counter)
		p.counters[key] = counter
	}
	counter.Add(float64(delta))
}

func (p *Prometheus) Store(key string, value uint64) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	gauge, ok := p.gauges[key]
	if !ok {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   p.namespace,
			Name:        metricName(key),
			Help:        "obstacle core gauge " + key,
			ConstLabels: p.constLabel,
		})
		gauge = p.register(g).(prometheus.Gauge)
		p.gauges[key] = gauge
	}
	gauge.Set(float64(value))
}

// register returns the collector to use, reusing one already registered
// under the same descriptor.
func (p *Prometheus) register(c prometheus.Collector) prometheus.Collector {
	if err := p.registerer.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector
		}
		p.onError(errors.Wrap(err, "register metric"))
	}
	return c
}

func metricName(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}
