// Package app wires configuration, logging, metrics, the obstacle set and the
// layout stream into one runtime.
package app

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/SumeetBatra/quad-swarm-rl/internal/config"
	"github.com/SumeetBatra/quad-swarm-rl/internal/geom"
	"github.com/SumeetBatra/quad-swarm-rl/internal/layout"
	"github.com/SumeetBatra/quad-swarm-rl/internal/obstacles"
	"github.com/SumeetBatra/quad-swarm-rl/internal/telemetry"
	"github.com/SumeetBatra/quad-swarm-rl/internal/viz"
	"github.com/SumeetBatra/quad-swarm-rl/logging"
	loggingSinks "github.com/SumeetBatra/quad-swarm-rl/logging/sinks"
)

// Scenario points used for previews.
var (
	DefaultStartPoint = geom.Vec3{X: -3, Y: -3, Z: 2}
	DefaultEndPoint   = geom.Vec3{X: 3, Y: 3, Z: 2}
	DefaultGoalCenter = geom.Vec3{X: 0, Y: 0, Z: 2}
)

const formationSpacing = 0.5

type Options struct {
	// Logger receives process logs and router fallbacks. Nil builds a zap
	// logger from the console settings.
	Logger *zap.Logger
	// Registry collects prometheus metrics. Nil creates a private registry.
	Registry *prometheus.Registry
	// ExtraSinks are attached to the router next to the configured ones.
	ExtraSinks []logging.NamedSink
}

// Runtime is a wired obstacle set. Layout calls are serialized, so the
// stream loop and viewer requests may share it.
type Runtime struct {
	cfg      config.Config
	logger   *zap.SugaredLogger
	router   *logging.Router
	registry *prometheus.Registry
	counters *telemetry.Counters
	metrics  telemetry.Metrics
	set      *obstacles.Set
	hub      *viz.Hub
	scenario layout.ScenarioKind

	mu sync.Mutex
}

func New(cfg config.Config, opts Options) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		var err error
		if cfg.Logging.Console.Development {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return nil, errors.Wrap(err, "build logger")
		}
	}
	sugar := logger.Sugar()

	scenario, err := layout.ParseScenario(cfg.Scenario)
	if err != nil {
		return nil, err
	}
	setOpts, err := cfg.SetOptions()
	if err != nil {
		return nil, err
	}

	named, err := buildSinks(cfg.Logging)
	if err != nil {
		return nil, err
	}
	named = append(named, opts.ExtraSinks...)
	router, err := logging.NewRouter(cfg.Logging, logging.SystemClock{}, sugar, named)
	if err != nil {
		return nil, errors.Wrap(err, "construct logging router")
	}

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	counters := &telemetry.Counters{}
	metrics := telemetry.Multi(counters, telemetry.NewPrometheus(cfg.Metrics.Namespace, nil, registry, func(err error) {
		sugar.Warnw("metric registration failed", "error", err)
	}))

	set, err := obstacles.New(setOpts, obstacles.Deps{
		Publisher: router,
		Metrics:   metrics,
		Room:      cfg.StaticRoom(),
	})
	if err != nil {
		router.Close(context.Background())
		return nil, errors.Wrap(err, "construct obstacle set")
	}

	return &Runtime{
		cfg:      cfg,
		logger:   sugar,
		router:   router,
		registry: registry,
		counters: counters,
		metrics:  metrics,
		set:      set,
		hub:      viz.NewHub(telemetry.WrapLogger(sugar), metrics),
		scenario: scenario,
	}, nil
}

func buildSinks(cfg logging.Config) ([]logging.NamedSink, error) {
	named := make([]logging.NamedSink, 0, len(cfg.EnabledSinks))
	for _, name := range cfg.EnabledSinks {
		switch name {
		case "console":
			console, err := loggingSinks.NewConsole(cfg.Console)
			if err != nil {
				return nil, errors.Wrap(err, "console sink")
			}
			named = append(named, logging.NamedSink{Name: name, Sink: console})
		case "json":
			named = append(named, logging.NamedSink{Name: name, Sink: loggingSinks.NewJSONFromConfig(cfg.JSON)})
		case "memory":
			named = append(named, logging.NamedSink{Name: name, Sink: loggingSinks.NewMemory()})
		default:
			return nil, errors.Errorf("unknown logging sink %q", name)
		}
	}
	return named, nil
}

func (rt *Runtime) Config() config.Config          { return rt.cfg }
func (rt *Runtime) Set() *obstacles.Set            { return rt.set }
func (rt *Runtime) Hub() *viz.Hub                  { return rt.hub }
func (rt *Runtime) Router() *logging.Router        { return rt.router }
func (rt *Runtime) Registry() *prometheus.Registry { return rt.registry }
func (rt *Runtime) Logger() *zap.SugaredLogger     { return rt.logger }

// Counters exposes the in-process copy of every metric.
func (rt *Runtime) Counters() map[string]uint64 { return rt.counters.Snapshot() }

// Preview resets the set at level with agents lined up at the start point
// and returns the new layout.
func (rt *Runtime) Preview(ctx context.Context, level int) (obstacles.Snapshot, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	req := rt.previewRequest(level)
	if _, err := rt.set.Reset(ctx, req); err != nil {
		return obstacles.Snapshot{}, err
	}
	return rt.set.Snapshot(), nil
}

// Resample previews a layout at the configured level.
func (rt *Runtime) Resample(ctx context.Context) (obstacles.Snapshot, error) {
	return rt.Preview(ctx, rt.cfg.Level)
}

func (rt *Runtime) previewRequest(level int) obstacles.ResetRequest {
	n := rt.cfg.Agents
	obs := make([][]float64, n)
	pos := make([]geom.Vec3, n)
	vel := make([]geom.Vec3, n)
	for i := range pos {
		offset := formationSpacing * (float64(i) - 0.5*float64(n-1))
		pos[i] = DefaultStartPoint.Add(geom.Vec3{X: offset})
		obs[i] = pos[i].Slice()
	}
	active := make([]bool, rt.set.Count())
	for i := range active {
		active[i] = true
	}
	req := obstacles.ResetRequest{
		Obs:           obs,
		AgentsPos:     pos,
		AgentsVel:     vel,
		Active:        active,
		FormationSize: formationSpacing,
		GoalCenter:    DefaultGoalCenter,
		Level:         level,
		Scenario:      rt.scenario,
		StartPoint:    DefaultStartPoint,
		EndPoint:      DefaultEndPoint,
	}
	if rt.scenario == layout.ScenarioGoalCenters {
		req.StartPoints = []geom.Vec3{DefaultStartPoint, DefaultEndPoint}
	}
	return req
}

// Close flushes the logging router.
func (rt *Runtime) Close(ctx context.Context) error {
	err := rt.router.Close(ctx)
	_ = rt.logger.Sync()
	return err
}
