package app

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SumeetBatra/quad-swarm-rl/internal/telemetry"
	"github.com/SumeetBatra/quad-swarm-rl/internal/viz"
)

const shutdownTimeout = 5 * time.Second

// Handler serves health, the current layout, the layout stream and metrics.
func (rt *Runtime) Handler() nethttp.Handler {
	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/layout", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		rt.mu.Lock()
		snap := rt.set.Snapshot()
		rt.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			rt.logger.Warnw("failed to encode layout", "error", err)
		}
	})

	ws := viz.NewHandler(rt.hub, viz.HandlerConfig{
		Logger:   telemetry.WrapLogger(rt.logger),
		Resample: rt.Resample,
	})
	mux.HandleFunc("/ws", ws.Handle)

	mux.Handle("/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))
	return mux
}

// Stream resamples and broadcasts a layout every interval until ctx ends.
func (rt *Runtime) Stream(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errors.Errorf("stream interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		snap, err := rt.Resample(ctx)
		if err != nil {
			return err
		}
		if err := rt.hub.Broadcast(snap); err != nil {
			rt.logger.Warnw("layout broadcast failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Serve runs the HTTP handler on addr until ctx ends.
func (rt *Runtime) Serve(ctx context.Context, addr string) error {
	srv := &nethttp.Server{Addr: addr, Handler: rt.Handler()}
	errs := make(chan error, 1)
	go func() {
		rt.logger.Infow("layout server listening", "addr", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "layout server failed")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
