package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SumeetBatra/quad-swarm-rl/internal/config"
	"github.com/SumeetBatra/quad-swarm-rl/internal/obstacles"
	"github.com/SumeetBatra/quad-swarm-rl/internal/telemetry"
	"github.com/SumeetBatra/quad-swarm-rl/logging"
	obstaclelog "github.com/SumeetBatra/quad-swarm-rl/logging/obstacles"
	loggingSinks "github.com/SumeetBatra/quad-swarm-rl/logging/sinks"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Count = 6
	cfg.Logging.EnabledSinks = []string{"memory"}
	return cfg
}

func newRuntime(t *testing.T, cfg config.Config) (*Runtime, *loggingSinks.Memory) {
	t.Helper()
	memory := loggingSinks.NewMemory()
	rt, err := New(cfg, Options{
		Logger:     zap.NewNop(),
		ExtraSinks: []logging.NamedSink{{Name: "capture", Sink: memory}},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		rt.Close(ctx)
	})
	return rt, memory
}

func TestPreviewLevels(t *testing.T) {
	rt, _ := newRuntime(t, testConfig())

	below, err := rt.Preview(context.Background(), -1)
	require.NoError(t, err)
	require.Len(t, below.Obstacles, 6)
	for _, o := range below.Obstacles {
		assert.Less(t, o.Position.Z, 0.0)
	}

	above, err := rt.Preview(context.Background(), 5)
	require.NoError(t, err)
	for _, o := range above.Obstacles {
		assert.GreaterOrEqual(t, o.Position.Z, 0.0)
	}
	assert.Equal(t, uint64(2), above.Episode)
	assert.Equal(t, uint64(2), rt.Counters()[telemetry.KeyResets])
}

func TestPreviewPublishesThroughRouter(t *testing.T) {
	rt, memory := newRuntime(t, testConfig())
	_, err := rt.Preview(context.Background(), 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rt.Router().Close(ctx))

	var types []logging.EventType
	for _, event := range memory.Events() {
		types = append(types, event.Type)
	}
	assert.Contains(t, types, obstaclelog.EventLayoutGenerated)
}

func TestNewRejectsBadConfiguration(t *testing.T) {
	cfg := testConfig()
	cfg.NeighborCount = 7
	_, err := New(cfg, Options{Logger: zap.NewNop()})
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Logging.EnabledSinks = []string{"carrier-pigeon"}
	_, err = New(cfg, Options{Logger: zap.NewNop()})
	assert.Error(t, err)
}

func TestHandlerRoutes(t *testing.T) {
	rt, _ := newRuntime(t, testConfig())
	_, err := rt.Preview(context.Background(), 2)
	require.NoError(t, err)

	srv := httptest.NewServer(rt.Handler())
	t.Cleanup(srv.Close)

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	status, body := get("/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)

	status, body = get("/layout")
	assert.Equal(t, http.StatusOK, status)
	var snap obstacles.Snapshot
	require.NoError(t, json.Unmarshal([]byte(body), &snap))
	assert.Len(t, snap.Obstacles, 6)
	assert.Equal(t, obstacles.ModeStaticPillar, snap.Mode)

	status, body = get("/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, strings.Contains(body, "arena_obstacles_resets_total"), body)
}

func TestStreamStopsWithContext(t *testing.T) {
	rt, _ := newRuntime(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, rt.Stream(ctx, time.Millisecond))
	assert.Equal(t, uint64(1), rt.Counters()[telemetry.KeyResets])

	assert.Error(t, rt.Stream(context.Background(), 0))
}

func TestServeShutsDownWithContext(t *testing.T) {
	rt, _ := newRuntime(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rt.Serve(ctx, "127.0.0.1:0") }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
