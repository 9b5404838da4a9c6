package metric_test

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"io"
	"net/http/httptest"
	"sfu/metric"
	"testing"
	"time"
)

func scrape(t *testing.T, m *metric.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics(t *testing.T) {
	t.Run("given two instances when created then registries do not collide", func(t *testing.T) {
		assert.NotPanics(t, func() {
			metric.New(metric.Config{}, zap.NewNop())
			metric.New(metric.Config{}, zap.NewNop())
		})
	})

	t.Run("given updates when scraped then gauges and counters are exposed", func(t *testing.T) {
		m := metric.New(metric.Config{}, zap.NewNop())
		m.AddRooms(2)
		m.AddRooms(-1)
		m.AddPeers(3)
		m.CountRequest("join-room", "OK")
		m.ObserveEngineCall("create_router", time.Now())

		body := scrape(t, m)
		assert.Contains(t, body, "sfu_rooms 1")
		assert.Contains(t, body, "sfu_peers 3")
		assert.Contains(t, body, `sfu_signaling_requests_total{code="OK",type="join-room"} 1`)
		assert.Contains(t, body, `sfu_engine_call_seconds_count{operation="create_router"} 1`)
	})
}

func TestServer(t *testing.T) {
	t.Run("given running server when stopped then start returns without error", func(t *testing.T) {
		m := metric.New(metric.Config{Port: 0, Path: "/metrics"}, zap.NewNop())
		done := make(chan error, 1)
		go func() {
			done <- m.Start()
		}()
		time.Sleep(20 * time.Millisecond)
		require.NoError(t, m.Stop(context.Background()))

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			require.FailNow(t, "server did not stop")
		}
	})

	t.Run("given system sampler when context is done then it returns", func(t *testing.T) {
		m := metric.New(metric.Config{Interval: 10 * time.Millisecond}, zap.NewNop())
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		assert.NoError(t, m.UpdateSystemMetrics(ctx))
		assert.Contains(t, scrape(t, m), "memory_usage_bytes")
	})
}

func TestConfig(t *testing.T) {
	tests := []struct {
		name   string
		config metric.Config
		err    error
	}{
		{"given default config then valid", metric.Config{Port: 9090, Path: "/metrics", Interval: time.Second}, nil},
		{"given port out of range then invalid port", metric.Config{Port: 0, Path: "/metrics", Interval: time.Second}, metric.ErrInvalidPort},
		{"given relative path then invalid path", metric.Config{Port: 9090, Path: "metrics", Interval: time.Second}, metric.ErrInvalidPath},
		{"given zero interval then invalid interval", metric.Config{Port: 9090, Path: "/metrics"}, metric.ErrInvalidInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.config.Validate(), tt.err)
		})
	}
}
