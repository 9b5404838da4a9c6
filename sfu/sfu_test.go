package sfu_test

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"sfu/coordinator"
	"sfu/media"
	"sfu/metric"
	"sfu/pkg/logger"
	"sfu/sfu"
	"sfu/signal"
	"testing"
	"time"
)

func validConfig() sfu.Config {
	return sfu.Config{
		Signal: signal.Config{
			Port:              signal.DefaultPort,
			RequestTimeout:    signal.DefaultRequestTimeout,
			MessagesPerSecond: signal.DefaultMessagesPerSecond,
			Burst:             signal.DefaultBurst,
			MaxMessageSize:    signal.DefaultMaxMessageSize,
		},
		Coordinator: coordinator.Config{EngineTimeout: coordinator.DefaultEngineTimeout},
		Media:       media.Config{MinUDPPort: media.DefaultMinUDPPort, MaxUDPPort: media.DefaultMaxUDPPort},
		Metrics: metric.Config{
			Port:     metric.DefaultMetricsPort,
			Path:     metric.DefaultMetricsPath,
			Interval: metric.DefaultMetricsInterval,
		},
		Logger:    logger.Config{Level: logger.DefaultLevel},
		QueueSize: 64,
	}
}

func TestConfig(t *testing.T) {
	t.Run("given valid config when validated then return nil", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("given invalid component when validated then return its error", func(t *testing.T) {
		c := validConfig()
		c.Media.MinUDPPort, c.Media.MaxUDPPort = 50000, 40000
		assert.ErrorIs(t, c.Validate(), media.ErrInvalidPortRange)

		c = validConfig()
		c.Logger.Level = "loud"
		assert.ErrorIs(t, c.Validate(), logger.ErrInvalidLevel)

		c = validConfig()
		c.QueueSize = 0
		assert.ErrorIs(t, c.Validate(), sfu.ErrInvalidQueueSize)
	})
}

func TestStart(t *testing.T) {
	t.Run("given running sfu when context is cancelled then return without error", func(t *testing.T) {
		c := validConfig()
		c.Signal.Port = 0
		c.Metrics.Port = 0
		s := sfu.New(c, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- s.Start(ctx)
		}()
		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			require.FailNow(t, "sfu did not stop")
		}
	})
}
