package sfu

import (
	"context"
	"fmt"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"sfu/broker"
	"sfu/coordinator"
	"sfu/database/memory"
	"sfu/media"
	"sfu/metric"
	"sfu/signal"
	"time"
)

// shutdownTimeout bounds the graceful shutdown of the servers.
const shutdownTimeout = 5 * time.Second

// SFU contains servers and configuration.
type SFU struct {
	logger      *zap.Logger
	media       *media.Media
	coordinator *coordinator.Coordinator
	signal      *signal.Signal
	metric      *metric.Metrics
}

// New creates a new instance of SFU.
func New(config Config, logger *zap.Logger) *SFU {
	brk := broker.New(config.queueSize())
	db := memory.New()
	met := metric.New(config.Metrics, logger)
	med := media.New(config.Media, logger)
	cod := coordinator.New(config.Coordinator, logger, med, brk, db, met)
	sig := signal.New(config.Signal, cod, met, logger)

	return &SFU{
		logger:      logger,
		media:       med,
		coordinator: cod,
		signal:      sig,
		metric:      met,
	}
}

// Start runs the signal server, the metrics server and the system metrics
// sampler until the context is done or one of them fails. It fails with
// coordinator.ErrEngineFatal when the media engine failed.
func (s *SFU) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(s.signal.Start)
	g.Go(s.metric.Start)
	g.Go(func() error {
		return s.metric.UpdateSystemMetrics(ctx)
	})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case <-s.coordinator.Fatal():
			return fmt.Errorf("stopping sfu: %w", coordinator.ErrEngineFatal)
		}
	})
	g.Go(func() error {
		<-ctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

// shutdown stops the servers and closes the media engine.
func (s *SFU) shutdown() error {
	s.logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return multierr.Combine(
		s.signal.Shutdown(ctx),
		s.metric.Stop(ctx),
		s.media.Close(),
	)
}
