// Package sfu is the session coordination layer of a selective forwarding unit.
package sfu

import (
	"errors"
	"fmt"
	"sfu/broker/subscription"
	"sfu/coordinator"
	"sfu/media"
	"sfu/metric"
	"sfu/pkg/logger"
	"sfu/signal"
)

// ErrInvalidQueueSize is returned when the notification queue size is not positive.
var ErrInvalidQueueSize = errors.New("invalid notification queue size")

// Config contains the configuration for the SFU.
type Config struct {
	Signal      signal.Config
	Coordinator coordinator.Config
	Media       media.Config
	Metrics     metric.Config
	Logger      logger.Config

	// QueueSize is the number of notifications queued per peer before they are dropped.
	QueueSize int `env:"SFU_NOTIFICATION_QUEUE_SIZE" env-default:"64"`
}

// Validate validates the configuration of every component.
func (c Config) Validate() error {
	if err := c.Signal.Validate(); err != nil {
		return fmt.Errorf("signal: %w", err)
	}
	if err := c.Coordinator.Validate(); err != nil {
		return fmt.Errorf("coordinator: %w", err)
	}
	if err := c.Media.Validate(); err != nil {
		return fmt.Errorf("media: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%d: %w", c.QueueSize, ErrInvalidQueueSize)
	}
	return nil
}

func (c Config) queueSize() int {
	if c.QueueSize <= 0 {
		return subscription.DefaultCapacity
	}
	return c.QueueSize
}
