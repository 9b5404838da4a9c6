package metric

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Default values for metrics configuration.
const (
	DefaultMetricsPort     = 9090
	DefaultMetricsPath     = "/metrics"
	DefaultMetricsInterval = 5 * time.Second
)

// Below is the error list of metrics configuration.
var (
	ErrInvalidPort     = errors.New("invalid metrics port")
	ErrInvalidPath     = errors.New("invalid metrics path")
	ErrInvalidInterval = errors.New("invalid metrics interval")
)

// Config defines the configuration for the metrics server.
type Config struct {
	Port     int           `env:"SFU_METRICS_PORT" env-default:"9090"`     // Port for metrics server
	Path     string        `env:"SFU_METRICS_PATH" env-default:"/metrics"` // Path for metrics endpoint
	Interval time.Duration `env:"SFU_METRICS_INTERVAL" env-default:"5s"`   // Interval of system metrics sampling
}

// Validate validates the port, the path and the sampling interval.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("must be between 1 and 65535, given %d: %w", c.Port, ErrInvalidPort)
	}
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("%q: %w", c.Path, ErrInvalidPath)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%s: %w", c.Interval, ErrInvalidInterval)
	}
	return nil
}
