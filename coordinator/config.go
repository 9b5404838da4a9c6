package coordinator

import (
	"errors"
	"fmt"
	"sfu/media"
	"time"
)

// Default values for the coordinator. If the values are not set, these values are used.
const (
	DefaultEngineTimeout = 10 * time.Second
)

// Below is the error list of coordinator configuration.
var (
	ErrInvalidEngineTimeout = errors.New("invalid engine timeout")
	ErrInvalidCodecs        = errors.New("invalid codec configuration")
)

// Config contains the configuration for the coordinator.
type Config struct {
	// EngineTimeout bounds every call into the media engine.
	EngineTimeout time.Duration `env:"SFU_ENGINE_TIMEOUT" env-default:"10s"`

	// Codecs are configured on every router. media.DefaultCodecs is used when empty.
	Codecs []media.Codec
}

// codecs returns the configured codecs or the default table.
func (c Config) codecs() []media.Codec {
	if len(c.Codecs) == 0 {
		return media.DefaultCodecs()
	}
	return c.Codecs
}

// Validate validates the engine timeout and the codec table.
func (c Config) Validate() error {
	if c.EngineTimeout <= 0 {
		return fmt.Errorf("%s: %w", c.EngineTimeout, ErrInvalidEngineTimeout)
	}
	if _, err := media.NewCapabilities(c.codecs()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCodecs, err)
	}
	return nil
}
