// Package signal serves the control API and the signaling websocket.
package signal

import (
	"errors"
	"fmt"
	"os"
	"sfu/pkg/socket"
	"sfu/signal/controller"
	"time"
)

// Default values for the signal server.
const (
	// DefaultPort is the default port number for the server.
	DefaultPort = 7070

	DefaultRequestTimeout    = 15 * time.Second
	DefaultMessagesPerSecond = 50
	DefaultBurst             = 100
	DefaultMaxMessageSize    = socket.DefaultMaxMessageSize
)

// Below is the Error message for the server.
var (
	ErrInvalidPort           = errors.New("invalid port")
	ErrInvalidCertFile       = errors.New("invalid cert file")
	ErrInvalidKeyFile        = errors.New("invalid key file")
	ErrInvalidRequestTimeout = errors.New("invalid request timeout")
	ErrInvalidRateLimit      = errors.New("invalid rate limit")
	ErrInvalidMessageSize    = errors.New("invalid message size")
)

// Config is the configuration for creating a Server instance.
type Config struct {
	Port     int    `env:"SFU_PORT" env-default:"7070"`
	Debug    bool   `env:"SFU_DEBUG" env-default:"false"`
	CertFile string `env:"SFU_CERT_FILE"`
	KeyFile  string `env:"SFU_KEY_FILE"`

	RequestTimeout    time.Duration `env:"SFU_REQUEST_TIMEOUT" env-default:"15s"`
	MessagesPerSecond float64       `env:"SFU_MESSAGES_PER_SECOND" env-default:"50"`
	Burst             int           `env:"SFU_BURST" env-default:"100"`
	MaxMessageSize    int64         `env:"SFU_MAX_MESSAGE_SIZE" env-default:"65536"`
}

// IsSame checks if the given config is the same as the current one.
func (c Config) IsSame(config Config) bool {
	return c.Port == config.Port && c.CertFile == config.CertFile && c.KeyFile == config.KeyFile
}

// Options returns the options of the controllers.
func (c Config) Options() controller.Options {
	return controller.Options{
		Debug:             c.Debug,
		RequestTimeout:    c.RequestTimeout,
		MessagesPerSecond: c.MessagesPerSecond,
		Burst:             c.Burst,
		Socket:            socket.Options{MaxMessageSize: c.MaxMessageSize},
	}
}

// Validate validates the port number, the limits and the files for certification.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("must be between 1 and 65535, given %d: %w", c.Port, ErrInvalidPort)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%s: %w", c.RequestTimeout, ErrInvalidRequestTimeout)
	}
	if c.MessagesPerSecond < 0 || c.Burst < 0 || (c.MessagesPerSecond > 0 && c.Burst == 0) {
		return fmt.Errorf("%v per second with burst %d: %w", c.MessagesPerSecond, c.Burst, ErrInvalidRateLimit)
	}
	if c.MaxMessageSize <= 0 {
		return fmt.Errorf("%d: %w", c.MaxMessageSize, ErrInvalidMessageSize)
	}

	if c.CertFile == "" && c.KeyFile == "" {
		return nil
	}

	if _, err := os.Stat(c.CertFile); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s does not exist: %w", c.CertFile, ErrInvalidCertFile)
		}
		return fmt.Errorf("unable to access %s: %w", c.CertFile, ErrInvalidCertFile)
	}

	if _, err := os.Stat(c.KeyFile); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s does not exist: %w", c.KeyFile, ErrInvalidKeyFile)
		}
		return fmt.Errorf("unable to access %s: %w", c.KeyFile, ErrInvalidKeyFile)
	}

	return nil
}
