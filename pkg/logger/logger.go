// Package logger builds the zap logger of the application.
package logger

import (
	"errors"
	"fmt"
	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"os"
)

// Default values for logger configuration.
const (
	DefaultLevel      = "info"
	DefaultMaxSize    = 100 // megabytes
	DefaultMaxBackups = 3
	DefaultMaxAge     = 28 // days
)

// ErrInvalidLevel is returned when the level is not a zap level.
var ErrInvalidLevel = errors.New("invalid log level")

// Config defines the configuration of the logger. Logs are written to stdout,
// and also to a rotated file when Filename is set.
type Config struct {
	Level       string `env:"SFU_LOG_LEVEL" env-default:"info"`
	Development bool   `env:"SFU_LOG_DEVELOPMENT" env-default:"false"`
	Filename    string `env:"SFU_LOG_FILE"`
	MaxSize     int    `env:"SFU_LOG_MAX_SIZE" env-default:"100"`
	MaxBackups  int    `env:"SFU_LOG_MAX_BACKUPS" env-default:"3"`
	MaxAge      int    `env:"SFU_LOG_MAX_AGE" env-default:"28"`
}

// Validate validates the level.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("%q: %w", c.Level, ErrInvalidLevel)
	}
	return nil
}

// New creates a new logger. The console encoder is used in development.
func New(c Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", c.Level, ErrInvalidLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var console zapcore.Encoder
	if c.Development {
		devConfig := zap.NewDevelopmentEncoderConfig()
		devConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		devConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		console = zapcore.NewConsoleEncoder(devConfig)
	} else {
		console = zapcore.NewJSONEncoder(encoderConfig)
	}

	cores := []zapcore.Core{zapcore.NewCore(console, zapcore.Lock(os.Stdout), level)}
	if c.Filename != "" {
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.Filename,
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAge,
			LocalTime:  true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), file, level))
	}

	options := []zap.Option{zap.AddCaller()}
	if c.Development {
		options = append(options, zap.Development())
	}
	return zap.New(zapcore.NewTee(cores...), options...), nil
}
