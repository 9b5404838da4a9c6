// Package cmd parse args to configure application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"io"
	"os"
	"os/signal"
	"sfu/pkg/logger"
	"sfu/sfu"
	"syscall"
)

// envFile is loaded into the environment when it exists.
const envFile = ".env"

// Run starts the application and exits when it stops.
func Run() {
	os.Exit(run(os.Stdout, os.Args[1:]))
}

func run(w io.Writer, args []string) int {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		_, _ = fmt.Fprintf(w, "failed to load %s: %v\n", envFile, err)
		return 1
	}

	config, err := SetupConfig(w, args)
	if err != nil {
		_, _ = fmt.Fprintln(w, err)
		return 1
	}

	log, err := logger.New(config.Logger)
	if err != nil {
		_, _ = fmt.Fprintln(w, err)
		return 1
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sfu.New(config, log).Start(ctx); err != nil {
		log.Error("sfu stopped", zap.Error(err))
		return 1
	}
	return 0
}

// SetupConfig sets up and returns the configuration.
func SetupConfig(w io.Writer, args []string) (sfu.Config, error) {
	config, err := Parse(w, args)
	if err != nil {
		return config, err
	}
	if err = config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Parse reads the configuration from the environment and overrides it with
// the command line arguments.
func Parse(w io.Writer, args []string) (sfu.Config, error) {
	con := sfu.Config{}
	if err := cleanenv.ReadEnv(&con); err != nil {
		return sfu.Config{}, fmt.Errorf("failed to read environment: %w", err)
	}

	fs := flag.NewFlagSet("sfu", flag.ContinueOnError)
	fs.SetOutput(w)
	fs.IntVar(&con.Signal.Port, "port", con.Signal.Port, "listening port")
	fs.BoolVar(&con.Signal.Debug, "debug", con.Signal.Debug, "debug mode")
	fs.StringVar(&con.Signal.KeyFile, "key", con.Signal.KeyFile, "key file path")
	fs.StringVar(&con.Signal.CertFile, "cert", con.Signal.CertFile, "cert file path")
	fs.DurationVar(&con.Signal.RequestTimeout, "request-timeout", con.Signal.RequestTimeout, "timeout of a signaling request")
	fs.DurationVar(&con.Coordinator.EngineTimeout, "engine-timeout", con.Coordinator.EngineTimeout, "timeout of a media engine call")
	fs.StringVar(&con.Media.IP, "announced-ip", con.Media.IP, "public ip announced in ice candidates")
	fs.IntVar(&con.Media.MinUDPPort, "rtc-min-port", con.Media.MinUDPPort, "minimum UDP port for WebRTC")
	fs.IntVar(&con.Media.MaxUDPPort, "rtc-max-port", con.Media.MaxUDPPort, "maximum UDP port for WebRTC")
	fs.IntVar(&con.Metrics.Port, "metrics-port", con.Metrics.Port, "metrics listening port")
	fs.StringVar(&con.Logger.Level, "log-level", con.Logger.Level, "log level")
	fs.StringVar(&con.Logger.Filename, "log-file", con.Logger.Filename, "log file path, rotated")

	err := fs.Parse(args)
	if err != nil {
		return sfu.Config{}, fmt.Errorf("failed to parse args: %w", err)
	}

	if fs.NArg() != 0 {
		return sfu.Config{}, errors.New("some args are not parsed")
	}

	return con, nil
}
