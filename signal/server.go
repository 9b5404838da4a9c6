package signal

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"net/http"
	"sfu/metric"
	"sfu/signal/controller"
	"sfu/signal/middleware"
	"time"
)

const (
	websocketPath     = "/ws"
	readHeaderTimeout = 5 * time.Second
)

// Signal contains the server and configuration.
type Signal struct {
	server *http.Server
	conf   Config
	logger *zap.Logger
}

// New creates a new instance of Signal serving the control API and the
// signaling websocket of the coordinator.
func New(config Config, coordinator controller.Coordinator, m *metric.Metrics, logger *zap.Logger) *Signal {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	options := config.Options()
	controller.NewHandler(coordinator, logger, options).Register(engine)
	engine.GET(websocketPath, gin.WrapH(controller.New(coordinator, m, logger, options)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		ReadHeaderTimeout: readHeaderTimeout,
		Handler:           middleware.Set(engine, middleware.NewCORS(), middleware.NewLogger(logger)),
	}
	return &Signal{
		server: srv,
		conf:   config,
		logger: logger.Named("signal"),
	}
}

// Handler returns the root handler of the server.
func (s *Signal) Handler() http.Handler {
	return s.server.Handler
}

// Start runs the signal server until it is shut down.
func (s *Signal) Start() error {
	var err error
	if s.conf.CertFile == "" || s.conf.KeyFile == "" {
		s.logger.Info("starting server without TLS", zap.Int("port", s.conf.Port))
		err = s.server.ListenAndServe()
	} else {
		s.logger.Info("starting server with TLS", zap.Int("port", s.conf.Port))
		err = s.server.ListenAndServeTLS(s.conf.CertFile, s.conf.KeyFile)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for the requests in flight.
// Hijacked websocket connections are not waited for.
func (s *Signal) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
