// Package controller handles HTTP and signaling logic.
package controller

import (
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"net/http"
	"sfu/metric"
	"sfu/pkg/socket"
	"time"
)

// DefaultRequestTimeout bounds the handling of one request.
const DefaultRequestTimeout = 15 * time.Second

// Options configures the controllers.
type Options struct {
	// Debug exposes error messages to clients.
	Debug          bool
	RequestTimeout time.Duration

	// MessagesPerSecond and Burst limit the requests of one connection.
	// Zero disables the limit.
	MessagesPerSecond float64
	Burst             int

	Socket socket.Options
}

func (o Options) requestTimeout() time.Duration {
	if o.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return o.RequestTimeout
}

func (o Options) limiter() *rate.Limiter {
	if o.MessagesPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := o.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(o.MessagesPerSecond), burst)
}

// Controller handles signaling connections.
type Controller struct {
	coordinator Coordinator
	metric      *metric.Metrics
	logger      *zap.Logger
	options     Options
}

// New creates a new instance of Controller.
func New(coordinator Coordinator, m *metric.Metrics, logger *zap.Logger, options Options) *Controller {
	return &Controller{
		coordinator: coordinator,
		metric:      m,
		logger:      logger.Named("signaling"),
		options:     options,
	}
}

// ServeHTTP upgrades the request and serves the connection until it is closed.
func (c *Controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := socket.New(w, r, c.options.Socket)
	if err != nil {
		c.logger.Warn("failed to upgrade connection", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			c.logger.Debug("failed to close connection", zap.Error(err))
		}
	}()

	if err := c.Process(conn); err != nil {
		c.logger.Info("connection closed", zap.String("remote", r.RemoteAddr), zap.Error(err))
	}
}

// Process serves the requests of the connection. The peer of the connection
// leaves its room when the connection ends.
func (c *Controller) Process(conn socket.Socket) error {
	c.metric.IncrementWebSocketConnections()
	defer c.metric.DecrementWebSocketConnections()

	s := newSession(c, conn)
	go s.write()

	err := s.read()
	s.disconnect()
	s.wait()
	return err
}
