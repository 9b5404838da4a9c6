// Package metric provides Prometheus metrics collection and monitoring.
package metric

import (
	"context"
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"go.uber.org/zap"
	"net/http"
	"time"
)

// Metrics contains the Prometheus metrics server and registered custom metrics.
type Metrics struct {
	httpServer *http.Server
	config     Config
	logger     *zap.Logger
	registry   *prometheus.Registry

	rooms                prometheus.Gauge
	peers                prometheus.Gauge
	transports           prometheus.Gauge
	producers            prometheus.Gauge
	consumers            prometheus.Gauge
	webSocketConnections prometheus.Gauge
	requests             *prometheus.CounterVec
	engineLatency        *prometheus.HistogramVec
	cpuUsage             prometheus.Gauge
	memoryUsage          prometheus.Gauge
}

// New creates a new Metrics instance with the specified configuration. The
// metrics are registered in a registry owned by the instance.
func New(config Config, logger *zap.Logger) *Metrics {
	m := &Metrics{
		config:   config,
		logger:   logger.Named("metric"),
		registry: prometheus.NewRegistry(),
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sfu_rooms",
			Help: "Current number of rooms.",
		}),
		peers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sfu_peers",
			Help: "Current number of peers.",
		}),
		transports: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sfu_transports",
			Help: "Current number of transports.",
		}),
		producers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sfu_producers",
			Help: "Current number of producers.",
		}),
		consumers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sfu_consumers",
			Help: "Current number of consumers.",
		}),
		webSocketConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of WebSocket connections.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sfu_signaling_requests_total",
			Help: "Number of signaling requests by type and result code.",
		}, []string{"type", "code"}),
		engineLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sfu_engine_call_seconds",
			Help:    "Latency of media engine calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		cpuUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cpu_usage_percentage",
			Help: "CPU usage percentage.",
		}),
		memoryUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "memory_usage_bytes",
			Help: "Current memory usage in bytes.",
		}),
	}
	m.registry.MustRegister(
		m.rooms, m.peers, m.transports, m.producers, m.consumers,
		m.webSocketConnections, m.requests, m.engineLatency,
		m.cpuUsage, m.memoryUsage,
	)

	path := config.Path
	if path == "" {
		path = DefaultMetricsPath
	}
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	m.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return m
}

// Handler returns the handler exposing the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Start runs the metrics HTTP server until Stop is called.
func (m *Metrics) Start() error {
	m.logger.Info("starting metrics server", zap.Int("port", m.config.Port), zap.String("path", m.config.Path))
	if err := m.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the metrics server.
func (m *Metrics) Stop(ctx context.Context) error {
	m.logger.Info("stopping metrics server", zap.Int("port", m.config.Port))
	return m.httpServer.Shutdown(ctx)
}

// UpdateSystemMetrics samples CPU and memory usage until the context is done.
func (m *Metrics) UpdateSystemMetrics(ctx context.Context) error {
	interval := m.config.Interval
	if interval <= 0 {
		interval = DefaultMetricsInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		m.sample(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (m *Metrics) sample(ctx context.Context) {
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err != nil {
		m.logger.Debug("failed to read cpu usage", zap.Error(err))
	} else if len(percents) > 0 {
		m.cpuUsage.Set(percents[0])
	}
	if stat, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		m.logger.Debug("failed to read memory usage", zap.Error(err))
	} else {
		m.memoryUsage.Set(float64(stat.Used))
	}
}

// AddRooms adds delta to the number of rooms.
func (m *Metrics) AddRooms(delta int) {
	m.rooms.Add(float64(delta))
}

// AddPeers adds delta to the number of peers.
func (m *Metrics) AddPeers(delta int) {
	m.peers.Add(float64(delta))
}

// AddTransports adds delta to the number of transports.
func (m *Metrics) AddTransports(delta int) {
	m.transports.Add(float64(delta))
}

// AddProducers adds delta to the number of producers.
func (m *Metrics) AddProducers(delta int) {
	m.producers.Add(float64(delta))
}

// AddConsumers adds delta to the number of consumers.
func (m *Metrics) AddConsumers(delta int) {
	m.consumers.Add(float64(delta))
}

// IncrementWebSocketConnections increments the WebSocket connection count.
func (m *Metrics) IncrementWebSocketConnections() {
	m.webSocketConnections.Inc()
}

// DecrementWebSocketConnections decrements the WebSocket connection count.
func (m *Metrics) DecrementWebSocketConnections() {
	m.webSocketConnections.Dec()
}

// CountRequest counts a signaling request answered with the code.
func (m *Metrics) CountRequest(requestType, code string) {
	m.requests.WithLabelValues(requestType, code).Inc()
}

// ObserveEngineCall records the latency of a media engine call started at start.
func (m *Metrics) ObserveEngineCall(operation string, start time.Time) {
	m.engineLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
