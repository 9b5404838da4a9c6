package media

import (
	"context"
	"fmt"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pion/webrtc/v4"
	"go.uber.org/zap"
	"sync"
	"time"
)

// router is a routing domain backed by one pion API.
type router struct {
	handle
	id     string
	caps   RTPCapabilities
	api    *webrtc.API
	media  *Media
	logger *zap.Logger

	mu         sync.RWMutex
	transports map[string]*transport
	producers  map[string]*producer
}

func newRouter(id string, caps RTPCapabilities, api *webrtc.API, m *Media) *router {
	return &router{
		id:         id,
		caps:       caps,
		api:        api,
		media:      m,
		logger:     m.logger.With(zap.String("router_id", id)),
		transports: make(map[string]*transport),
		producers:  make(map[string]*producer),
	}
}

func (r *router) ID() string {
	return r.id
}

func (r *router) RTPCapabilities() RTPCapabilities {
	return r.caps
}

// CreateTransport gathers local candidates and creates the ICE and DTLS
// transports. It waits until gathering completes or the gather timeout expires.
func (r *router) CreateTransport(ctx context.Context, direction Direction) (Transport, error) {
	if r.isClosed() {
		return nil, ErrClosed
	}
	if _, err := ParseDirection(string(direction)); err != nil {
		return nil, err
	}

	gatherer, err := r.api.NewICEGatherer(webrtc.ICEGatherOptions{ICEServers: r.media.config.iceServers()})
	if err != nil {
		return nil, fmt.Errorf("failed to create ice gatherer: %w", err)
	}

	done := make(chan struct{})
	var once sync.Once
	gatherer.OnLocalCandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			once.Do(func() { close(done) })
		}
	})
	ice := r.api.NewICETransport(gatherer)
	dtls, err := r.api.NewDTLSTransport(ice, nil)
	if err != nil {
		_ = gatherer.Close()
		return nil, fmt.Errorf("failed to create dtls transport: %w", err)
	}
	if err := gatherer.Gather(); err != nil {
		_ = gatherer.Close()
		return nil, fmt.Errorf("failed to gather candidates: %w", err)
	}

	gatherTime := time.Duration(r.media.config.GatherTime) * time.Second
	if gatherTime <= 0 {
		gatherTime = DefaultGatherTime * time.Second
	}
	timer := time.NewTimer(gatherTime)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		r.logger.Warn("candidate gathering timed out, using gathered candidates")
	case <-ctx.Done():
		_ = gatherer.Close()
		return nil, ctx.Err()
	}

	t, err := newTransport(shortuuid.New(), direction, r, gatherer, ice, dtls)
	if err != nil {
		_ = gatherer.Close()
		return nil, err
	}

	r.mu.Lock()
	if r.isClosed() {
		r.mu.Unlock()
		_ = t.Close()
		return nil, ErrClosed
	}
	r.transports[t.id] = t
	r.mu.Unlock()
	t.OnClose(func() {
		r.mu.Lock()
		delete(r.transports, t.id)
		r.mu.Unlock()
	})
	return t, nil
}

// CanConsume reports whether the capabilities can receive the producer.
func (r *router) CanConsume(producerID string, caps RTPCapabilities) bool {
	p, ok := r.producer(producerID)
	if !ok {
		return false
	}
	return CanConsume(p.params, caps)
}

func (r *router) producer(id string) (*producer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.producers[id]
	return p, ok
}

func (r *router) addProducer(p *producer) {
	r.mu.Lock()
	r.producers[p.id] = p
	r.mu.Unlock()
	p.OnClose(func() {
		r.mu.Lock()
		delete(r.producers, p.id)
		r.mu.Unlock()
	})
}

// Close closes every transport of the router.
func (r *router) Close() error {
	if r.isClosed() {
		return nil
	}
	r.mu.Lock()
	transports := make([]*transport, 0, len(r.transports))
	for _, t := range r.transports {
		transports = append(transports, t)
	}
	r.mu.Unlock()

	for _, t := range transports {
		if err := t.Close(); err != nil {
			r.logger.Warn("failed to close transport", zap.String("transport_id", t.id), zap.Error(err))
		}
	}
	r.markClosed()
	return nil
}
