// Package mediatest provides an in-process media engine for tests. It negotiates
// capabilities like the WebRTC engine but opens no network sockets.
package mediatest

import (
	"context"
	"fmt"
	"github.com/lithammer/shortuuid/v4"
	"sfu/media"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Engine is a media.Engine whose handles only live in memory.
type Engine struct {
	routers atomic.Int32
	fatal   atomic.Bool

	mu    sync.Mutex
	delay time.Duration
	err   error
	live  map[string]closer
}

type closer interface {
	Close() error
}

// New creates a new Engine.
func New() *Engine {
	return &Engine{live: make(map[string]closer)}
}

// SetDelay makes every following call wait d before it returns.
func (e *Engine) SetDelay(d time.Duration) {
	e.mu.Lock()
	e.delay = d
	e.mu.Unlock()
}

// SetErr makes every following call fail with err. A nil err clears it.
func (e *Engine) SetErr(err error) {
	e.mu.Lock()
	e.err = err
	e.mu.Unlock()
}

// Routers returns the number of routers created so far.
func (e *Engine) Routers() int {
	return int(e.routers.Load())
}

// Live returns the number of handles that are not closed.
func (e *Engine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.live)
}

// IsLive reports whether the handle with the given id is not closed.
func (e *Engine) IsLive(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.live[id]
	return ok
}

// SetFatal makes every following call fail with media.ErrEngineFatal.
func (e *Engine) SetFatal() {
	e.fatal.Store(true)
}

// Ready reports whether SetFatal has not been called.
func (e *Engine) Ready() bool {
	return !e.fatal.Load()
}

func (e *Engine) enter(ctx context.Context) error {
	if e.fatal.Load() {
		return media.ErrEngineFatal
	}
	e.mu.Lock()
	delay, err := e.delay, e.err
	e.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (e *Engine) track(id string, c closer) {
	e.mu.Lock()
	e.live[id] = c
	e.mu.Unlock()
}

func (e *Engine) untrack(id string) {
	e.mu.Lock()
	delete(e.live, id)
	e.mu.Unlock()
}

// CreateRouter creates a router with capabilities derived from the codecs.
func (e *Engine) CreateRouter(ctx context.Context, codecs []media.Codec) (media.Router, error) {
	if err := e.enter(ctx); err != nil {
		return nil, err
	}
	caps, err := media.NewCapabilities(codecs)
	if err != nil {
		return nil, err
	}
	e.routers.Add(1)
	r := &Router{
		base:      base{id: "router-" + shortuuid.New(), engine: e},
		caps:      caps,
		producers: make(map[string]*Producer),
	}
	e.track(r.id, r)
	return r, nil
}

// base keeps the id, the closed flag and the close hooks of a handle.
type base struct {
	id     string
	engine *Engine

	mu       sync.Mutex
	closed   bool
	handlers []func()
}

func (b *base) ID() string {
	return b.id
}

func (b *base) OnClose(fn func()) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		fn()
		return
	}
	b.handlers = append(b.handlers, fn)
	b.mu.Unlock()
}

// Closed reports whether the handle is closed.
func (b *base) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *base) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	handlers := b.handlers
	b.handlers = nil
	b.mu.Unlock()

	b.engine.untrack(b.id)
	for _, fn := range handlers {
		fn()
	}
	return nil
}

// Router is an in-memory routing domain.
type Router struct {
	base
	caps media.RTPCapabilities

	pmu       sync.RWMutex
	producers map[string]*Producer
}

// RTPCapabilities returns the router capabilities.
func (r *Router) RTPCapabilities() media.RTPCapabilities {
	return r.caps
}

// CreateTransport creates a transport with synthetic ICE and DTLS parameters.
func (r *Router) CreateTransport(ctx context.Context, direction media.Direction) (media.Transport, error) {
	if err := r.engine.enter(ctx); err != nil {
		return nil, err
	}
	if r.Closed() {
		return nil, media.ErrClosed
	}
	id := "transport-" + shortuuid.New()
	t := &Transport{
		base:      base{id: id, engine: r.engine},
		router:    r,
		direction: direction,
		params: media.TransportParameters{
			ICEParameters: media.ICEParameters{UsernameFragment: shortuuid.New()[:8], Password: shortuuid.New(), ICELite: true},
			ICECandidates: []media.ICECandidate{{
				Foundation: "udpcandidate", Priority: 1076302079, Address: "127.0.0.1", Protocol: "udp", Port: 40000, Type: "host",
			}},
			DTLSParameters: media.DTLSParameters{Role: media.DTLSRoleAuto, Fingerprints: []media.Fingerprint{
				{Algorithm: "sha-256", Value: "00:11:22:33:44:55:66:77:88:99:AA:BB:CC:DD:EE:FF"},
			}},
			SCTPParameters: &media.SCTPParameters{Port: 5000, OS: 1024, MIS: 1024, MaxMessageSize: 262144},
		},
	}
	r.engine.track(id, t)
	r.OnClose(func() { _ = t.Close() })
	return t, nil
}

// CanConsume reports whether the capabilities can receive the producer.
func (r *Router) CanConsume(producerID string, caps media.RTPCapabilities) bool {
	r.pmu.RLock()
	p, ok := r.producers[producerID]
	r.pmu.RUnlock()
	if !ok || p.Closed() {
		return false
	}
	return media.CanConsume(p.params, caps)
}

// Transport is an in-memory transport.
type Transport struct {
	base
	router    *Router
	direction media.Direction
	params    media.TransportParameters

	cmu       sync.Mutex
	connected int
	nextMID   int
}

// Parameters returns the synthetic transport parameters.
func (t *Transport) Parameters() media.TransportParameters {
	return t.params
}

// Connects returns how many times Connect succeeded.
func (t *Transport) Connects() int {
	t.cmu.Lock()
	defer t.cmu.Unlock()
	return t.connected
}

// Connect validates the remote DTLS parameters.
func (t *Transport) Connect(ctx context.Context, params media.ConnectParameters) error {
	if err := t.engine.enter(ctx); err != nil {
		return err
	}
	if t.Closed() {
		return media.ErrClosed
	}
	if err := params.DTLSParameters.Validate(); err != nil {
		return err
	}
	t.cmu.Lock()
	t.connected++
	t.cmu.Unlock()
	return nil
}

// Produce creates a producer after validating its parameters.
func (t *Transport) Produce(ctx context.Context, kind media.Kind, params media.RTPParameters) (media.Producer, error) {
	if err := t.engine.enter(ctx); err != nil {
		return nil, err
	}
	if t.Closed() {
		return nil, media.ErrClosed
	}
	if t.direction != media.DirectionSend {
		return nil, media.ErrTransportDirection
	}
	if err := media.ValidateProducer(kind, params, t.router.caps); err != nil {
		return nil, err
	}

	id := "producer-" + shortuuid.New()
	p := &Producer{base: base{id: id, engine: t.engine}, kind: kind, params: params}
	t.engine.track(id, p)
	t.router.pmu.Lock()
	t.router.producers[id] = p
	t.router.pmu.Unlock()
	p.OnClose(func() {
		t.router.pmu.Lock()
		delete(t.router.producers, id)
		t.router.pmu.Unlock()
	})
	t.OnClose(func() { _ = p.Close() })
	return p, nil
}

// Consume creates a consumer of a producer of the same router.
func (t *Transport) Consume(ctx context.Context, producerID string, caps media.RTPCapabilities) (media.Consumer, error) {
	if err := t.engine.enter(ctx); err != nil {
		return nil, err
	}
	if t.Closed() {
		return nil, media.ErrClosed
	}
	if t.direction != media.DirectionRecv {
		return nil, media.ErrTransportDirection
	}
	t.router.pmu.RLock()
	p, ok := t.router.producers[producerID]
	t.router.pmu.RUnlock()
	if !ok || p.Closed() {
		return nil, fmt.Errorf("%s: %w", producerID, media.ErrProducerNotFound)
	}

	t.cmu.Lock()
	mid := strconv.Itoa(t.nextMID)
	ssrc := uint32(1000 + t.nextMID)
	t.nextMID++
	t.cmu.Unlock()
	params, err := media.ConsumerParameters(p.params, caps, ssrc, mid)
	if err != nil {
		return nil, err
	}

	id := "consumer-" + shortuuid.New()
	c := &Consumer{base: base{id: id, engine: t.engine}, producerID: producerID, kind: p.kind, params: params}
	t.engine.track(id, c)
	p.OnClose(func() { _ = c.Close() })
	t.OnClose(func() { _ = c.Close() })
	return c, nil
}

// Producer is an in-memory producer.
type Producer struct {
	base
	kind   media.Kind
	params media.RTPParameters
}

// Kind returns the media kind.
func (p *Producer) Kind() media.Kind { return p.kind }

// RTPParameters returns the parameters given to Produce.
func (p *Producer) RTPParameters() media.RTPParameters { return p.params }

// Consumer is an in-memory consumer.
type Consumer struct {
	base
	producerID string
	kind       media.Kind
	params     media.RTPParameters
}

// ProducerID returns the id of the consumed producer.
func (c *Consumer) ProducerID() string { return c.producerID }

// Kind returns the media kind.
func (c *Consumer) Kind() media.Kind { return c.kind }

// RTPParameters returns the negotiated parameters.
func (c *Consumer) RTPParameters() media.RTPParameters { return c.params }
