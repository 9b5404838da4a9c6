package media

import (
	"context"
	"fmt"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pion/webrtc/v4"
	"go.uber.org/zap"
	"math/rand/v2"
	"strconv"
	"sync"
)

var defaultSCTPParameters = SCTPParameters{
	Port:           5000,
	OS:             1024,
	MIS:            1024,
	MaxMessageSize: 262144,
}

// transport owns the ICE gatherer, the ICE transport and the DTLS transport
// of one peer direction.
type transport struct {
	handle
	id        string
	direction Direction
	router    *router
	gatherer  *webrtc.ICEGatherer
	ice       *webrtc.ICETransport
	dtls      *webrtc.DTLSTransport
	params    TransportParameters
	logger    *zap.Logger

	mu        sync.Mutex
	connected bool
	nextMID   int
	producers map[string]*producer
	consumers map[string]*consumer
}

func newTransport(
	id string,
	direction Direction,
	r *router,
	gatherer *webrtc.ICEGatherer,
	ice *webrtc.ICETransport,
	dtls *webrtc.DTLSTransport,
) (*transport, error) {
	iceParams, err := gatherer.GetLocalParameters()
	if err != nil {
		return nil, fmt.Errorf("failed to get ice parameters: %w", err)
	}
	candidates, err := gatherer.GetLocalCandidates()
	if err != nil {
		return nil, fmt.Errorf("failed to get ice candidates: %w", err)
	}
	dtlsParams, err := dtls.GetLocalParameters()
	if err != nil {
		return nil, fmt.Errorf("failed to get dtls parameters: %w", err)
	}

	params := TransportParameters{
		ICEParameters: ICEParameters{
			UsernameFragment: iceParams.UsernameFragment,
			Password:         iceParams.Password,
			ICELite:          iceParams.ICELite,
		},
		ICECandidates: make([]ICECandidate, 0, len(candidates)),
		DTLSParameters: DTLSParameters{
			Role:         DTLSRoleAuto,
			Fingerprints: make([]Fingerprint, 0, len(dtlsParams.Fingerprints)),
		},
	}
	for _, c := range candidates {
		params.ICECandidates = append(params.ICECandidates, ICECandidate{
			Foundation: c.Foundation,
			Priority:   c.Priority,
			Address:    c.Address,
			Protocol:   c.Protocol.String(),
			Port:       c.Port,
			Type:       c.Typ.String(),
			TCPType:    c.TCPType,
		})
	}
	for _, fp := range dtlsParams.Fingerprints {
		params.DTLSParameters.Fingerprints = append(params.DTLSParameters.Fingerprints, Fingerprint{
			Algorithm: fp.Algorithm,
			Value:     fp.Value,
		})
	}
	sctp := defaultSCTPParameters
	params.SCTPParameters = &sctp

	return &transport{
		id:        id,
		direction: direction,
		router:    r,
		gatherer:  gatherer,
		ice:       ice,
		dtls:      dtls,
		params:    params,
		logger:    r.logger.With(zap.String("transport_id", id), zap.String("direction", string(direction))),
		producers: make(map[string]*producer),
		consumers: make(map[string]*consumer),
	}, nil
}

func (t *transport) ID() string {
	return t.id
}

func (t *transport) Parameters() TransportParameters {
	return t.params
}

// Connect accepts the remote DTLS parameters. When the remote ICE parameters
// are known, the ICE and DTLS handshakes are started in the background.
func (t *transport) Connect(_ context.Context, params ConnectParameters) error {
	if t.isClosed() {
		return ErrClosed
	}
	if err := params.DTLSParameters.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	if t.connected {
		t.mu.Unlock()
		return nil
	}
	t.connected = true
	t.mu.Unlock()

	if params.ICEParameters != nil {
		go t.start(*params.ICEParameters, params.DTLSParameters)
	}
	return nil
}

func (t *transport) start(remoteICE ICEParameters, remoteDTLS DTLSParameters) {
	role := webrtc.ICERoleControlled
	if err := t.ice.Start(t.gatherer, webrtc.ICEParameters{
		UsernameFragment: remoteICE.UsernameFragment,
		Password:         remoteICE.Password,
		ICELite:          remoteICE.ICELite,
	}, &role); err != nil {
		t.logger.Warn("ice handshake failed", zap.Error(err))
		return
	}

	fingerprints := make([]webrtc.DTLSFingerprint, 0, len(remoteDTLS.Fingerprints))
	for _, fp := range remoteDTLS.Fingerprints {
		fingerprints = append(fingerprints, webrtc.DTLSFingerprint{Algorithm: fp.Algorithm, Value: fp.Value})
	}
	if err := t.dtls.Start(webrtc.DTLSParameters{
		Role:         dtlsRole(remoteDTLS.Role),
		Fingerprints: fingerprints,
	}); err != nil {
		t.logger.Warn("dtls handshake failed", zap.Error(err))
		return
	}
	t.logger.Info("transport handshake completed")
}

func dtlsRole(role string) webrtc.DTLSRole {
	switch role {
	case DTLSRoleClient:
		return webrtc.DTLSRoleClient
	case DTLSRoleServer:
		return webrtc.DTLSRoleServer
	}
	return webrtc.DTLSRoleAuto
}

// Produce registers an inbound stream on a send transport.
func (t *transport) Produce(_ context.Context, kind Kind, params RTPParameters) (Producer, error) {
	if t.isClosed() {
		return nil, ErrClosed
	}
	if t.direction != DirectionSend {
		return nil, fmt.Errorf("produce on %s transport: %w", t.direction, ErrTransportDirection)
	}
	if err := ValidateProducer(kind, params, t.router.caps); err != nil {
		return nil, err
	}

	p := &producer{id: shortuuid.New(), kind: kind, params: params}
	t.mu.Lock()
	t.producers[p.id] = p
	t.mu.Unlock()
	p.OnClose(func() {
		t.mu.Lock()
		delete(t.producers, p.id)
		t.mu.Unlock()
	})
	t.router.addProducer(p)
	return p, nil
}

// Consume creates an outbound copy of a producer on a receive transport.
func (t *transport) Consume(_ context.Context, producerID string, caps RTPCapabilities) (Consumer, error) {
	if t.isClosed() {
		return nil, ErrClosed
	}
	if t.direction != DirectionRecv {
		return nil, fmt.Errorf("consume on %s transport: %w", t.direction, ErrTransportDirection)
	}
	p, ok := t.router.producer(producerID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", producerID, ErrProducerNotFound)
	}

	t.mu.Lock()
	mid := strconv.Itoa(t.nextMID)
	t.nextMID++
	t.mu.Unlock()

	params, err := ConsumerParameters(p.params, caps, rand.Uint32(), mid)
	if err != nil {
		return nil, err
	}

	codec := params.Codecs[0]
	track, err := webrtc.NewTrackLocalStaticRTP(codecCapability(CodecCapability{
		Kind:         p.kind,
		MimeType:     codec.MimeType,
		ClockRate:    codec.ClockRate,
		Channels:     codec.Channels,
		Parameters:   codec.Parameters,
		RTCPFeedback: codec.RTCPFeedback,
	}), string(p.kind), producerID)
	if err != nil {
		return nil, fmt.Errorf("failed to create local track: %w", err)
	}

	c := &consumer{id: shortuuid.New(), producerID: producerID, kind: p.kind, params: params, track: track}
	t.mu.Lock()
	t.consumers[c.id] = c
	t.mu.Unlock()
	c.OnClose(func() {
		t.mu.Lock()
		delete(t.consumers, c.id)
		t.mu.Unlock()
	})
	p.OnClose(func() { _ = c.Close() })
	return c, nil
}

// Close stops the handshakes and closes every producer and consumer of the transport.
func (t *transport) Close() error {
	if t.isClosed() {
		return nil
	}

	t.mu.Lock()
	producers := make([]*producer, 0, len(t.producers))
	for _, p := range t.producers {
		producers = append(producers, p)
	}
	consumers := make([]*consumer, 0, len(t.consumers))
	for _, c := range t.consumers {
		consumers = append(consumers, c)
	}
	t.mu.Unlock()

	for _, c := range consumers {
		_ = c.Close()
	}
	for _, p := range producers {
		_ = p.Close()
	}

	if err := t.dtls.Stop(); err != nil {
		t.logger.Debug("failed to stop dtls transport", zap.Error(err))
	}
	if err := t.ice.Stop(); err != nil {
		t.logger.Debug("failed to stop ice transport", zap.Error(err))
	}
	if err := t.gatherer.Close(); err != nil {
		t.logger.Debug("failed to close ice gatherer", zap.Error(err))
	}
	t.markClosed()
	return nil
}
