package media

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v4"
	"go.uber.org/zap"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// Media is the WebRTC media engine. Each router gets its own pion API so that
// its codec table is isolated from other rooms.
type Media struct {
	config Config
	logger *zap.Logger
	closed atomic.Bool

	mu      sync.Mutex
	routers map[string]*router
}

// New creates a new Media instance.
func New(config Config, logger *zap.Logger) *Media {
	return &Media{
		config:  config,
		logger:  logger.Named("media"),
		routers: make(map[string]*router),
	}
}

// Ready reports whether the engine accepts new routers.
func (m *Media) Ready() bool {
	return !m.closed.Load()
}

// CreateRouter creates a router supporting the given codecs.
func (m *Media) CreateRouter(_ context.Context, codecs []Codec) (Router, error) {
	if m.closed.Load() {
		return nil, ErrEngineFatal
	}

	caps, err := NewCapabilities(codecs)
	if err != nil {
		return nil, err
	}

	me := &webrtc.MediaEngine{}
	for _, c := range caps.Codecs {
		if err := me.RegisterCodec(webrtc.RTPCodecParameters{
			RTPCodecCapability: codecCapability(c),
			PayloadType:        webrtc.PayloadType(c.PreferredPayloadType),
		}, codecType(c.Kind)); err != nil {
			return nil, fmt.Errorf("failed to register codec %s: %w", c.MimeType, err)
		}
	}

	ir := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(me, ir); err != nil {
		return nil, fmt.Errorf("failed to register interceptors: %w", err)
	}

	se := webrtc.SettingEngine{}
	if err := m.config.SetPortRange(&se); err != nil {
		return nil, err
	}
	m.config.SetAnnouncedIP(&se)

	api := webrtc.NewAPI(
		webrtc.WithMediaEngine(me),
		webrtc.WithSettingEngine(se),
		webrtc.WithInterceptorRegistry(ir),
	)

	r := newRouter(uuid.NewString(), caps, api, m)
	m.mu.Lock()
	m.routers[r.id] = r
	m.mu.Unlock()
	r.OnClose(func() {
		m.mu.Lock()
		delete(m.routers, r.id)
		m.mu.Unlock()
	})

	m.logger.Debug("router created", zap.String("router_id", r.id), zap.Int("codecs", len(caps.Codecs)))
	return r, nil
}

// Close closes every router. The engine is unusable afterwards.
func (m *Media) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	m.mu.Lock()
	routers := make([]*router, 0, len(m.routers))
	for _, r := range m.routers {
		routers = append(routers, r)
	}
	m.mu.Unlock()

	for _, r := range routers {
		if err := r.Close(); err != nil {
			m.logger.Warn("failed to close router", zap.String("router_id", r.id), zap.Error(err))
		}
	}
	return nil
}

func codecType(kind Kind) webrtc.RTPCodecType {
	if kind == KindAudio {
		return webrtc.RTPCodecTypeAudio
	}
	return webrtc.RTPCodecTypeVideo
}

func codecCapability(c CodecCapability) webrtc.RTPCodecCapability {
	feedback := make([]webrtc.RTCPFeedback, 0, len(c.RTCPFeedback))
	for _, fb := range c.RTCPFeedback {
		feedback = append(feedback, webrtc.RTCPFeedback{Type: fb.Type, Parameter: fb.Parameter})
	}
	return webrtc.RTPCodecCapability{
		MimeType:     c.MimeType,
		ClockRate:    c.ClockRate,
		Channels:     c.Channels,
		SDPFmtpLine:  fmtpLine(c.Parameters),
		RTCPFeedback: feedback,
	}
}

// fmtpLine formats codec parameters as an SDP fmtp line with sorted keys.
func fmtpLine(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	return strings.Join(parts, ";")
}

