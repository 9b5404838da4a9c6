package media

import (
	"fmt"
	"strings"
)

// Mime types of the default codecs.
const (
	MimeTypeOpus = "audio/opus"
	MimeTypeVP8  = "video/VP8"
	MimeTypeVP9  = "video/VP9"
	MimeTypeH264 = "video/H264"
	MimeTypeRTX  = "video/rtx"
)

// firstDynamicPayloadType is the first payload type assigned to router codecs.
const firstDynamicPayloadType = 96

var videoRTCPFeedback = []RTCPFeedback{{"goog-remb", ""}, {"ccm", "fir"}, {"nack", ""}, {"nack", "pli"}}

// DefaultCodecs returns the codec configuration used by every router unless configured otherwise.
func DefaultCodecs() []Codec {
	return []Codec{
		{Kind: KindAudio, MimeType: MimeTypeOpus, ClockRate: 48000, Channels: 2,
			Parameters: map[string]string{"minptime": "10", "useinbandfec": "1"}},
		{Kind: KindVideo, MimeType: MimeTypeVP8, ClockRate: 90000, RTCPFeedback: videoRTCPFeedback},
		{Kind: KindVideo, MimeType: MimeTypeVP9, ClockRate: 90000, RTCPFeedback: videoRTCPFeedback,
			Parameters: map[string]string{"profile-id": "0"}},
		{Kind: KindVideo, MimeType: MimeTypeH264, ClockRate: 90000, RTCPFeedback: videoRTCPFeedback,
			Parameters: map[string]string{"level-asymmetry-allowed": "1", "packetization-mode": "1", "profile-level-id": "42e01f"}},
		{Kind: KindVideo, MimeType: MimeTypeH264, ClockRate: 90000, RTCPFeedback: videoRTCPFeedback,
			Parameters: map[string]string{"level-asymmetry-allowed": "1", "packetization-mode": "1", "profile-level-id": "4d0032"}},
	}
}

// NewCapabilities assigns payload types to the configured codecs.
func NewCapabilities(codecs []Codec) (RTPCapabilities, error) {
	if len(codecs) == 0 {
		return RTPCapabilities{}, fmt.Errorf("empty codec list: %w", ErrUnsupportedCodec)
	}
	caps := RTPCapabilities{Codecs: make([]CodecCapability, 0, len(codecs))}
	for i, c := range codecs {
		if _, err := ParseKind(string(c.Kind)); err != nil {
			return RTPCapabilities{}, err
		}
		if !strings.HasPrefix(strings.ToLower(c.MimeType), string(c.Kind)+"/") {
			return RTPCapabilities{}, fmt.Errorf("mime type %s of kind %s: %w", c.MimeType, c.Kind, ErrInvalidParameters)
		}
		if firstDynamicPayloadType+i > 127 {
			return RTPCapabilities{}, fmt.Errorf("too many codecs: %w", ErrInvalidParameters)
		}
		caps.Codecs = append(caps.Codecs, CodecCapability{
			Kind:                 c.Kind,
			MimeType:             c.MimeType,
			PreferredPayloadType: uint8(firstDynamicPayloadType + i),
			ClockRate:            c.ClockRate,
			Channels:             c.Channels,
			Parameters:           c.Parameters,
			RTCPFeedback:         c.RTCPFeedback,
		})
	}
	return caps, nil
}

func isRTX(mimeType string) bool {
	return strings.HasSuffix(strings.ToLower(mimeType), "/rtx")
}

// matchCodec reports whether the negotiated codec is described by the capability.
func matchCodec(c CodecParameters, capability CodecCapability) bool {
	if !strings.EqualFold(c.MimeType, capability.MimeType) || c.ClockRate != capability.ClockRate {
		return false
	}
	if strings.HasPrefix(strings.ToLower(c.MimeType), "audio/") && channels(c.Channels) != channels(capability.Channels) {
		return false
	}

	switch strings.ToLower(c.MimeType) {
	case strings.ToLower(MimeTypeH264):
		if parameter(c.Parameters, "packetization-mode", "0") != parameter(capability.Parameters, "packetization-mode", "0") {
			return false
		}
		return profile(c.Parameters) == profile(capability.Parameters)
	case strings.ToLower(MimeTypeVP9):
		return parameter(c.Parameters, "profile-id", "0") == parameter(capability.Parameters, "profile-id", "0")
	}
	return true
}

func channels(n uint16) uint16 {
	if n == 0 {
		return 1
	}
	return n
}

func parameter(params map[string]string, key, fallback string) string {
	if v, ok := params[key]; ok && v != "" {
		return v
	}
	return fallback
}

// profile returns the profile_idc of an H264 profile-level-id, or "" when it is absent.
func profile(params map[string]string) string {
	id := parameter(params, "profile-level-id", "")
	if len(id) < 2 {
		return ""
	}
	return strings.ToLower(id[:2])
}

// ValidateProducer checks that the parameters of a new producer match its kind
// and contain at least one codec supported by the router.
func ValidateProducer(kind Kind, params RTPParameters, caps RTPCapabilities) error {
	if _, err := ParseKind(string(kind)); err != nil {
		return err
	}
	if len(params.Codecs) == 0 {
		return fmt.Errorf("no codec in rtp parameters: %w", ErrInvalidParameters)
	}
	for _, c := range params.Codecs {
		if isRTX(c.MimeType) {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(c.MimeType), string(kind)+"/") {
			return fmt.Errorf("codec %s for kind %s: %w", c.MimeType, kind, ErrInvalidParameters)
		}
	}
	if _, ok := firstMatch(params, caps); !ok {
		return fmt.Errorf("kind %s: %w", kind, ErrUnsupportedCodec)
	}
	return nil
}

// CanConsume reports whether a peer with the given capabilities can receive the producer.
func CanConsume(params RTPParameters, caps RTPCapabilities) bool {
	_, ok := firstMatch(params, caps)
	return ok
}

func firstMatch(params RTPParameters, caps RTPCapabilities) (CodecCapability, bool) {
	for _, c := range params.Codecs {
		if isRTX(c.MimeType) {
			continue
		}
		for _, capability := range caps.Codecs {
			if matchCodec(c, capability) {
				capability.Parameters = c.Parameters
				return capability, true
			}
		}
	}
	return CodecCapability{}, false
}

// ConsumerParameters negotiates the parameters of a consumer of the producer.
// The first producer codec supported by the consumer's capabilities is selected.
func ConsumerParameters(params RTPParameters, caps RTPCapabilities, ssrc uint32, mid string) (RTPParameters, error) {
	capability, ok := firstMatch(params, caps)
	if !ok {
		return RTPParameters{}, ErrIncompatible
	}
	return RTPParameters{
		MID: mid,
		Codecs: []CodecParameters{{
			MimeType:     capability.MimeType,
			PayloadType:  capability.PreferredPayloadType,
			ClockRate:    capability.ClockRate,
			Channels:     capability.Channels,
			Parameters:   capability.Parameters,
			RTCPFeedback: capability.RTCPFeedback,
		}},
		Encodings: []Encoding{{SSRC: ssrc}},
		RTCP: RTCPParameters{
			CNAME:       params.RTCP.CNAME,
			ReducedSize: true,
		},
	}, nil
}
