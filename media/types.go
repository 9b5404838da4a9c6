package media

import (
	"errors"
	"fmt"
	"strings"
)

// Below is the error list of media engine.
var (
	ErrEngineFatal        = errors.New("media engine is unavailable")
	ErrClosed             = errors.New("handle is closed")
	ErrUnsupportedCodec   = errors.New("no supported codec")
	ErrIncompatible       = errors.New("capabilities are incompatible")
	ErrProducerNotFound   = errors.New("producer not found in router")
	ErrInvalidParameters  = errors.New("invalid parameters")
	ErrInvalidDirection   = errors.New("invalid transport direction")
	ErrInvalidKind        = errors.New("invalid media kind")
	ErrTransportDirection = errors.New("operation not allowed on transport direction")
)

// Kind is the media kind of a producer or consumer.
type Kind string

// Media kinds.
const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

// ParseKind returns the Kind of the given string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAudio, KindVideo:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidKind)
}

// Direction is the direction of a transport, seen from the peer.
type Direction string

// Transport directions.
const (
	DirectionSend Direction = "send"
	DirectionRecv Direction = "recv"
)

// ParseDirection returns the Direction of the given string. "receive" is accepted as an alias.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case string(DirectionSend):
		return DirectionSend, nil
	case string(DirectionRecv), "receive":
		return DirectionRecv, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidDirection)
}

// Codec is a codec configured on a router.
type Codec struct {
	Kind         Kind              `json:"kind"`
	MimeType     string            `json:"mimeType"`
	ClockRate    uint32            `json:"clockRate"`
	Channels     uint16            `json:"channels,omitempty"`
	Parameters   map[string]string `json:"parameters,omitempty"`
	RTCPFeedback []RTCPFeedback    `json:"rtcpFeedback,omitempty"`
}

// RTCPFeedback is a feedback mechanism supported by a codec.
type RTCPFeedback struct {
	Type      string `json:"type"`
	Parameter string `json:"parameter,omitempty"`
}

// CodecCapability is a codec supported by a router or a peer.
type CodecCapability struct {
	Kind                 Kind              `json:"kind"`
	MimeType             string            `json:"mimeType"`
	PreferredPayloadType uint8             `json:"preferredPayloadType"`
	ClockRate            uint32            `json:"clockRate"`
	Channels             uint16            `json:"channels,omitempty"`
	Parameters           map[string]string `json:"parameters,omitempty"`
	RTCPFeedback         []RTCPFeedback    `json:"rtcpFeedback,omitempty"`
}

// RTPCapabilities is the set of codecs a router or a peer supports.
type RTPCapabilities struct {
	Codecs []CodecCapability `json:"codecs"`
}

// CodecParameters is a codec negotiated for a producer or a consumer.
type CodecParameters struct {
	MimeType     string            `json:"mimeType"`
	PayloadType  uint8             `json:"payloadType"`
	ClockRate    uint32            `json:"clockRate"`
	Channels     uint16            `json:"channels,omitempty"`
	Parameters   map[string]string `json:"parameters,omitempty"`
	RTCPFeedback []RTCPFeedback    `json:"rtcpFeedback,omitempty"`
}

// Encoding is an RTP stream of a producer or a consumer.
type Encoding struct {
	SSRC uint32 `json:"ssrc,omitempty"`
	RID  string `json:"rid,omitempty"`
}

// RTCPParameters contains RTCP settings.
type RTCPParameters struct {
	CNAME       string `json:"cname,omitempty"`
	ReducedSize bool   `json:"reducedSize,omitempty"`
}

// RTPParameters describes the media sent or received by a producer or a consumer.
type RTPParameters struct {
	MID       string            `json:"mid,omitempty"`
	Codecs    []CodecParameters `json:"codecs"`
	Encodings []Encoding        `json:"encodings,omitempty"`
	RTCP      RTCPParameters    `json:"rtcp"`
}

// ICEParameters are the ICE credentials of a transport.
type ICEParameters struct {
	UsernameFragment string `json:"usernameFragment"`
	Password         string `json:"password"`
	ICELite          bool   `json:"iceLite,omitempty"`
}

// ICECandidate is a local ICE candidate of a transport.
type ICECandidate struct {
	Foundation string `json:"foundation"`
	Priority   uint32 `json:"priority"`
	Address    string `json:"address"`
	Protocol   string `json:"protocol"`
	Port       uint16 `json:"port"`
	Type       string `json:"type"`
	TCPType    string `json:"tcpType,omitempty"`
}

// Fingerprint is a DTLS certificate fingerprint.
type Fingerprint struct {
	Algorithm string `json:"algorithm"`
	Value     string `json:"value"`
}

// DTLS roles.
const (
	DTLSRoleAuto   = "auto"
	DTLSRoleClient = "client"
	DTLSRoleServer = "server"
)

// DTLSParameters are the DTLS role and fingerprints of one side of a transport.
type DTLSParameters struct {
	Role         string        `json:"role,omitempty"`
	Fingerprints []Fingerprint `json:"fingerprints"`
}

// Validate checks the role and the fingerprints.
func (p DTLSParameters) Validate() error {
	switch p.Role {
	case "", DTLSRoleAuto, DTLSRoleClient, DTLSRoleServer:
	default:
		return fmt.Errorf("dtls role %q: %w", p.Role, ErrInvalidParameters)
	}
	if len(p.Fingerprints) == 0 {
		return fmt.Errorf("no dtls fingerprint: %w", ErrInvalidParameters)
	}
	for _, fp := range p.Fingerprints {
		switch strings.ToLower(fp.Algorithm) {
		case "sha-1", "sha-224", "sha-256", "sha-384", "sha-512":
		default:
			return fmt.Errorf("fingerprint algorithm %q: %w", fp.Algorithm, ErrInvalidParameters)
		}
		if fp.Value == "" {
			return fmt.Errorf("empty fingerprint: %w", ErrInvalidParameters)
		}
	}
	return nil
}

// SCTPParameters describes the SCTP association of a transport.
type SCTPParameters struct {
	Port           uint16 `json:"port"`
	OS             uint16 `json:"OS"`
	MIS            uint16 `json:"MIS"`
	MaxMessageSize uint32 `json:"maxMessageSize"`
}

// TransportParameters are generated by the engine when a transport is created.
type TransportParameters struct {
	ICEParameters  ICEParameters   `json:"iceParameters"`
	ICECandidates  []ICECandidate  `json:"iceCandidates"`
	DTLSParameters DTLSParameters  `json:"dtlsParameters"`
	SCTPParameters *SCTPParameters `json:"sctpParameters,omitempty"`
}

// ConnectParameters are sent by a peer to finalize the handshake of a transport.
type ConnectParameters struct {
	DTLSParameters DTLSParameters `json:"dtlsParameters"`
	ICEParameters  *ICEParameters `json:"iceParameters,omitempty"`
}
