package media

import (
	"errors"
	"fmt"
	"github.com/pion/webrtc/v4"
	"net"
)

// Default values for media configuration.
const (
	DefaultMinUDPPort = 40000
	DefaultMaxUDPPort = 49999
	DefaultGatherTime = 5 // seconds
)

// Below is the error list of media configuration.
var (
	ErrInvalidPortRange = errors.New("invalid udp port range")
	ErrInvalidIP        = errors.New("invalid announced ip")
)

// Config defines the configuration for the media engine.
type Config struct {
	IP         string   `env:"SFU_ANNOUNCED_IP"`                      // public ip announced in host candidates
	MinUDPPort int      `env:"SFU_RTC_MIN_PORT" env-default:"40000"`  // minimum UDP port for WebRTC
	MaxUDPPort int      `env:"SFU_RTC_MAX_PORT" env-default:"49999"`  // maximum UDP port for WebRTC
	ICEServers []string `env:"SFU_ICE_SERVERS" env-separator:","`     // STUN/TURN urls used when gathering
	GatherTime int      `env:"SFU_GATHER_TIMEOUT" env-default:"5"`    // seconds to wait for candidate gathering
}

// Validate validates the port range and the announced ip.
func (c Config) Validate() error {
	if c.MinUDPPort < 0 || c.MaxUDPPort > 65535 || c.MinUDPPort > c.MaxUDPPort {
		return fmt.Errorf("%d-%d: %w", c.MinUDPPort, c.MaxUDPPort, ErrInvalidPortRange)
	}
	if c.IP != "" && net.ParseIP(c.IP) == nil {
		return fmt.Errorf("%s: %w", c.IP, ErrInvalidIP)
	}
	return nil
}

// SetPortRange sets the ephemeral UDP port range for WebRTC.
func (c *Config) SetPortRange(s *webrtc.SettingEngine) error {
	if c.MinUDPPort == 0 && c.MaxUDPPort == 0 {
		return nil
	}
	if err := s.SetEphemeralUDPPortRange(uint16(c.MinUDPPort), uint16(c.MaxUDPPort)); err != nil {
		return fmt.Errorf("failed to set ephemeral UDP port range: %w", err)
	}
	return nil
}

// SetAnnouncedIP replaces host candidate addresses with the announced ip.
func (c *Config) SetAnnouncedIP(s *webrtc.SettingEngine) {
	if c.IP == "" {
		return
	}
	s.SetNAT1To1IPs([]string{c.IP}, webrtc.ICECandidateTypeHost)
}

func (c *Config) iceServers() []webrtc.ICEServer {
	if len(c.ICEServers) == 0 {
		return nil
	}
	return []webrtc.ICEServer{{URLs: c.ICEServers}}
}
