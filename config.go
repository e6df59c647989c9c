package quincy

import (
	"errors"
	"time"

	"github.com/protocol7/quincy/internal/protocol"
	"github.com/protocol7/quincy/logging"
)

// Config contains all configuration data for a QUIC endpoint.
type Config struct {
	// The QUIC versions that can be negotiated.
	// If not set, it uses all versions available.
	Versions []protocol.VersionNumber
	// AckDelayExponent is the exponent used to scale the ACK delay field
	// of outgoing ACK frames.
	// If not set, it uses a default value of 3.
	AckDelayExponent uint8
	// MaxAckDelay is the maximum time by which an acknowledgment may be
	// delayed. It is also the period of the retransmission sweep.
	// If not set, it uses a default value of 100 ms.
	MaxAckDelay time.Duration
	// LossDetectionTimeout is the time after which an unacknowledged packet
	// is declared lost and its frames are retransmitted.
	// If not set, it uses a default value of 1 second.
	LossDetectionTimeout time.Duration
	// MaxIdleTimeout is the maximum duration that may pass without any
	// incoming network activity.
	// If not set, it uses a default value of 30 seconds.
	MaxIdleTimeout time.Duration
	// MaxPacketSize is the maximum size of QUIC packets that we send.
	// If not set, it uses a default value of 1252 bytes.
	MaxPacketSize protocol.ByteCount
	// ConnectionIDLength is the length of the connection IDs that we generate.
	// If not set, it uses a default value of 4 bytes.
	ConnectionIDLength int
	// Tracer records events of the packet pipeline, e.g. for qlog export or
	// metrics gathering.
	Tracer logging.ConnectionTracer
}

// Clone clones a Config
func (c *Config) Clone() *Config {
	copy := *c
	return &copy
}

func validateConfig(config *Config) error {
	if config == nil {
		return nil
	}
	if config.AckDelayExponent > 20 {
		return errors.New("invalid value for Config.AckDelayExponent")
	}
	if config.MaxAckDelay < 0 || config.LossDetectionTimeout < 0 {
		return errors.New("durations in the Config must not be negative")
	}
	return nil
}

// populateConfig populates fields in the quincy.Config with their default values, if none are set
// it may be called with nil
func populateConfig(config *Config) *Config {
	if config == nil {
		config = &Config{}
	}
	versions := config.Versions
	if len(versions) == 0 {
		versions = protocol.SupportedVersions
	}
	ackDelayExponent := config.AckDelayExponent
	if ackDelayExponent == 0 {
		ackDelayExponent = protocol.AckDelayExponent
	}
	maxAckDelay := config.MaxAckDelay
	if maxAckDelay == 0 {
		maxAckDelay = protocol.MaxAckDelay
	}
	lossDetectionTimeout := config.LossDetectionTimeout
	if lossDetectionTimeout == 0 {
		lossDetectionTimeout = protocol.LossDetectionTimeout
	}
	idleTimeout := config.MaxIdleTimeout
	if idleTimeout == 0 {
		idleTimeout = protocol.DefaultIdleTimeout
	}
	maxPacketSize := config.MaxPacketSize
	if maxPacketSize == 0 {
		maxPacketSize = protocol.MaxPacketSize
	}
	connIDLen := config.ConnectionIDLength
	if connIDLen == 0 {
		connIDLen = protocol.DefaultConnectionIDLength
	}

	return &Config{
		Versions:             versions,
		AckDelayExponent:     ackDelayExponent,
		MaxAckDelay:          maxAckDelay,
		LossDetectionTimeout: lossDetectionTimeout,
		MaxIdleTimeout:       idleTimeout,
		MaxPacketSize:        maxPacketSize,
		ConnectionIDLength:   connIDLen,
		Tracer:               config.Tracer,
	}
}
