// Package logging defines a logging interface for quincy.
// This package should not be considered stable
package logging

import (
	"github.com/protocol7/quincy/internal/protocol"
	"github.com/protocol7/quincy/internal/wire"
)

type (
	// A ByteCount is used to count bytes.
	ByteCount = protocol.ByteCount
	// A ConnectionID is a QUIC Connection ID.
	ConnectionID = protocol.ConnectionID
	// The EncryptionLevel is the encryption level of a packet.
	EncryptionLevel = protocol.EncryptionLevel
	// The PacketNumber is the packet number of a packet.
	PacketNumber = protocol.PacketNumber
	// The PacketType is the type of a QUIC packet.
	PacketType = protocol.PacketType
	// The Perspective is the role of a QUIC endpoint (client or server).
	Perspective = protocol.Perspective

	// A Frame is a QUIC frame.
	Frame = wire.Frame
	// An AckFrame is an ACK frame.
	AckFrame = wire.AckFrame
	// An AckRange is a range of acknowledged packet numbers.
	AckRange = wire.AckRange
	// An ExtendedHeader is a packet header.
	ExtendedHeader = wire.ExtendedHeader
)

// PacketLossReason is the reason why a packet was declared lost.
type PacketLossReason uint8

const (
	// PacketLossTimeThreshold was a packet declared lost because it wasn't
	// acknowledged within the loss detection timeout.
	PacketLossTimeThreshold PacketLossReason = iota
	// PacketLossKeysDropped was a packet declared lost because the keys of
	// its encryption level were dropped.
	PacketLossKeysDropped
)
