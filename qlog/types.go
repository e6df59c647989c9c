package qlog

import (
	"fmt"

	"github.com/protocol7/quincy/internal/protocol"
)

type connectionID protocol.ConnectionID

func (c connectionID) String() string {
	return fmt.Sprintf("%x", []byte(c))
}

// category is the qlog event category.
type category uint8

const (
	categoryTransport category = iota
	categoryRecovery
)

func (c category) String() string {
	switch c {
	case categoryTransport:
		return "transport"
	case categoryRecovery:
		return "recovery"
	default:
		panic("unknown category")
	}
}

// packetType is the packet type, as it is named in qlog.
type packetType protocol.PacketType

func (t packetType) String() string {
	switch protocol.PacketType(t) {
	case protocol.PacketTypeInitial:
		return "initial"
	case protocol.PacketTypeHandshake:
		return "handshake"
	case protocol.PacketTypeRetry:
		return "retry"
	case protocol.PacketType0RTT:
		return "0RTT"
	case protocol.PacketTypeShort:
		return "1RTT"
	default:
		panic("unknown packet type")
	}
}

func packetTypeFromEncryptionLevel(encLevel protocol.EncryptionLevel) packetType {
	switch encLevel {
	case protocol.EncryptionInitial:
		return packetType(protocol.PacketTypeInitial)
	case protocol.EncryptionHandshake:
		return packetType(protocol.PacketTypeHandshake)
	case protocol.Encryption0RTT:
		return packetType(protocol.PacketType0RTT)
	case protocol.Encryption1RTT:
		return packetType(protocol.PacketTypeShort)
	default:
		panic("unknown encryption level")
	}
}
