package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/protocol7/quincy/internal/protocol"
	"github.com/protocol7/quincy/quicvarint"
)

// ErrInvalidPacketNumberLen is returned when the packet number length field is invalid
var ErrInvalidPacketNumberLen = errors.New("invalid packet number length")

// The Header is the header of a QUIC packet.
// A nil connection ID means that the packet type doesn't carry that connection ID.
type Header struct {
	IsLongHeader bool
	Type         protocol.PacketType

	Version          protocol.VersionNumber
	DestConnectionID protocol.ConnectionID
	SrcConnectionID  protocol.ConnectionID

	Token  []byte
	Length protocol.ByteCount
}

// An ExtendedHeader is the header of a QUIC packet, including the packet number.
type ExtendedHeader struct {
	Header

	PacketNumber    protocol.PacketNumber
	PacketNumberLen protocol.PacketNumberLen
}

// ParseHeader parses the header of a packet.
// For short header packets, the length of the destination connection ID must be known in advance.
func ParseHeader(r *bytes.Reader, shortHeaderConnIDLen int) (*ExtendedHeader, error) {
	typeByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if typeByte&0x80 > 0 {
		return parseLongHeader(r, typeByte)
	}
	return parseShortHeader(r, typeByte, shortHeaderConnIDLen)
}

func parseLongHeader(r *bytes.Reader, typeByte byte) (*ExtendedHeader, error) {
	h := &ExtendedHeader{}
	h.IsLongHeader = true
	switch (typeByte & 0x30) >> 4 {
	case 0x0:
		h.Type = protocol.PacketTypeInitial
	case 0x1:
		h.Type = protocol.PacketType0RTT
	case 0x2:
		h.Type = protocol.PacketTypeHandshake
	case 0x3:
		h.Type = protocol.PacketTypeRetry
	}

	var v uint32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return nil, err
	}
	h.Version = protocol.VersionNumber(v)

	cil, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	destConnIDLen := decodeSingleConnIDLen(cil >> 4)
	srcConnIDLen := decodeSingleConnIDLen(cil & 0xf)
	h.DestConnectionID, err = protocol.ReadConnectionID(r, destConnIDLen)
	if err != nil {
		return nil, err
	}
	h.SrcConnectionID, err = protocol.ReadConnectionID(r, srcConnIDLen)
	if err != nil {
		return nil, err
	}

	if h.Type == protocol.PacketTypeRetry {
		odcil := decodeSingleConnIDLen(typeByte & 0xf)
		h.Token = make([]byte, odcil)
		if _, err := io.ReadFull(r, h.Token); err != nil {
			return nil, err
		}
		return h, nil
	}

	if h.Type == protocol.PacketTypeInitial {
		tokenLen, err := quicvarint.Read(r)
		if err != nil {
			return nil, err
		}
		if tokenLen > uint64(r.Len()) {
			return nil, io.EOF
		}
		h.Token = make([]byte, tokenLen)
		if _, err := io.ReadFull(r, h.Token); err != nil {
			return nil, err
		}
	}

	pl, err := quicvarint.Read(r)
	if err != nil {
		return nil, err
	}
	h.Length = protocol.ByteCount(pl)

	h.PacketNumberLen = packetNumberLenFromTypeByte(typeByte)
	pn, err := readPacketNumber(r, h.PacketNumberLen)
	if err != nil {
		return nil, err
	}
	h.PacketNumber = pn
	return h, nil
}

func parseShortHeader(r *bytes.Reader, typeByte byte, connIDLen int) (*ExtendedHeader, error) {
	h := &ExtendedHeader{}
	h.Type = protocol.PacketTypeShort
	var err error
	h.DestConnectionID, err = protocol.ReadConnectionID(r, connIDLen)
	if err != nil {
		return nil, err
	}
	h.PacketNumberLen = packetNumberLenFromTypeByte(typeByte)
	pn, err := readPacketNumber(r, h.PacketNumberLen)
	if err != nil {
		return nil, err
	}
	h.PacketNumber = pn
	return h, nil
}

// Write writes the header
func (h *ExtendedHeader) Write(b *bytes.Buffer, version protocol.VersionNumber) error {
	if h.IsLongHeader {
		return h.writeLongHeader(b, version)
	}
	return h.writeShortHeader(b, version)
}

func (h *ExtendedHeader) writeLongHeader(b *bytes.Buffer, _ protocol.VersionNumber) error {
	var packetType uint8
	switch h.Type {
	case protocol.PacketTypeInitial:
		packetType = 0x0
	case protocol.PacketType0RTT:
		packetType = 0x1
	case protocol.PacketTypeHandshake:
		packetType = 0x2
	case protocol.PacketTypeRetry:
		packetType = 0x3
	default:
		return fmt.Errorf("invalid long header packet type: %s", h.Type)
	}
	firstByte := 0xc0 | packetType<<4
	if h.Type != protocol.PacketTypeRetry {
		pnBits, err := packetNumberLenBits(h.PacketNumberLen)
		if err != nil {
			return err
		}
		firstByte |= pnBits
	}
	b.WriteByte(firstByte)
	binary.Write(b, binary.BigEndian, uint32(h.Version))
	b.WriteByte(encodeSingleConnIDLen(h.DestConnectionID)<<4 | encodeSingleConnIDLen(h.SrcConnectionID))
	b.Write(h.DestConnectionID.Bytes())
	b.Write(h.SrcConnectionID.Bytes())

	if h.Type == protocol.PacketTypeInitial {
		quicvarint.Write(b, uint64(len(h.Token)))
		b.Write(h.Token)
	}
	if h.Type == protocol.PacketTypeRetry {
		return nil
	}
	quicvarint.Write(b, uint64(h.Length))
	return writePacketNumber(b, h.PacketNumber, h.PacketNumberLen)
}

func (h *ExtendedHeader) writeShortHeader(b *bytes.Buffer, _ protocol.VersionNumber) error {
	pnBits, err := packetNumberLenBits(h.PacketNumberLen)
	if err != nil {
		return err
	}
	b.WriteByte(0x40 | pnBits)
	b.Write(h.DestConnectionID.Bytes())
	return writePacketNumber(b, h.PacketNumber, h.PacketNumberLen)
}

// GetLength determines the length of the header on the wire
func (h *ExtendedHeader) GetLength(_ protocol.VersionNumber) protocol.ByteCount {
	if !h.IsLongHeader {
		return 1 + protocol.ByteCount(h.DestConnectionID.Len()) + protocol.ByteCount(h.PacketNumberLen)
	}
	length := 1 /* type byte */ + 4 /* version */ + 1 /* conn ID len byte */
	length += h.DestConnectionID.Len() + h.SrcConnectionID.Len()
	if h.Type == protocol.PacketTypeInitial {
		length += quicvarint.Len(uint64(len(h.Token))) + len(h.Token)
	}
	length += quicvarint.Len(uint64(h.Length))
	length += int(h.PacketNumberLen)
	return protocol.ByteCount(length)
}

func packetNumberLenFromTypeByte(typeByte byte) protocol.PacketNumberLen {
	return protocol.PacketNumberLen(typeByte&0x3 + 1)
}

func packetNumberLenBits(pnLen protocol.PacketNumberLen) (byte, error) {
	switch pnLen {
	case protocol.PacketNumberLen1, protocol.PacketNumberLen2, protocol.PacketNumberLen3, protocol.PacketNumberLen4:
		return byte(pnLen - 1), nil
	default:
		return 0, ErrInvalidPacketNumberLen
	}
}

func readPacketNumber(r *bytes.Reader, pnLen protocol.PacketNumberLen) (protocol.PacketNumber, error) {
	switch pnLen {
	case protocol.PacketNumberLen1:
		b, err := r.ReadByte()
		return protocol.PacketNumber(b), err
	case protocol.PacketNumberLen2:
		var pn uint16
		err := binary.Read(r, binary.BigEndian, &pn)
		return protocol.PacketNumber(pn), err
	case protocol.PacketNumberLen3:
		var buf [3]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return protocol.PacketNumber(uint32(buf[2]) | uint32(buf[1])<<8 | uint32(buf[0])<<16), nil
	case protocol.PacketNumberLen4:
		var pn uint32
		err := binary.Read(r, binary.BigEndian, &pn)
		return protocol.PacketNumber(pn), err
	default:
		return 0, ErrInvalidPacketNumberLen
	}
}

func writePacketNumber(b *bytes.Buffer, pn protocol.PacketNumber, pnLen protocol.PacketNumberLen) error {
	switch pnLen {
	case protocol.PacketNumberLen1:
		b.WriteByte(uint8(pn))
	case protocol.PacketNumberLen2:
		binary.Write(b, binary.BigEndian, uint16(pn))
	case protocol.PacketNumberLen3:
		b.Write([]byte{uint8(pn >> 16), uint8(pn >> 8), uint8(pn)})
	case protocol.PacketNumberLen4:
		binary.Write(b, binary.BigEndian, uint32(pn))
	default:
		return ErrInvalidPacketNumberLen
	}
	return nil
}

func encodeSingleConnIDLen(id protocol.ConnectionID) byte {
	len := id.Len()
	if len == 0 {
		return 0
	}
	return byte(len - 3)
}

func decodeSingleConnIDLen(enc uint8) int {
	if enc == 0 {
		return 0
	}
	return int(enc) + 3
}
