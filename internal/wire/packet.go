package wire

import "github.com/protocol7/quincy/internal/protocol"

// A Packet is a decrypted QUIC packet: its header plus the ordered list of
// frames it carries.
type Packet struct {
	Header *ExtendedHeader
	Frames []Frame
}

// NewPacket constructs a packet from a header and a payload.
func NewPacket(hdr *ExtendedHeader, frames ...Frame) *Packet {
	return &Packet{Header: hdr, Frames: frames}
}

// PacketNumber returns the packet number of this packet
func (p *Packet) PacketNumber() protocol.PacketNumber {
	return p.Header.PacketNumber
}

// Type returns the packet type of this packet
func (p *Packet) Type() protocol.PacketType {
	return p.Header.Type
}

// AddFrame appends a frame to the payload
func (p *Packet) AddFrame(f Frame) {
	p.Frames = append(p.Frames, f)
}

// Size is the size of the serialized packet, header plus payload.
func (p *Packet) Size() protocol.ByteCount {
	size := p.Header.GetLength(p.Header.Version)
	for _, f := range p.Frames {
		size += f.Length(p.Header.Version)
	}
	return size
}
