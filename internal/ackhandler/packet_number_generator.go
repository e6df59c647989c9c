package ackhandler

import "github.com/protocol7/quincy/internal/protocol"

// The packetNumberGenerator generates the packet number for the next packet.
// Packet numbers are strictly increasing and never reused.
type packetNumberGenerator struct {
	next protocol.PacketNumber
}

func newPacketNumberGenerator(initial protocol.PacketNumber) *packetNumberGenerator {
	return &packetNumberGenerator{next: initial}
}

// Peek returns the packet number that will be used for the next packet
func (p *packetNumberGenerator) Peek() protocol.PacketNumber {
	return p.next
}

// Pop returns the packet number for the next packet and advances the generator
func (p *packetNumberGenerator) Pop() protocol.PacketNumber {
	next := p.next
	p.next++
	return next
}
