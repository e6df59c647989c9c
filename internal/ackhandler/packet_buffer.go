package ackhandler

import (
	"github.com/protocol7/quincy/internal/protocol"
	"github.com/protocol7/quincy/internal/qerr"
	"github.com/protocol7/quincy/internal/utils"
	"github.com/protocol7/quincy/internal/wire"
	"github.com/protocol7/quincy/logging"
)

// A bufferedPacket is an in-flight packet: it carried at least one
// ack-eliciting frame and hasn't been acknowledged or declared lost yet.
type bufferedPacket struct {
	packet          *wire.Packet
	encryptionLevel protocol.EncryptionLevel
	sentTimeNanos   int64
}

// The packetBuffer records every ack-eliciting outbound packet and retires it
// when it appears in an ACK block of a received ACK frame.
type packetBuffer struct {
	packets map[protocol.PacketNumber]*bufferedPacket

	largestAcked protocol.PacketNumber

	ackListener AckListener // may be nil
	tracer      logging.ConnectionTracer
	logger      utils.Logger
}

func newPacketBuffer(ackListener AckListener, tracer logging.ConnectionTracer, logger utils.Logger) *packetBuffer {
	return &packetBuffer{
		packets:      make(map[protocol.PacketNumber]*bufferedPacket),
		largestAcked: protocol.InvalidPacketNumber,
		ackListener:  ackListener,
		tracer:       tracer,
		logger:       logger,
	}
}

// SentPacket buffers an outbound packet if it is ack-eliciting.
// It must be called before the packet is handed to the transport, so that a
// near-instant ACK can't race ahead of the buffer write.
func (b *packetBuffer) SentPacket(p *wire.Packet, nowNanos int64) {
	if !HasAckElicitingFrames(p.Frames) {
		return
	}
	b.packets[p.PacketNumber()] = &bufferedPacket{
		packet:          p,
		encryptionLevel: encryptionLevelForPacketType(p.Type()),
		sentTimeNanos:   nowNanos,
	}
	b.logger.Debugf("Buffered packet %d", p.PacketNumber())
}

// ReceivedAck processes an ACK frame received from the peer.
// Every packet number covered by one of its ACK blocks is removed from the
// buffer. Removal is idempotent: an ack for a packet number that is not
// buffered is silently tolerated. The peer may be acking a retransmission we
// already retired, or a standalone ACK packet we never buffered.
func (b *packetBuffer) ReceivedAck(ack *wire.AckFrame) error {
	if err := validateAck(ack); err != nil {
		return err
	}
	b.largestAcked = protocol.MaxPacketNumber(b.largestAcked, ack.LargestAcked())

	for _, r := range ack.AckRanges {
		// The range expansion is deliberately explicit.
		// ACK blocks are small in practice.
		for pn := r.Smallest; pn <= r.Largest; pn++ {
			p, ok := b.packets[pn]
			if !ok {
				continue
			}
			delete(b.packets, pn)
			b.logger.Debugf("Acked packet %d", pn)
			if b.tracer != nil {
				b.tracer.AckedPacket(p.encryptionLevel, pn)
			}
			if b.ackListener != nil {
				b.ackListener.OnAck(pn)
			}
		}
	}
	return nil
}

func validateAck(ack *wire.AckFrame) error {
	for _, r := range ack.AckRanges {
		if r.Smallest > r.Largest {
			return qerr.NewError(qerr.ProtocolViolation, "Received ACK block with smallest greater than largest")
		}
	}
	return nil
}

// Remove drops a packet from the buffer, e.g. when the transport reported a
// send failure for it.
func (b *packetBuffer) Remove(pn protocol.PacketNumber) {
	delete(b.packets, pn)
}

// DropPackets retires all buffered packets of the given encryption level
// without resending them. It is called when that level's keys are discarded.
func (b *packetBuffer) DropPackets(encLevel protocol.EncryptionLevel) {
	for pn, p := range b.packets {
		if p.encryptionLevel != encLevel {
			continue
		}
		delete(b.packets, pn)
		if b.tracer != nil {
			b.tracer.LostPacket(encLevel, pn, logging.PacketLossKeysDropped)
		}
	}
	if b.tracer != nil {
		b.tracer.DroppedEncryptionLevel(encLevel)
	}
}

// Clear drops all buffered packets. Called on connection close.
func (b *packetBuffer) Clear() {
	b.packets = make(map[protocol.PacketNumber]*bufferedPacket)
}

// LargestAcked is the largest packet number that ever appeared in a received
// ACK, regardless of whether that packet number was buffered.
func (b *packetBuffer) LargestAcked() protocol.PacketNumber {
	return b.largestAcked
}

func (b *packetBuffer) Len() int {
	return len(b.packets)
}

// Iterate calls cb for every buffered packet, in no particular order.
func (b *packetBuffer) Iterate(cb func(protocol.PacketNumber, *bufferedPacket) bool) {
	for pn, p := range b.packets {
		if !cb(pn, p) {
			return
		}
	}
}

// snapshot returns the buffered packet numbers. Only used in tests.
func (b *packetBuffer) snapshot() map[protocol.PacketNumber]struct{} {
	pns := make(map[protocol.PacketNumber]struct{}, len(b.packets))
	for pn := range b.packets {
		pns[pn] = struct{}{}
	}
	return pns
}

func encryptionLevelForPacketType(t protocol.PacketType) protocol.EncryptionLevel {
	switch t {
	case protocol.PacketTypeInitial:
		return protocol.EncryptionInitial
	case protocol.PacketTypeHandshake:
		return protocol.EncryptionHandshake
	case protocol.PacketType0RTT:
		return protocol.Encryption0RTT
	default:
		return protocol.Encryption1RTT
	}
}
