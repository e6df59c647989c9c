package ackhandler

import (
	"sort"
	"time"

	"github.com/protocol7/quincy/internal/protocol"
	"github.com/protocol7/quincy/internal/utils"
	"github.com/protocol7/quincy/internal/wire"
)

// The ackAggregator tracks the packet numbers received from the peer and
// coalesces them into the ACK blocks of outgoing ACK frames.
type ackAggregator struct {
	pending    map[protocol.PacketNumber]struct{}
	maxPending int

	// ackDelayExponent is the exponent this endpoint advertised. The delay
	// field of outgoing ACK frames is scaled with it on the wire.
	ackDelayExponent uint8

	// arrival time of the numerically largest pending packet number.
	// The ack delay is computed against this packet, not against the most
	// recently received one.
	largestPending      protocol.PacketNumber
	largestArrivalNanos int64

	logger utils.Logger
}

func newAckAggregator(ackDelayExponent uint8, maxPending int, logger utils.Logger) *ackAggregator {
	return &ackAggregator{
		pending:          make(map[protocol.PacketNumber]struct{}),
		maxPending:       maxPending,
		ackDelayExponent: ackDelayExponent,
		largestPending:   protocol.InvalidPacketNumber,
		logger:           logger,
	}
}

// Record adds a received packet number to the pending set.
// Duplicates are idempotent.
func (a *ackAggregator) Record(pn protocol.PacketNumber, nowNanos int64) {
	a.pending[pn] = struct{}{}
	if pn > a.largestPending {
		a.largestPending = pn
		a.largestArrivalNanos = nowNanos
	}
}

// HasPending says if any received packet numbers are waiting to be acked.
func (a *ackAggregator) HasPending() bool {
	return len(a.pending) > 0
}

// IsFull says if the pending set reached its bound. A full set forces an
// immediate flush, packet numbers are never dropped silently.
func (a *ackAggregator) IsFull() bool {
	return len(a.pending) >= a.maxPending
}

// ShouldFlush decides whether receiving this packet warrants a standalone ACK.
// Initial packets are acked together with the handshake response, and acks
// don't elicit acks.
func (a *ackAggregator) ShouldFlush(p *wire.Packet) bool {
	if p.Type() == protocol.PacketTypeInitial {
		return false
	}
	return HasAckElicitingFrames(p.Frames)
}

// BuildAck drains the pending set into a single ACK frame.
// It returns nil if no packet numbers are pending.
func (a *ackAggregator) BuildAck(nowNanos int64) *wire.AckFrame {
	if len(a.pending) == 0 {
		return nil
	}
	delay := time.Duration(nowNanos-a.largestArrivalNanos) * time.Nanosecond
	// The wire encoding right-shifts the microsecond delay by the ack delay
	// exponent. Quantize here, so the frame reports the delay the peer will
	// decode.
	granularity := time.Microsecond << a.ackDelayExponent
	delay = delay / granularity * granularity
	ack := &wire.AckFrame{
		AckRanges: a.drain(),
		DelayTime: delay,
	}
	a.largestPending = protocol.InvalidPacketNumber
	a.largestArrivalNanos = 0
	if a.logger.Debug() {
		a.logger.Debugf("Drained acks into %d block(s), delay %s", len(ack.AckRanges), delay)
	}
	return ack
}

// drain empties the pending set and coalesces it into a minimal list of
// disjoint ACK ranges, ordered largest first as the wire format requires.
func (a *ackAggregator) drain() []wire.AckRange {
	pns := make([]protocol.PacketNumber, 0, len(a.pending))
	for pn := range a.pending {
		pns = append(pns, pn)
	}
	a.pending = make(map[protocol.PacketNumber]struct{})
	sort.Slice(pns, func(i, j int) bool { return pns[i] < pns[j] })

	var ranges []wire.AckRange
	lower := pns[0]
	upper := pns[0]
	for _, pn := range pns[1:] {
		if pn == upper { // duplicate
			continue
		}
		if pn == upper+1 {
			upper = pn
			continue
		}
		ranges = append(ranges, wire.AckRange{Smallest: lower, Largest: upper})
		lower = pn
		upper = pn
	}
	ranges = append(ranges, wire.AckRange{Smallest: lower, Largest: upper})

	// reverse into wire order
	for i, j := 0, len(ranges)-1; i < j; i, j = i+1, j-1 {
		ranges[i], ranges[j] = ranges[j], ranges[i]
	}
	return ranges
}
