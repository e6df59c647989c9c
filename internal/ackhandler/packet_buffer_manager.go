package ackhandler

import (
	"errors"
	"sync"
	"time"

	"github.com/protocol7/quincy/internal/protocol"
	"github.com/protocol7/quincy/internal/qerr"
	"github.com/protocol7/quincy/internal/utils"
	"github.com/protocol7/quincy/internal/wire"
	"github.com/protocol7/quincy/logging"
)

// ErrClosed is returned when a packet is offered to the pipeline after Close.
var ErrClosed = errors.New("ackhandler: reliability pipeline is closed")

// The PacketBufferManager is the reliability stage of the packet pipeline.
// It sits between the decrypted-packet ingress and the frame-serialization
// egress: egress packets are buffered until they are acknowledged, ingress
// packet numbers are aggregated into ACK frames, and a periodic sweep resends
// the frames of timed-out packets.
//
// All entry points, including the resend tick, serialize on one mutex.
type PacketBufferManager struct {
	mutex  sync.Mutex
	closed bool

	buffer   *packetBuffer
	acks     *ackAggregator
	detector *lossDetector
	pns      *packetNumberGenerator

	ticker Ticker
	task   TimerHandle

	tracer logging.ConnectionTracer
	logger utils.Logger
}

// NewPacketBufferManager creates the reliability stage and registers its
// resend task with the scheduler. The caller owns the scheduler, Close only
// cancels the task registered here.
// ackDelayExponent is the exponent this endpoint advertised
// (Config.AckDelayExponent); outgoing ACK delays are scaled with it.
func NewPacketBufferManager(
	ackListener AckListener,
	frameSender FrameSender,
	scheduler Scheduler,
	ticker Ticker,
	ackDelayExponent uint8,
	maxAckDelay time.Duration,
	lossTimeout time.Duration,
	tracer logging.ConnectionTracer,
	logger utils.Logger,
) *PacketBufferManager {
	buffer := newPacketBuffer(ackListener, tracer, logger)
	m := &PacketBufferManager{
		buffer:   buffer,
		acks:     newAckAggregator(ackDelayExponent, protocol.MaxPendingAcks, logger),
		detector: newLossDetector(buffer, frameSender, ticker, lossTimeout, tracer, logger),
		pns:      newPacketNumberGenerator(0),
		ticker:   ticker,
		tracer:   tracer,
		logger:   logger,
	}
	period := max(maxAckDelay, protocol.TimerGranularity)
	m.task = scheduler.ScheduleAtFixedRate(m.resendTick, period, period)
	return m
}

// BeforeSendPacket records an egress packet and forwards it to the next stage
// of the egress pipeline. Pending acks are piggybacked onto the packet.
// If forwarding fails, the packet is not kept for retransmission.
func (m *PacketBufferManager) BeforeSendPacket(p *wire.Packet, ctx PipelineContext) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return ErrClosed
	}

	if m.acks.HasPending() && canCarryACKs(p.Type()) {
		if ack := m.acks.BuildAck(m.ticker.NowNanos()); ack != nil {
			p.AddFrame(ack)
		}
	}

	// Insertion must happen before forwarding, so that a near-instant ack
	// can't race ahead of the buffer write.
	m.buffer.SentPacket(p, m.ticker.NowNanos())
	for _, f := range p.Frames {
		wire.LogFrame(m.logger, f, true)
	}
	if m.tracer != nil {
		m.tracer.SentPacket(p.Header, p.Size(), p.Frames)
	}

	if err := ctx.Next(p); err != nil {
		// The packet never left, there is no ack to wait for.
		m.buffer.Remove(p.PacketNumber())
		return err
	}
	return nil
}

// OnReceivePacket processes an ingress packet: its packet number is queued
// for acknowledgment, any ACK frames it carries retire buffered packets, and,
// depending on the flush policy, a standalone ACK is emitted. The packet is
// then forwarded to the next ingress stage.
func (m *PacketBufferManager) OnReceivePacket(p *wire.Packet, ctx PipelineContext) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return ErrClosed
	}

	if err := checkState(p, ctx.State()); err != nil {
		return err
	}

	m.acks.Record(p.PacketNumber(), m.ticker.NowNanos())
	m.logger.Debugf("Queued ack for packet %d", p.PacketNumber())
	for _, f := range p.Frames {
		wire.LogFrame(m.logger, f, false)
	}
	if m.tracer != nil {
		m.tracer.ReceivedPacket(p.Header, p.Size(), p.Frames)
	}

	for _, f := range p.Frames {
		ack, ok := f.(*wire.AckFrame)
		if !ok {
			continue
		}
		if err := m.buffer.ReceivedAck(ack); err != nil {
			return err
		}
	}

	if m.acks.ShouldFlush(p) || m.acks.IsFull() {
		if err := m.flushAcks(ctx); err != nil {
			return err
		}
	}

	return ctx.Next(p)
}

// flushAcks drains the pending set into a standalone ACK frame and hands it
// to the egress path. The resulting ACK packet is itself not ack-eliciting
// and is never buffered for retransmission.
func (m *PacketBufferManager) flushAcks(ctx PipelineContext) error {
	ack := m.acks.BuildAck(m.ticker.NowNanos())
	if ack == nil {
		return nil
	}
	m.logger.Debugf("Flushed acks %v", ack.AckRanges)
	return ctx.Send(ack)
}

// DropPackets retires all buffered packets of an encryption level without
// resend. Frames sent under keys that were discarded must not reappear under
// a later level.
func (m *PacketBufferManager) DropPackets(encLevel protocol.EncryptionLevel) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.buffer.DropPackets(encLevel)
}

// LargestAcked is the largest packet number that ever appeared in an ACK
// received from the peer.
func (m *PacketBufferManager) LargestAcked() protocol.PacketNumber {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.buffer.LargestAcked()
}

// Close cancels the resend task and drops all buffered packets.
// Packets offered after Close are rejected with ErrClosed.
func (m *PacketBufferManager) Close() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.task.Cancel()
	m.buffer.Clear()
	if m.tracer != nil {
		m.tracer.Close()
	}
}

// PeekPacketNumber returns the packet number for the next outbound packet,
// without consuming it. The packet synthesis stage downstream uses it, e.g.
// when it wraps a flushed ACK frame into a short header packet.
func (m *PacketBufferManager) PeekPacketNumber() protocol.PacketNumber {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.pns.Peek()
}

// PopPacketNumber returns and consumes the packet number for the next
// outbound packet.
func (m *PacketBufferManager) PopPacketNumber() protocol.PacketNumber {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.pns.Pop()
}

// bufferSnapshot returns the buffered packet numbers. Only used in tests.
func (m *PacketBufferManager) bufferSnapshot() map[protocol.PacketNumber]struct{} {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.buffer.snapshot()
}

func (m *PacketBufferManager) resendTick() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.closed {
		return
	}
	m.detector.OnTick()
}

// checkState refuses data frames while the connection state machine doesn't
// admit them yet.
func checkState(p *wire.Packet, state protocol.ConnectionState) error {
	if state.AdmitsData() {
		return nil
	}
	for _, f := range p.Frames {
		switch f.(type) {
		case *wire.StreamFrame, *wire.ResetStreamFrame:
			return qerr.NewError(qerr.ProtocolViolation, "received a data frame in state "+state.String())
		}
	}
	return nil
}

// canCarryACKs says if ACK frames may appear in a packet of this type.
// 0-RTT packets can't contain ACK frames, and Retry packets carry no frames
// at all.
func canCarryACKs(t protocol.PacketType) bool {
	return t != protocol.PacketType0RTT && t != protocol.PacketTypeRetry
}
