package ackhandler

import (
	"time"

	"github.com/protocol7/quincy/internal/protocol"
	"github.com/protocol7/quincy/internal/utils"
	"github.com/protocol7/quincy/logging"
)

// The lossDetector declares a buffered packet lost once it has been
// outstanding for longer than the loss timeout, and resends its ack-eliciting
// frames under a fresh packet number.
type lossDetector struct {
	buffer *packetBuffer
	sender FrameSender
	ticker Ticker

	timeout time.Duration

	tracer logging.ConnectionTracer
	logger utils.Logger
}

func newLossDetector(
	buffer *packetBuffer,
	sender FrameSender,
	ticker Ticker,
	timeout time.Duration,
	tracer logging.ConnectionTracer,
	logger utils.Logger,
) *lossDetector {
	return &lossDetector{
		buffer: buffer,
		sender: sender,
		ticker: ticker,
		// Minimum time of granularity before packets are deemed lost.
		timeout: max(timeout, protocol.TimerGranularity),
		tracer:  tracer,
		logger:  logger,
	}
}

// OnTick sweeps the packet buffer for timed-out packets.
// The caller must hold the lock serializing the reliability pipeline.
func (d *lossDetector) OnTick() {
	now := d.ticker.NowNanos()

	type lostPacket struct {
		pn protocol.PacketNumber
		p  *bufferedPacket
	}
	var lost []lostPacket
	d.buffer.Iterate(func(pn protocol.PacketNumber, p *bufferedPacket) bool {
		if now-p.sentTimeNanos > d.timeout.Nanoseconds() {
			lost = append(lost, lostPacket{pn: pn, p: p})
		}
		return true
	})

	for _, l := range lost {
		d.buffer.Remove(l.pn)
		d.logger.Debugf("Lost packet %d, resending its frames", l.pn)
		if d.tracer != nil {
			d.tracer.LostPacket(l.p.encryptionLevel, l.pn, logging.PacketLossTimeThreshold)
		}
		d.resend(l.p)
	}
}

// resend hands the ack-eliciting frames of a lost packet to the frame sender,
// which repackages them under a new packet number at the same encryption
// level. ACK frames are state, not payload, they are not resent.
func (d *lossDetector) resend(p *bufferedPacket) {
	for _, f := range p.packet.Frames {
		if !IsFrameAckEliciting(f) {
			continue
		}
		if err := d.sender.Send(f, p.encryptionLevel); err != nil {
			// A send failure is fatal for the packet, but not for the
			// connection. The next tick will not see this packet again.
			d.logger.Errorf("Resending frame of packet %d failed: %s", p.packet.PacketNumber(), err)
		}
	}
}
