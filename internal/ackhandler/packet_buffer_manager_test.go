package ackhandler

import (
	"errors"
	"time"

	mockackhandler "github.com/protocol7/quincy/internal/mocks/ackhandler"
	"github.com/protocol7/quincy/internal/protocol"
	"github.com/protocol7/quincy/internal/qerr"
	"github.com/protocol7/quincy/internal/utils"
	"github.com/protocol7/quincy/internal/wire"

	"go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Packet Buffer Manager", func() {
	var (
		manager    *PacketBufferManager
		mockCtrl   *gomock.Controller
		ctx        *mockackhandler.MockPipelineContext
		sender     *mockackhandler.MockFrameSender
		scheduler  *captureScheduler
		handle     *fakeTimerHandle
		ticker     *testTicker
		resendTask func()
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		ctx = mockackhandler.NewMockPipelineContext(mockCtrl)
		sender = mockackhandler.NewMockFrameSender(mockCtrl)
		handle = &fakeTimerHandle{}
		scheduler = &captureScheduler{handle: handle}
		ticker = &testTicker{now: 2e12}

		ctx.EXPECT().State().Return(protocol.StateReady).AnyTimes()

		manager = NewPacketBufferManager(
			nil,
			sender,
			scheduler,
			ticker,
			protocol.AckDelayExponent,
			protocol.MaxAckDelay,
			protocol.LossDetectionTimeout,
			nil,
			utils.DefaultLogger,
		)
		Expect(scheduler.period).To(Equal(protocol.MaxAckDelay))
		resendTask = scheduler.task
	})

	ackFrame := func(ranges ...wire.AckRange) *wire.AckFrame {
		return &wire.AckFrame{DelayTime: 123 * time.Microsecond, AckRanges: ranges}
	}

	It("doesn't ack packets that only contain acks", func() {
		ackPacket := shortHeaderPacket(1, ackFrame(wire.AckRange{Smallest: 7, Largest: 8}))
		ctx.EXPECT().Next(ackPacket)
		Expect(manager.OnReceivePacket(ackPacket, ctx)).To(Succeed())
		Expect(manager.bufferSnapshot()).To(BeEmpty())

		pingPacket := shortHeaderPacket(2, &wire.PingFrame{})
		var sent wire.Frame
		ctx.EXPECT().Send(gomock.Any()).Do(func(f wire.Frame) { sent = f }).Return(nil)
		ctx.EXPECT().Next(pingPacket)
		Expect(manager.OnReceivePacket(pingPacket, ctx)).To(Succeed())

		Expect(sent).To(BeAssignableToTypeOf(&wire.AckFrame{}))
		Expect(sent.(*wire.AckFrame).AckRanges).To(Equal([]wire.AckRange{{Smallest: 1, Largest: 2}}))
	})

	It("acks a PING with the computed ack delay", func() {
		ackPacket := shortHeaderPacket(5, ackFrame(wire.AckRange{Smallest: 7, Largest: 8}))
		ctx.EXPECT().Next(ackPacket)
		Expect(manager.OnReceivePacket(ackPacket, ctx)).To(Succeed())

		ticker.now += (536 * time.Microsecond).Nanoseconds()

		pingPacket := shortHeaderPacket(2, &wire.PingFrame{})
		var sent wire.Frame
		ctx.EXPECT().Send(gomock.Any()).Do(func(f wire.Frame) { sent = f }).Return(nil)
		ctx.EXPECT().Next(pingPacket)
		Expect(manager.OnReceivePacket(pingPacket, ctx)).To(Succeed())

		ack := sent.(*wire.AckFrame)
		Expect(ack.DelayTime).To(Equal(536 * time.Microsecond))
		Expect(ack.AckRanges).To(Equal([]wire.AckRange{
			{Smallest: 5, Largest: 5},
			{Smallest: 2, Largest: 2},
		}))
	})

	It("defers acking of Initial packets", func() {
		p := initialPacket(0, &wire.CryptoFrame{Data: []byte("client hello")})
		ctx.EXPECT().Next(p)
		Expect(manager.OnReceivePacket(p, ctx)).To(Succeed())
	})

	It("buffers a sent packet and forwards it", func() {
		pingPacket := shortHeaderPacket(2, &wire.PingFrame{})
		ctx.EXPECT().Next(pingPacket)
		Expect(manager.BeforeSendPacket(pingPacket, ctx)).To(Succeed())
		Expect(manager.bufferSnapshot()).To(HaveKey(protocol.PacketNumber(2)))
	})

	It("retires a sent packet when it is acked", func() {
		pingPacket := shortHeaderPacket(2, &wire.PingFrame{})
		ctx.EXPECT().Next(pingPacket)
		Expect(manager.BeforeSendPacket(pingPacket, ctx)).To(Succeed())
		Expect(manager.bufferSnapshot()).To(HaveKey(protocol.PacketNumber(2)))

		ackPacket := shortHeaderPacket(3, ackFrame(wire.AckRange{Smallest: 2, Largest: 2}))
		ctx.EXPECT().Next(ackPacket)
		Expect(manager.OnReceivePacket(ackPacket, ctx)).To(Succeed())
		Expect(manager.bufferSnapshot()).To(BeEmpty())
		Expect(manager.LargestAcked()).To(Equal(protocol.PacketNumber(2)))
	})

	It("resends a timed-out packet through the frame sender", func() {
		pingPacket := shortHeaderPacket(2, &wire.PingFrame{})
		ctx.EXPECT().Next(pingPacket)
		Expect(manager.BeforeSendPacket(pingPacket, ctx)).To(Succeed())

		ticker.now = 3e12

		sender.EXPECT().Send(&wire.PingFrame{}, protocol.Encryption1RTT)
		resendTask()
		Expect(manager.bufferSnapshot()).To(BeEmpty())
	})

	It("acks a STREAM frame received after the handshake completed", func() {
		p := shortHeaderPacket(3, &wire.StreamFrame{StreamID: 4, Data: []byte("foobar")})
		var sent wire.Frame
		ctx.EXPECT().Send(gomock.Any()).Do(func(f wire.Frame) { sent = f }).Return(nil)
		ctx.EXPECT().Next(p)
		Expect(manager.OnReceivePacket(p, ctx)).To(Succeed())
		Expect(sent.(*wire.AckFrame).AckRanges).To(Equal([]wire.AckRange{{Smallest: 3, Largest: 3}}))
	})

	It("piggybacks pending acks onto an outgoing packet", func() {
		ackPacket := shortHeaderPacket(1, ackFrame(wire.AckRange{Smallest: 7, Largest: 8}))
		ctx.EXPECT().Next(ackPacket)
		Expect(manager.OnReceivePacket(ackPacket, ctx)).To(Succeed())

		pingPacket := shortHeaderPacket(2, &wire.PingFrame{})
		ctx.EXPECT().Next(pingPacket)
		Expect(manager.BeforeSendPacket(pingPacket, ctx)).To(Succeed())

		Expect(pingPacket.Frames).To(HaveLen(2))
		ack, ok := pingPacket.Frames[1].(*wire.AckFrame)
		Expect(ok).To(BeTrue())
		Expect(ack.AckRanges).To(Equal([]wire.AckRange{{Smallest: 1, Largest: 1}}))
	})

	It("processes the same ACK twice without further effect", func() {
		pingPacket := shortHeaderPacket(2, &wire.PingFrame{})
		ctx.EXPECT().Next(pingPacket)
		Expect(manager.BeforeSendPacket(pingPacket, ctx)).To(Succeed())

		ackPacket := shortHeaderPacket(3, ackFrame(wire.AckRange{Smallest: 2, Largest: 2}))
		ctx.EXPECT().Next(ackPacket)
		Expect(manager.OnReceivePacket(ackPacket, ctx)).To(Succeed())
		buffer := manager.bufferSnapshot()
		largestAcked := manager.LargestAcked()

		duplicate := shortHeaderPacket(4, ackFrame(wire.AckRange{Smallest: 2, Largest: 2}))
		ctx.EXPECT().Next(duplicate)
		Expect(manager.OnReceivePacket(duplicate, ctx)).To(Succeed())
		Expect(manager.bufferSnapshot()).To(Equal(buffer))
		Expect(manager.LargestAcked()).To(Equal(largestAcked))
	})

	It("keeps the buffer equal to the set of in-flight packet numbers", func() {
		for pn := protocol.PacketNumber(0); pn < 5; pn++ {
			p := shortHeaderPacket(pn, &wire.PingFrame{})
			ctx.EXPECT().Next(p)
			Expect(manager.BeforeSendPacket(p, ctx)).To(Succeed())
		}
		// ack 1 and 2
		ackPacket := shortHeaderPacket(6, ackFrame(wire.AckRange{Smallest: 1, Largest: 2}))
		ctx.EXPECT().Send(gomock.Any()).Return(nil).AnyTimes()
		ctx.EXPECT().Next(ackPacket)
		Expect(manager.OnReceivePacket(ackPacket, ctx)).To(Succeed())
		// lose 0
		sender.EXPECT().Send(gomock.Any(), gomock.Any()).AnyTimes()
		ticker.now = 3e12
		resendTask()

		Expect(manager.bufferSnapshot()).To(BeEmpty())
	})

	It("drops the buffer entry when forwarding fails", func() {
		pingPacket := shortHeaderPacket(2, &wire.PingFrame{})
		testErr := errors.New("test error")
		ctx.EXPECT().Next(pingPacket).Return(testErr)
		Expect(manager.BeforeSendPacket(pingPacket, ctx)).To(MatchError(testErr))
		Expect(manager.bufferSnapshot()).To(BeEmpty())
	})

	It("stops processing a packet with a malformed ACK", func() {
		p := shortHeaderPacket(1, ackFrame(wire.AckRange{Smallest: 8, Largest: 7}))
		err := manager.OnReceivePacket(p, ctx)
		Expect(err).To(HaveOccurred())
		Expect(err.(*qerr.QuicError).ErrorCode).To(Equal(qerr.ProtocolViolation))
	})

	It("refuses data frames before the handshake completed", func() {
		handshakingCtx := mockackhandler.NewMockPipelineContext(mockCtrl)
		handshakingCtx.EXPECT().State().Return(protocol.StateHandshaking).AnyTimes()
		p := shortHeaderPacket(3, &wire.StreamFrame{StreamID: 4, Data: []byte("foobar")})
		err := manager.OnReceivePacket(p, handshakingCtx)
		Expect(err).To(HaveOccurred())
		Expect(err.(*qerr.QuicError).ErrorCode).To(Equal(qerr.ProtocolViolation))
	})

	It("flushes immediately when the pending ack queue is full", func() {
		manager.acks = newAckAggregator(protocol.AckDelayExponent, 2, utils.DefaultLogger)
		p1 := shortHeaderPacket(1, ackFrame(wire.AckRange{Smallest: 7, Largest: 8}))
		ctx.EXPECT().Next(p1)
		Expect(manager.OnReceivePacket(p1, ctx)).To(Succeed())

		// the second ack-only packet fills the queue and forces a flush
		p2 := shortHeaderPacket(2, ackFrame(wire.AckRange{Smallest: 7, Largest: 8}))
		var sent wire.Frame
		ctx.EXPECT().Send(gomock.Any()).Do(func(f wire.Frame) { sent = f }).Return(nil)
		ctx.EXPECT().Next(p2)
		Expect(manager.OnReceivePacket(p2, ctx)).To(Succeed())
		Expect(sent.(*wire.AckFrame).AckRanges).To(Equal([]wire.AckRange{{Smallest: 1, Largest: 2}}))
	})

	It("hands out strictly increasing packet numbers", func() {
		Expect(manager.PeekPacketNumber()).To(Equal(protocol.PacketNumber(0)))
		Expect(manager.PopPacketNumber()).To(Equal(protocol.PacketNumber(0)))
		Expect(manager.PopPacketNumber()).To(Equal(protocol.PacketNumber(1)))
		Expect(manager.PeekPacketNumber()).To(Equal(protocol.PacketNumber(2)))
	})

	It("drops buffered packets when an encryption level is dropped", func() {
		p := initialPacket(0, &wire.CryptoFrame{Data: []byte("client hello")})
		ctx.EXPECT().Next(p)
		Expect(manager.BeforeSendPacket(p, ctx)).To(Succeed())
		Expect(manager.bufferSnapshot()).To(HaveKey(protocol.PacketNumber(0)))

		manager.DropPackets(protocol.EncryptionInitial)
		Expect(manager.bufferSnapshot()).To(BeEmpty())
	})

	Context("closing", func() {
		It("cancels the resend task", func() {
			manager.Close()
			Expect(handle.cancelled).To(Equal(1))
		})

		It("rejects packets after closing", func() {
			manager.Close()
			Expect(manager.BeforeSendPacket(shortHeaderPacket(2, &wire.PingFrame{}), ctx)).To(MatchError(ErrClosed))
			Expect(manager.OnReceivePacket(shortHeaderPacket(3, &wire.PingFrame{}), ctx)).To(MatchError(ErrClosed))
		})

		It("is idempotent", func() {
			manager.Close()
			manager.Close()
			Expect(handle.cancelled).To(Equal(1))
		})

		It("stops the resend sweep", func() {
			pingPacket := shortHeaderPacket(2, &wire.PingFrame{})
			ctx.EXPECT().Next(pingPacket)
			Expect(manager.BeforeSendPacket(pingPacket, ctx)).To(Succeed())
			manager.Close()
			ticker.now = 3e12
			resendTask() // must not call the frame sender
		})
	})
})
