package ackhandler

import (
	"time"

	"github.com/protocol7/quincy/internal/protocol"
	"github.com/protocol7/quincy/internal/utils"
	"github.com/protocol7/quincy/internal/wire"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ack Aggregator", func() {
	var agg *ackAggregator

	BeforeEach(func() {
		agg = newAckAggregator(protocol.AckDelayExponent, protocol.MaxPendingAcks, utils.DefaultLogger)
	})

	Context("coalescing", func() {
		It("coalesces runs into a minimal list of ranges", func() {
			for _, pn := range []protocol.PacketNumber{1, 2, 3, 5, 6, 9} {
				agg.Record(pn, 0)
			}
			ack := agg.BuildAck(0)
			Expect(ack.AckRanges).To(Equal([]wire.AckRange{
				{Smallest: 9, Largest: 9},
				{Smallest: 5, Largest: 6},
				{Smallest: 1, Largest: 3},
			}))
		})

		It("emits a single range for contiguous packet numbers", func() {
			for pn := protocol.PacketNumber(4); pn <= 9; pn++ {
				agg.Record(pn, 0)
			}
			ack := agg.BuildAck(0)
			Expect(ack.AckRanges).To(Equal([]wire.AckRange{{Smallest: 4, Largest: 9}}))
		})

		It("emits one range per packet for isolated packet numbers", func() {
			for _, pn := range []protocol.PacketNumber{2, 4, 6} {
				agg.Record(pn, 0)
			}
			ack := agg.BuildAck(0)
			Expect(ack.AckRanges).To(HaveLen(3))
		})

		It("doesn't care about the order packets were received in", func() {
			for _, pn := range []protocol.PacketNumber{9, 1, 6, 3, 5, 2} {
				agg.Record(pn, 0)
			}
			ack := agg.BuildAck(0)
			Expect(ack.AckRanges).To(Equal([]wire.AckRange{
				{Smallest: 9, Largest: 9},
				{Smallest: 5, Largest: 6},
				{Smallest: 1, Largest: 3},
			}))
		})

		It("ignores duplicate packet numbers", func() {
			for _, pn := range []protocol.PacketNumber{1, 1, 2, 2, 2, 3} {
				agg.Record(pn, 0)
			}
			ack := agg.BuildAck(0)
			Expect(ack.AckRanges).To(Equal([]wire.AckRange{{Smallest: 1, Largest: 3}}))
		})
	})

	Context("draining", func() {
		It("returns nil when nothing is pending", func() {
			Expect(agg.BuildAck(0)).To(BeNil())
		})

		It("empties the pending set", func() {
			agg.Record(2, 0)
			Expect(agg.HasPending()).To(BeTrue())
			Expect(agg.BuildAck(0)).ToNot(BeNil())
			Expect(agg.HasPending()).To(BeFalse())
			Expect(agg.BuildAck(0)).To(BeNil())
		})
	})

	Context("ack delay", func() {
		It("computes the delay against the arrival of the largest packet number", func() {
			agg.Record(5, 0)
			agg.Record(2, (100 * time.Microsecond).Nanoseconds()) // belated, doesn't move the reference
			ack := agg.BuildAck((536 * time.Microsecond).Nanoseconds())
			Expect(ack.DelayTime).To(Equal(536 * time.Microsecond))
		})

		It("uses the arrival of a newly received larger packet number", func() {
			agg.Record(2, 0)
			agg.Record(5, (500 * time.Microsecond).Nanoseconds())
			ack := agg.BuildAck((600 * time.Microsecond).Nanoseconds())
			// 100 us, quantized to the 8 us wire granularity of exponent 3
			Expect(ack.DelayTime).To(Equal(96 * time.Microsecond))
		})

		It("quantizes the delay to the granularity of the ack delay exponent", func() {
			agg = newAckAggregator(5, protocol.MaxPendingAcks, utils.DefaultLogger)
			agg.Record(5, 0)
			ack := agg.BuildAck((100 * time.Microsecond).Nanoseconds())
			Expect(ack.DelayTime).To(Equal(96 * time.Microsecond)) // 3 * 32 us
		})

		It("resets the reference when drained", func() {
			agg.Record(5, 0)
			agg.BuildAck(0)
			agg.Record(2, (1 * time.Millisecond).Nanoseconds())
			ack := agg.BuildAck((3 * time.Millisecond).Nanoseconds())
			Expect(ack.DelayTime).To(Equal(2 * time.Millisecond))
		})
	})

	Context("flush policy", func() {
		It("defers acking of Initial packets", func() {
			Expect(agg.ShouldFlush(initialPacket(1, &wire.CryptoFrame{Data: []byte("client hello")}))).To(BeFalse())
		})

		It("doesn't ack packets that only contain acks", func() {
			p := shortHeaderPacket(1, &wire.AckFrame{AckRanges: []wire.AckRange{{Smallest: 7, Largest: 8}}})
			Expect(agg.ShouldFlush(p)).To(BeFalse())
		})

		It("acks packets containing ack-eliciting frames", func() {
			Expect(agg.ShouldFlush(shortHeaderPacket(1, &wire.PingFrame{}))).To(BeTrue())
			Expect(agg.ShouldFlush(shortHeaderPacket(2, &wire.AckFrame{AckRanges: []wire.AckRange{{Smallest: 1, Largest: 1}}}, &wire.StreamFrame{StreamID: 4, Data: []byte("foo")}))).To(BeTrue())
		})
	})

	Context("back-pressure", func() {
		It("reports a full pending set", func() {
			small := newAckAggregator(protocol.AckDelayExponent, 3, utils.DefaultLogger)
			small.Record(1, 0)
			small.Record(2, 0)
			Expect(small.IsFull()).To(BeFalse())
			small.Record(3, 0)
			Expect(small.IsFull()).To(BeTrue())
			small.BuildAck(0)
			Expect(small.IsFull()).To(BeFalse())
		})
	})
})
