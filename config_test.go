package quincy

import (
	"time"

	"github.com/protocol7/quincy/internal/protocol"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	Context("validating", func() {
		It("validates a nil config", func() {
			Expect(validateConfig(nil)).To(Succeed())
		})

		It("validates a config with normal values", func() {
			Expect(validateConfig(populateConfig(&Config{}))).To(Succeed())
		})

		It("errors on an excessive ack delay exponent", func() {
			Expect(validateConfig(&Config{AckDelayExponent: 21})).To(MatchError("invalid value for Config.AckDelayExponent"))
		})

		It("errors on negative durations", func() {
			Expect(validateConfig(&Config{MaxAckDelay: -time.Second})).To(HaveOccurred())
			Expect(validateConfig(&Config{LossDetectionTimeout: -time.Second})).To(HaveOccurred())
		})
	})

	Context("populating", func() {
		It("populates a nil config", func() {
			c := populateConfig(nil)
			Expect(c.Versions).To(Equal(protocol.SupportedVersions))
			Expect(c.AckDelayExponent).To(BeEquivalentTo(3))
			Expect(c.MaxAckDelay).To(Equal(100 * time.Millisecond))
			Expect(c.LossDetectionTimeout).To(Equal(time.Second))
			Expect(c.MaxIdleTimeout).To(Equal(30 * time.Second))
			Expect(c.MaxPacketSize).To(BeEquivalentTo(1252))
			Expect(c.ConnectionIDLength).To(Equal(4))
			Expect(c.Tracer).To(BeNil())
		})

		It("doesn't overwrite set values", func() {
			c := populateConfig(&Config{
				AckDelayExponent:     5,
				MaxAckDelay:          25 * time.Millisecond,
				LossDetectionTimeout: 500 * time.Millisecond,
				MaxIdleTimeout:       time.Minute,
				MaxPacketSize:        1350,
				ConnectionIDLength:   8,
			})
			Expect(c.AckDelayExponent).To(BeEquivalentTo(5))
			Expect(c.MaxAckDelay).To(Equal(25 * time.Millisecond))
			Expect(c.LossDetectionTimeout).To(Equal(500 * time.Millisecond))
			Expect(c.MaxIdleTimeout).To(Equal(time.Minute))
			Expect(c.MaxPacketSize).To(BeEquivalentTo(1350))
			Expect(c.ConnectionIDLength).To(Equal(8))
		})
	})

	It("clones", func() {
		c := &Config{MaxAckDelay: 42 * time.Millisecond}
		clone := c.Clone()
		Expect(clone).To(Equal(c))
		clone.MaxAckDelay = time.Second
		Expect(c.MaxAckDelay).To(Equal(42 * time.Millisecond))
	})
})
