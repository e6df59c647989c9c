package wire

import (
	"bytes"

	"github.com/protocol7/quincy/internal/protocol"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PING frame", func() {
	Context("when parsing", func() {
		It("accepts sample frame", func() {
			b := bytes.NewReader(nil)
			_, err := parsePingFrame(b, protocol.VersionDraft18)
			Expect(err).ToNot(HaveOccurred())
			Expect(b.Len()).To(BeZero())
		})
	})

	Context("when writing", func() {
		It("writes a sample frame", func() {
			frame := PingFrame{}
			b := &bytes.Buffer{}
			Expect(frame.Write(b, protocol.VersionDraft18)).To(Succeed())
			Expect(b.Bytes()).To(Equal([]byte{0x1}))
		})

		It("has the correct length", func() {
			frame := PingFrame{}
			Expect(frame.Length(protocol.VersionDraft18)).To(BeEquivalentTo(1))
		})
	})
})
