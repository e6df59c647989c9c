package wire

import (
	"bytes"
	"io"

	"github.com/protocol7/quincy/internal/protocol"
	"github.com/protocol7/quincy/internal/qerr"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CONNECTION_CLOSE Frame", func() {
	Context("when parsing", func() {
		It("accepts a frame containing a transport error", func() {
			reason := "No recent network activity."
			data := []byte{0x0, 0xa} // error code
			data = append(data, encodeVarInt(0x1)...)
			data = append(data, encodeVarInt(uint64(len(reason)))...)
			data = append(data, []byte(reason)...)
			b := bytes.NewReader(data)
			frame, err := parseConnectionCloseFrame(b, 0x1c, protocol.VersionDraft18)
			Expect(err).ToNot(HaveOccurred())
			Expect(frame.IsApplicationError).To(BeFalse())
			Expect(frame.ErrorCode).To(Equal(qerr.ProtocolViolation))
			Expect(frame.FrameType).To(Equal(uint64(0x1)))
			Expect(frame.ReasonPhrase).To(Equal(reason))
			Expect(b.Len()).To(BeZero())
		})

		It("accepts a frame containing an application error", func() {
			reason := "The application messed things up."
			data := []byte{0xca, 0xfe}
			data = append(data, encodeVarInt(uint64(len(reason)))...)
			data = append(data, reason...)
			b := bytes.NewReader(data)
			frame, err := parseConnectionCloseFrame(b, 0x1d, protocol.VersionDraft18)
			Expect(err).ToNot(HaveOccurred())
			Expect(frame.IsApplicationError).To(BeTrue())
			Expect(frame.ErrorCode).To(Equal(qerr.ErrorCode(0xcafe)))
			Expect(frame.ReasonPhrase).To(Equal(reason))
			Expect(b.Len()).To(BeZero())
		})

		It("rejects long reason phrases", func() {
			data := []byte{0x0, 0xa}
			data = append(data, encodeVarInt(0x1)...)
			data = append(data, encodeVarInt(0xffff)...) // reason phrase length
			_, err := parseConnectionCloseFrame(bytes.NewReader(data), 0x1c, protocol.VersionDraft18)
			Expect(err).To(MatchError(io.EOF))
		})

		It("parses a frame without a reason phrase", func() {
			data := []byte{0x0, 0xa}
			data = append(data, encodeVarInt(0x1)...)
			data = append(data, encodeVarInt(0)...)
			b := bytes.NewReader(data)
			frame, err := parseConnectionCloseFrame(b, 0x1c, protocol.VersionDraft18)
			Expect(err).ToNot(HaveOccurred())
			Expect(frame.ReasonPhrase).To(BeEmpty())
			Expect(b.Len()).To(BeZero())
		})
	})

	Context("when writing", func() {
		It("writes a frame without a reason phrase", func() {
			frame := &ConnectionCloseFrame{
				ErrorCode: qerr.ProtocolViolation,
				FrameType: 0x2,
			}
			b := &bytes.Buffer{}
			Expect(frame.Write(b, protocol.VersionDraft18)).To(Succeed())
			expected := []byte{0x1c, 0x0, 0xa}
			expected = append(expected, encodeVarInt(0x2)...)
			expected = append(expected, encodeVarInt(0)...)
			Expect(b.Bytes()).To(Equal(expected))
		})

		It("writes a frame with a reason phrase", func() {
			frame := &ConnectionCloseFrame{
				ErrorCode:    qerr.FlowControlError,
				ReasonPhrase: "foobar",
			}
			b := &bytes.Buffer{}
			Expect(frame.Write(b, protocol.VersionDraft18)).To(Succeed())
			expected := []byte{0x1c, 0x0, 0x3}
			expected = append(expected, encodeVarInt(0)...) // frame type
			expected = append(expected, encodeVarInt(6)...)
			expected = append(expected, []byte("foobar")...)
			Expect(b.Bytes()).To(Equal(expected))
		})

		It("writes a frame with an application error code", func() {
			frame := &ConnectionCloseFrame{
				IsApplicationError: true,
				ErrorCode:          0xdead,
				ReasonPhrase:       "foobar",
			}
			b := &bytes.Buffer{}
			Expect(frame.Write(b, protocol.VersionDraft18)).To(Succeed())
			expected := []byte{0x1d, 0xde, 0xad}
			expected = append(expected, encodeVarInt(6)...)
			expected = append(expected, []byte("foobar")...)
			Expect(b.Bytes()).To(Equal(expected))
		})

		It("has proper length", func() {
			frame := &ConnectionCloseFrame{
				ErrorCode:    qerr.ProtocolViolation,
				ReasonPhrase: "foobar",
			}
			b := &bytes.Buffer{}
			Expect(frame.Write(b, protocol.VersionDraft18)).To(Succeed())
			Expect(frame.Length(protocol.VersionDraft18)).To(BeEquivalentTo(b.Len()))
		})
	})
})
