package wire

import (
	"bytes"

	"github.com/protocol7/quincy/internal/protocol"
)

// A PingFrame is a PING frame
type PingFrame struct{}

// parsePingFrame parses a PING frame.
// The type byte must already have been consumed.
func parsePingFrame(_ *bytes.Reader, _ protocol.VersionNumber) (*PingFrame, error) {
	return &PingFrame{}, nil
}

// Write writes a PING frame
func (f *PingFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(0x1)
	return nil
}

// Length of a written frame
func (f *PingFrame) Length(_ protocol.VersionNumber) protocol.ByteCount {
	return 1
}
