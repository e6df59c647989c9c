package wire

import (
	"bytes"
	"encoding/binary"

	"github.com/protocol7/quincy/internal/protocol"
	"github.com/protocol7/quincy/internal/qerr"
	"github.com/protocol7/quincy/quicvarint"
)

// A ResetStreamFrame is a RESET_STREAM frame in QUIC
type ResetStreamFrame struct {
	StreamID  protocol.StreamID
	ErrorCode qerr.ErrorCode
	FinalSize protocol.ByteCount
}

// parseResetStreamFrame parses a RESET_STREAM frame.
// The type byte must already have been consumed.
func parseResetStreamFrame(r *bytes.Reader, _ protocol.VersionNumber) (*ResetStreamFrame, error) {
	sid, err := quicvarint.Read(r)
	if err != nil {
		return nil, err
	}
	var errorCode uint16
	if err := binary.Read(r, binary.BigEndian, &errorCode); err != nil {
		return nil, err
	}
	finalSize, err := quicvarint.Read(r)
	if err != nil {
		return nil, err
	}

	return &ResetStreamFrame{
		StreamID:  protocol.StreamID(sid),
		ErrorCode: qerr.ErrorCode(errorCode),
		FinalSize: protocol.ByteCount(finalSize),
	}, nil
}

// Write writes a RESET_STREAM frame
func (f *ResetStreamFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	b.WriteByte(0x4)
	quicvarint.Write(b, uint64(f.StreamID))
	binary.Write(b, binary.BigEndian, uint16(f.ErrorCode))
	quicvarint.Write(b, uint64(f.FinalSize))
	return nil
}

// Length of a written frame
func (f *ResetStreamFrame) Length(_ protocol.VersionNumber) protocol.ByteCount {
	return protocol.ByteCount(1+quicvarint.Len(uint64(f.StreamID))+quicvarint.Len(uint64(f.FinalSize))) + 2
}
