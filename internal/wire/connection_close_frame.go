package wire

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/protocol7/quincy/internal/protocol"
	"github.com/protocol7/quincy/internal/qerr"
	"github.com/protocol7/quincy/quicvarint"
)

// A ConnectionCloseFrame is a CONNECTION_CLOSE frame
type ConnectionCloseFrame struct {
	IsApplicationError bool
	ErrorCode          qerr.ErrorCode
	FrameType          uint64
	ReasonPhrase       string
}

// parseConnectionCloseFrame reads a CONNECTION_CLOSE frame.
// The type byte must already have been consumed.
func parseConnectionCloseFrame(r *bytes.Reader, typeByte byte, _ protocol.VersionNumber) (*ConnectionCloseFrame, error) {
	f := &ConnectionCloseFrame{IsApplicationError: typeByte == 0x1d}
	var ec uint16
	if err := binary.Read(r, binary.BigEndian, &ec); err != nil {
		return nil, err
	}
	f.ErrorCode = qerr.ErrorCode(ec)
	// read the Frame Type, if this is not an application error
	if !f.IsApplicationError {
		ft, err := quicvarint.Read(r)
		if err != nil {
			return nil, err
		}
		f.FrameType = ft
	}
	var reasonPhraseLen uint64
	reasonPhraseLen, err := quicvarint.Read(r)
	if err != nil {
		return nil, err
	}
	// shortcut to prevent the unnecessary allocation of reasonPhraseLen bytes
	// if the reasonPhraseLen is larger than the remaining length of the packet
	// reading the whole reason phrase would result in EOF when attempting to READ
	if int(reasonPhraseLen) > r.Len() {
		return nil, io.EOF
	}

	reasonPhrase := make([]byte, reasonPhraseLen)
	if _, err := io.ReadFull(r, reasonPhrase); err != nil {
		// this should never happen, since we already checked the reasonPhraseLen earlier
		return nil, err
	}
	f.ReasonPhrase = string(reasonPhrase)
	return f, nil
}

// Write writes a CONNECTION_CLOSE frame
func (f *ConnectionCloseFrame) Write(b *bytes.Buffer, _ protocol.VersionNumber) error {
	if f.IsApplicationError {
		b.WriteByte(0x1d)
	} else {
		b.WriteByte(0x1c)
	}

	binary.Write(b, binary.BigEndian, uint16(f.ErrorCode))
	if !f.IsApplicationError {
		quicvarint.Write(b, f.FrameType)
	}
	quicvarint.Write(b, uint64(len(f.ReasonPhrase)))
	b.WriteString(f.ReasonPhrase)
	return nil
}

// Length of a written frame
func (f *ConnectionCloseFrame) Length(_ protocol.VersionNumber) protocol.ByteCount {
	length := protocol.ByteCount(1+2+quicvarint.Len(uint64(len(f.ReasonPhrase)))) + protocol.ByteCount(len(f.ReasonPhrase))
	if !f.IsApplicationError {
		length += protocol.ByteCount(quicvarint.Len(f.FrameType))
	}
	return length
}
