package wire

import (
	"bytes"
	"fmt"

	"github.com/protocol7/quincy/internal/protocol"
	"github.com/protocol7/quincy/internal/qerr"
)

// The FrameParser parses the frames of a packet payload.
type FrameParser struct {
	ackDelayExponent uint8
}

// NewFrameParser creates a new frame parser.
// The ACK delay exponent is the one the peer advertised, it is needed to
// interpret the delay field of incoming ACK frames.
func NewFrameParser(ackDelayExponent uint8) *FrameParser {
	return &FrameParser{ackDelayExponent: ackDelayExponent}
}

// ParseNext parses the next frame.
// It skips PADDING frames.
func (p *FrameParser) ParseNext(r *bytes.Reader, v protocol.VersionNumber) (Frame, error) {
	for r.Len() != 0 {
		typeByte, _ := r.ReadByte()
		if typeByte == 0x0 { // PADDING frame
			continue
		}
		return p.parseFrame(r, typeByte, v)
	}
	return nil, nil
}

// ParsePayload parses all frames of a packet payload.
func (p *FrameParser) ParsePayload(data []byte, v protocol.VersionNumber) ([]Frame, error) {
	r := bytes.NewReader(data)
	var frames []Frame
	for {
		f, err := p.ParseNext(r, v)
		if err != nil {
			return nil, err
		}
		if f == nil {
			return frames, nil
		}
		frames = append(frames, f)
	}
}

func (p *FrameParser) parseFrame(r *bytes.Reader, typeByte byte, v protocol.VersionNumber) (Frame, error) {
	var frame Frame
	var err error
	if typeByte&0xf8 == 0x8 {
		frame, err = parseStreamFrame(r, typeByte, v)
	} else {
		switch typeByte {
		case 0x1:
			frame, err = parsePingFrame(r, v)
		case 0x2, 0x3:
			frame, err = parseAckFrame(r, typeByte, p.ackDelayExponent, v)
		case 0x4:
			frame, err = parseResetStreamFrame(r, v)
		case 0x6:
			frame, err = parseCryptoFrame(r, v)
		case 0x1c, 0x1d:
			frame, err = parseConnectionCloseFrame(r, typeByte, v)
		default:
			err = fmt.Errorf("unknown type byte %#x", typeByte)
		}
	}
	if err != nil {
		return nil, qerr.NewErrorWithFrameType(qerr.FrameEncodingError, uint64(typeByte), err.Error())
	}
	return frame, nil
}
