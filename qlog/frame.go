package qlog

import (
	"fmt"

	"github.com/protocol7/quincy/internal/wire"

	"github.com/francoispqt/gojay"
)

type frames []wire.Frame

var _ gojay.MarshalerJSONArray = frames{}

func (fs frames) IsNil() bool { return fs == nil }
func (fs frames) MarshalJSONArray(enc *gojay.Encoder) {
	for _, f := range fs {
		enc.Object(frame{Frame: f})
	}
}

type frame struct {
	Frame wire.Frame
}

var _ gojay.MarshalerJSONObject = frame{}

func (f frame) IsNil() bool { return false }
func (f frame) MarshalJSONObject(enc *gojay.Encoder) {
	switch frame := f.Frame.(type) {
	case *wire.PingFrame:
		marshalPingFrame(enc, frame)
	case *wire.AckFrame:
		marshalAckFrame(enc, frame)
	case *wire.CryptoFrame:
		marshalCryptoFrame(enc, frame)
	case *wire.StreamFrame:
		marshalStreamFrame(enc, frame)
	case *wire.ResetStreamFrame:
		marshalResetStreamFrame(enc, frame)
	case *wire.ConnectionCloseFrame:
		marshalConnectionCloseFrame(enc, frame)
	default:
		panic(fmt.Sprintf("unknown frame type: %#v", frame))
	}
}

func marshalPingFrame(enc *gojay.Encoder, _ *wire.PingFrame) {
	enc.StringKey("frame_type", "ping")
}

type ackRanges []wire.AckRange

func (ars ackRanges) IsNil() bool { return false }
func (ars ackRanges) MarshalJSONArray(enc *gojay.Encoder) {
	for _, r := range ars {
		enc.Array(ackRange(r))
	}
}

type ackRange wire.AckRange

func (ar ackRange) IsNil() bool { return false }
func (ar ackRange) MarshalJSONArray(enc *gojay.Encoder) {
	enc.AddInt64(int64(ar.Smallest))
	if ar.Smallest != ar.Largest {
		enc.AddInt64(int64(ar.Largest))
	}
}

func marshalAckFrame(enc *gojay.Encoder, f *wire.AckFrame) {
	enc.StringKey("frame_type", "ack")
	enc.FloatKey("ack_delay", float64(f.DelayTime.Microseconds())/1000)
	enc.ArrayKey("acked_ranges", ackRanges(f.AckRanges))
}

func marshalCryptoFrame(enc *gojay.Encoder, f *wire.CryptoFrame) {
	enc.StringKey("frame_type", "crypto")
	enc.Int64Key("offset", int64(f.Offset))
	enc.Int64Key("length", int64(len(f.Data)))
}

func marshalStreamFrame(enc *gojay.Encoder, f *wire.StreamFrame) {
	enc.StringKey("frame_type", "stream")
	enc.Int64Key("stream_id", int64(f.StreamID))
	enc.Int64Key("offset", int64(f.Offset))
	enc.IntKey("length", int(f.DataLen()))
	if f.Fin {
		enc.BoolKey("fin", true)
	}
}

func marshalResetStreamFrame(enc *gojay.Encoder, f *wire.ResetStreamFrame) {
	enc.StringKey("frame_type", "reset_stream")
	enc.Int64Key("stream_id", int64(f.StreamID))
	enc.Int64Key("error_code", int64(f.ErrorCode))
	enc.Int64Key("final_size", int64(f.FinalSize))
}

func marshalConnectionCloseFrame(enc *gojay.Encoder, f *wire.ConnectionCloseFrame) {
	enc.StringKey("frame_type", "connection_close")
	errorSpace := "transport"
	if f.IsApplicationError {
		errorSpace = "application"
	}
	enc.StringKey("error_space", errorSpace)
	enc.Int64Key("raw_error_code", int64(f.ErrorCode))
	enc.StringKey("reason", f.ReasonPhrase)
}
