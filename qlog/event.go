package qlog

import (
	"time"

	"github.com/protocol7/quincy/internal/protocol"

	"github.com/francoispqt/gojay"
)

var eventFields = [4]string{"relative_time", "category", "event", "data"}

type events []event

var _ gojay.MarshalerJSONArray = events{}

func (e events) IsNil() bool { return e == nil }
func (e events) MarshalJSONArray(enc *gojay.Encoder) {
	for _, ev := range e {
		enc.Array(ev)
	}
}

type eventDetails interface {
	Category() category
	Name() string
	gojay.MarshalerJSONObject
}

type event struct {
	RelativeTime time.Duration
	eventDetails
}

var _ gojay.MarshalerJSONArray = event{}

func (e event) IsNil() bool { return false }
func (e event) MarshalJSONArray(enc *gojay.Encoder) {
	enc.Float64(milliseconds(e.RelativeTime))
	enc.String(e.Category().String())
	enc.String(e.Name())
	enc.Object(e.eventDetails)
}

func milliseconds(dur time.Duration) float64 {
	return float64(dur.Nanoseconds()) / 1e6
}

type eventPacketSent struct {
	PacketType   packetType
	PacketNumber protocol.PacketNumber
	PacketSize   protocol.ByteCount
	Frames       frames
}

var _ eventDetails = eventPacketSent{}

func (e eventPacketSent) Category() category { return categoryTransport }
func (e eventPacketSent) Name() string       { return "packet_sent" }
func (e eventPacketSent) IsNil() bool        { return false }

func (e eventPacketSent) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("packet_type", e.PacketType.String())
	enc.Int64Key("packet_number", int64(e.PacketNumber))
	enc.Int64Key("packet_size", int64(e.PacketSize))
	enc.ArrayKeyOmitEmpty("frames", e.Frames)
}

type eventPacketReceived struct {
	PacketType   packetType
	PacketNumber protocol.PacketNumber
	PacketSize   protocol.ByteCount
	Frames       frames
}

var _ eventDetails = eventPacketReceived{}

func (e eventPacketReceived) Category() category { return categoryTransport }
func (e eventPacketReceived) Name() string       { return "packet_received" }
func (e eventPacketReceived) IsNil() bool        { return false }

func (e eventPacketReceived) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("packet_type", e.PacketType.String())
	enc.Int64Key("packet_number", int64(e.PacketNumber))
	enc.Int64Key("packet_size", int64(e.PacketSize))
	enc.ArrayKeyOmitEmpty("frames", e.Frames)
}

type eventPacketAcked struct {
	PacketType   packetType
	PacketNumber protocol.PacketNumber
}

var _ eventDetails = eventPacketAcked{}

func (e eventPacketAcked) Category() category { return categoryRecovery }
func (e eventPacketAcked) Name() string       { return "packet_acknowledged" }
func (e eventPacketAcked) IsNil() bool        { return false }

func (e eventPacketAcked) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("packet_type", e.PacketType.String())
	enc.Int64Key("packet_number", int64(e.PacketNumber))
}

type eventPacketLost struct {
	PacketType   packetType
	PacketNumber protocol.PacketNumber
	Trigger      string
}

var _ eventDetails = eventPacketLost{}

func (e eventPacketLost) Category() category { return categoryRecovery }
func (e eventPacketLost) Name() string       { return "packet_lost" }
func (e eventPacketLost) IsNil() bool        { return false }

func (e eventPacketLost) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("packet_type", e.PacketType.String())
	enc.Int64Key("packet_number", int64(e.PacketNumber))
	enc.StringKey("trigger", e.Trigger)
}

type eventEncryptionLevelDropped struct {
	PacketType packetType
}

var _ eventDetails = eventEncryptionLevelDropped{}

func (e eventEncryptionLevelDropped) Category() category { return categoryTransport }
func (e eventEncryptionLevelDropped) Name() string       { return "encryption_level_dropped" }
func (e eventEncryptionLevelDropped) IsNil() bool        { return false }

func (e eventEncryptionLevelDropped) MarshalJSONObject(enc *gojay.Encoder) {
	enc.StringKey("packet_type", e.PacketType.String())
}
