// Package metrics exposes OpenCensus measures for the packet pipeline.
package metrics

import (
	"context"

	"github.com/protocol7/quincy/logging"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// Measures
var (
	packetsSent  = stats.Int64("quincy/packets_sent", "number of QUIC packets sent", stats.UnitDimensionless)
	packetsRcvd  = stats.Int64("quincy/packets_received", "number of QUIC packets received", stats.UnitDimensionless)
	packetsAcked = stats.Int64("quincy/packets_acked", "number of sent QUIC packets acknowledged by the peer", stats.UnitDimensionless)
	packetsLost  = stats.Int64("quincy/packets_lost", "number of QUIC packets declared lost", stats.UnitDimensionless)
)

// Tags
var (
	keyEncryptionLevel, _ = tag.NewKey("encryption_level")
)

// Views
var (
	PacketsSentView = &view.View{
		Measure:     packetsSent,
		Aggregation: view.Count(),
	}
	PacketsReceivedView = &view.View{
		Measure:     packetsRcvd,
		Aggregation: view.Count(),
	}
	PacketsAckedView = &view.View{
		Measure:     packetsAcked,
		TagKeys:     []tag.Key{keyEncryptionLevel},
		Aggregation: view.Count(),
	}
	PacketsLostView = &view.View{
		Measure:     packetsLost,
		TagKeys:     []tag.Key{keyEncryptionLevel},
		Aggregation: view.Count(),
	}
)

// DefaultViews collects all OpenCensus views for metric gathering purposes
var DefaultViews = []*view.View{
	PacketsSentView,
	PacketsReceivedView,
	PacketsAckedView,
	PacketsLostView,
}

type connTracer struct {
	logging.NullConnectionTracer
}

var _ logging.ConnectionTracer = &connTracer{}

// NewConnectionTracer creates a new metrics connection tracer.
func NewConnectionTracer() logging.ConnectionTracer {
	return &connTracer{}
}

func (t *connTracer) SentPacket(*logging.ExtendedHeader, logging.ByteCount, []logging.Frame) {
	stats.Record(context.Background(), packetsSent.M(1))
}

func (t *connTracer) ReceivedPacket(*logging.ExtendedHeader, logging.ByteCount, []logging.Frame) {
	stats.Record(context.Background(), packetsRcvd.M(1))
}

func (t *connTracer) AckedPacket(encLevel logging.EncryptionLevel, _ logging.PacketNumber) {
	recordWithLevel(encLevel, packetsAcked.M(1))
}

func (t *connTracer) LostPacket(encLevel logging.EncryptionLevel, _ logging.PacketNumber, _ logging.PacketLossReason) {
	recordWithLevel(encLevel, packetsLost.M(1))
}

func recordWithLevel(encLevel logging.EncryptionLevel, m stats.Measurement) {
	ctx, err := tag.New(context.Background(), tag.Upsert(keyEncryptionLevel, encLevel.String()))
	if err != nil {
		ctx = context.Background()
	}
	stats.Record(ctx, m)
}
