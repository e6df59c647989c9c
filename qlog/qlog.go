// Package qlog records the events of the packet pipeline in the qlog format.
package qlog

import (
	"io"
	"log"
	"sync"
	"time"

	"github.com/protocol7/quincy/internal/protocol"
	"github.com/protocol7/quincy/logging"

	"github.com/francoispqt/gojay"
)

type connectionTracer struct {
	mutex sync.Mutex

	w             io.WriteCloser
	odcid         protocol.ConnectionID
	perspective   protocol.Perspective
	referenceTime time.Time

	events events
}

var _ logging.ConnectionTracer = &connectionTracer{}

// NewConnectionTracer creates a ConnectionTracer that records a qlog.
// The qlog is written to w when the tracer is closed.
func NewConnectionTracer(w io.WriteCloser, p protocol.Perspective, odcid protocol.ConnectionID) logging.ConnectionTracer {
	return &connectionTracer{
		w:             w,
		perspective:   p,
		odcid:         odcid,
		referenceTime: time.Now(),
	}
}

func (t *connectionTracer) recordEvent(details eventDetails) {
	t.events = append(t.events, event{
		RelativeTime: time.Since(t.referenceTime),
		eventDetails: details,
	})
}

func (t *connectionTracer) SentPacket(hdr *logging.ExtendedHeader, packetSize logging.ByteCount, fs []logging.Frame) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.recordEvent(eventPacketSent{
		PacketType:   packetType(hdr.Type),
		PacketNumber: hdr.PacketNumber,
		PacketSize:   packetSize,
		Frames:       frames(fs),
	})
}

func (t *connectionTracer) ReceivedPacket(hdr *logging.ExtendedHeader, packetSize logging.ByteCount, fs []logging.Frame) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.recordEvent(eventPacketReceived{
		PacketType:   packetType(hdr.Type),
		PacketNumber: hdr.PacketNumber,
		PacketSize:   packetSize,
		Frames:       frames(fs),
	})
}

func (t *connectionTracer) AckedPacket(encLevel logging.EncryptionLevel, pn logging.PacketNumber) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.recordEvent(eventPacketAcked{
		PacketType:   packetTypeFromEncryptionLevel(encLevel),
		PacketNumber: pn,
	})
}

func (t *connectionTracer) LostPacket(encLevel logging.EncryptionLevel, pn logging.PacketNumber, reason logging.PacketLossReason) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	trigger := "time_threshold"
	if reason == logging.PacketLossKeysDropped {
		trigger = "keys_discarded"
	}
	t.recordEvent(eventPacketLost{
		PacketType:   packetTypeFromEncryptionLevel(encLevel),
		PacketNumber: pn,
		Trigger:      trigger,
	})
}

func (t *connectionTracer) DroppedEncryptionLevel(encLevel logging.EncryptionLevel) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.recordEvent(eventEncryptionLevelDropped{PacketType: packetTypeFromEncryptionLevel(encLevel)})
}

// Close exports the qlog and closes the writer.
func (t *connectionTracer) Close() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if err := t.export(); err != nil {
		log.Printf("exporting qlog failed: %s\n", err)
	}
}

func (t *connectionTracer) export() error {
	enc := gojay.NewEncoder(t.w)
	tl := topLevel{
		traces: traces{
			{
				VantagePoint: vantagePoint{Type: t.perspective},
				CommonFields: commonFields{
					ODCID:         connectionID(t.odcid),
					GroupID:       connectionID(t.odcid),
					ReferenceTime: t.referenceTime,
				},
				EventFields: eventFields[:],
				Events:      t.events,
			},
		},
	}
	if err := enc.EncodeObject(tl); err != nil {
		return err
	}
	return t.w.Close()
}
