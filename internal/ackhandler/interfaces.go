package ackhandler

import (
	"time"

	"github.com/protocol7/quincy/internal/protocol"
	"github.com/protocol7/quincy/internal/wire"
)

// A Ticker is a monotonic clock.
// It is injected so that tests can drive time deterministically.
type Ticker interface {
	NowNanos() int64
}

// A TimerHandle cancels a task registered with a Scheduler.
type TimerHandle interface {
	Cancel()
}

// A Scheduler runs tasks at a fixed rate.
// It is owned by the caller, the reliability pipeline only holds a handle
// to cancel its own task on shutdown.
type Scheduler interface {
	ScheduleAtFixedRate(task func(), initialDelay, period time.Duration) TimerHandle
}

// A FrameSender synthesizes a new outbound packet containing the given frame,
// under a fresh packet number at the given encryption level.
type FrameSender interface {
	Send(f wire.Frame, encLevel protocol.EncryptionLevel) error
}

// A PipelineContext gives a pipeline stage access to its neighbours.
type PipelineContext interface {
	// State returns the current state of the connection state machine.
	State() protocol.ConnectionState
	// Send enqueues a frame for inclusion in the next outbound packet.
	Send(f wire.Frame) error
	// Next forwards an ingress packet to the stage beyond this one,
	// or an egress packet towards the transport.
	Next(p *wire.Packet) error
}

// An AckListener is notified once for every sent packet number that is
// acknowledged by the peer.
type AckListener interface {
	OnAck(pn protocol.PacketNumber)
}
