package protocol

import "time"

// DesiredReceiveBufferSize is the kernel UDP receive buffer size that we'd like to use.
const DesiredReceiveBufferSize = (1 << 20) * 2 // 2 MB

// AckDelayExponent is the ack delay exponent used when sending ACKs.
const AckDelayExponent = 3

// MaxAckDelay is the default maximum ACK delay
const MaxAckDelay = 100 * time.Millisecond

// LossDetectionTimeout is the default time after which an unacknowledged
// packet is declared lost and its frames are retransmitted.
// Draft-18 parity: a fixed threshold, not derived from an RTT estimator.
const LossDetectionTimeout = time.Second

// MaxPendingAcks is the maximum number of received packet numbers that are
// queued for acknowledgment. When the queue is full, an ACK is flushed
// immediately instead of dropping packet numbers.
const MaxPendingAcks = 1000

// MaxTrackedSentPackets is a limit on the number of tracked sent packets.
// The packet buffer does not apply it: every in-flight packet is kept until
// it is acknowledged, declared lost or dropped with its encryption level.
const MaxTrackedSentPackets = 4096

// MaxPacketSize is the default maximum packet size used in the handshake
const MaxPacketSize ByteCount = 1252

// MinConnectionIDLenInitial is the minimum length of the destination connection ID on an Initial packet.
const MinConnectionIDLenInitial = 8

// DefaultConnectionIDLength is the connection ID length that is used for self-generated connection IDs.
const DefaultConnectionIDLength = 4

// DefaultIdleTimeout is the default idle timeout
const DefaultIdleTimeout = 30 * time.Second

// TimerGranularity is the granularity of loss detection timers
const TimerGranularity = time.Millisecond
