package logging

// The NullConnectionTracer is a ConnectionTracer that does nothing.
// It is useful for embedding.
type NullConnectionTracer struct{}

var _ ConnectionTracer = &NullConnectionTracer{}

func (n NullConnectionTracer) SentPacket(*ExtendedHeader, ByteCount, []Frame)             {}
func (n NullConnectionTracer) ReceivedPacket(*ExtendedHeader, ByteCount, []Frame)         {}
func (n NullConnectionTracer) AckedPacket(EncryptionLevel, PacketNumber)                  {}
func (n NullConnectionTracer) LostPacket(EncryptionLevel, PacketNumber, PacketLossReason) {}
func (n NullConnectionTracer) DroppedEncryptionLevel(EncryptionLevel)                     {}
func (n NullConnectionTracer) Close()                                                     {}
