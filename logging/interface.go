package logging

// A ConnectionTracer records events of a connection's reliability pipeline.
type ConnectionTracer interface {
	SentPacket(hdr *ExtendedHeader, packetSize ByteCount, frames []Frame)
	ReceivedPacket(hdr *ExtendedHeader, packetSize ByteCount, frames []Frame)
	AckedPacket(EncryptionLevel, PacketNumber)
	LostPacket(EncryptionLevel, PacketNumber, PacketLossReason)
	DroppedEncryptionLevel(EncryptionLevel)
	// Close is called when the connection is closed.
	Close()
}
