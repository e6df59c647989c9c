package wire

import (
	"fmt"
	"strings"

	"github.com/protocol7/quincy/internal/utils"
)

// LogFrame logs a frame, either sent or received
func LogFrame(logger utils.Logger, frame Frame, sent bool) {
	if !logger.Debug() {
		return
	}
	dir := "<-"
	if sent {
		dir = "->"
	}
	switch f := frame.(type) {
	case *CryptoFrame:
		logger.Debugf("\t%s &wire.CryptoFrame{Offset: %#x, Data length: %#x, Offset + Data length: %#x}", dir, f.Offset, len(f.Data), int(f.Offset)+len(f.Data))
	case *StreamFrame:
		logger.Debugf("\t%s &wire.StreamFrame{StreamID: %d, FinBit: %t, Offset: %#x, Data length: %#x, Offset + Data length: %#x}", dir, f.StreamID, f.Fin, f.Offset, f.DataLen(), f.Offset+f.DataLen())
	case *AckFrame:
		if len(f.AckRanges) > 1 {
			ackRanges := make([]string, len(f.AckRanges))
			for i, r := range f.AckRanges {
				ackRanges[i] = fmt.Sprintf("{Largest: %d, Smallest: %d}", r.Largest, r.Smallest)
			}
			logger.Debugf("\t%s &wire.AckFrame{LargestAcked: %d, LowestAcked: %d, AckRanges: [%s], DelayTime: %s}", dir, f.LargestAcked(), f.LowestAcked(), strings.Join(ackRanges, ", "), f.DelayTime.String())
		} else {
			logger.Debugf("\t%s &wire.AckFrame{LargestAcked: %d, LowestAcked: %d, DelayTime: %s}", dir, f.LargestAcked(), f.LowestAcked(), f.DelayTime.String())
		}
	case *ConnectionCloseFrame:
		logger.Debugf("\t%s &wire.ConnectionCloseFrame{IsApplicationError: %t, ErrorCode: %s, ReasonPhrase: %q}", dir, f.IsApplicationError, f.ErrorCode, f.ReasonPhrase)
	default:
		logger.Debugf("\t%s %#v", dir, frame)
	}
}
