// Package wire frames packed position records for UDP broadcast.
//
// Frames are flag-delimited with byte stuffing and a trailing CRC-16 so
// consumers can resynchronize on a lossy datagram stream:
//
//	0x7E | message ID | payload... | CRC16 lo | CRC16 hi | 0x7E
//
// Any 0x7E/0x7D inside the body is escaped as 0x7D followed by the byte
// XOR 0x20.
package wire

import (
	"fmt"

	"ggafeed/internal/gga"
)

const (
	flagByte   = 0x7E
	escapeByte = 0x7D
	escapeXor  = 0x20
)

// PositionID identifies a packed 10-byte position record frame.
const PositionID = 0x50

// Frame appends the CRC-16 to message (ID byte plus payload), applies byte
// stuffing, and wraps the result with flag bytes.
func Frame(message []byte) []byte {
	crc := crc16(message)

	withCRC := make([]byte, 0, len(message)+2)
	withCRC = append(withCRC, message...)
	withCRC = append(withCRC, byte(crc&0xFF), byte(crc>>8))

	out := make([]byte, 0, 2+len(withCRC)*2)
	out = append(out, flagByte)
	for _, b := range withCRC {
		if b == flagByte || b == escapeByte {
			out = append(out, escapeByte, b^escapeXor)
			continue
		}
		out = append(out, b)
	}
	return append(out, flagByte)
}

// PositionFrame frames a packed position record.
func PositionFrame(rec *gga.Record) []byte {
	msg := make([]byte, 0, 1+gga.RecordLen)
	msg = append(msg, PositionID)
	msg = append(msg, rec[:]...)
	return Frame(msg)
}

// Unframe reverses Frame: it validates the flag delimiters, de-escapes the
// body, and checks the trailing CRC-16. It returns the message (ID byte plus
// payload, CRC stripped), whether the CRC matched, and an error for frames
// too mangled to take apart.
func Unframe(frame []byte) (msg []byte, crcOK bool, err error) {
	if len(frame) < 4 {
		return nil, false, fmt.Errorf("wire: frame too short: %d", len(frame))
	}
	if frame[0] != flagByte || frame[len(frame)-1] != flagByte {
		return nil, false, fmt.Errorf("wire: missing start/end flags")
	}

	raw := make([]byte, 0, len(frame))
	for i := 1; i < len(frame)-1; i++ {
		b := frame[i]
		if b == escapeByte {
			i++
			if i >= len(frame)-1 {
				return nil, false, fmt.Errorf("wire: truncated escape at end of frame")
			}
			raw = append(raw, frame[i]^escapeXor)
			continue
		}
		raw = append(raw, b)
	}
	if len(raw) < 3 {
		return nil, false, fmt.Errorf("wire: unescaped body too short: %d", len(raw))
	}

	msg = raw[:len(raw)-2]
	crcGot := uint16(raw[len(raw)-2]) | uint16(raw[len(raw)-1])<<8
	return msg, crcGot == crc16(msg), nil
}
