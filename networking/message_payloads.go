package networking

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"go_tftp/networking/opcode"
)

// ErrorCode is the RFC 1350 error code carried by ERROR packets
type ErrorCode uint16

const (
	ErrNotDefined        ErrorCode = iota // 0: See message
	ErrFileNotFound                       // 1: File not found
	ErrAccessViolation                    // 2: Access violation
	ErrDiskFull                           // 3: Disk full or allocation exceeded
	ErrIllegalOperation                   // 4: Illegal TFTP operation
	ErrUnknownTID                         // 5: Unknown transfer ID
	ErrFileExists                         // 6: File already exists
	ErrNoSuchUser                         // 7: No such user
)

// ErrorPacket is opcode 5 sent by the server when it gives up on the transfer
type ErrorPacket struct {
	Code    ErrorCode
	Message string
}

func (e ErrorPacket) String() string {
	if e.Message == "" {
		return fmt.Sprintf("code %d", e.Code)
	}
	return fmt.Sprintf("code %d: %s", e.Code, e.Message)
}

// EncodeError encodes opcode | code | message | 0
func EncodeError(code ErrorCode, message string) []byte {
	out := make([]byte, 0, 4+len(message)+1)
	out = binary.BigEndian.AppendUint16(out, uint16(opcode.ERROR))
	out = binary.BigEndian.AppendUint16(out, uint16(code))
	out = append(out, message...)
	return append(out, 0)
}

// DecodeError parses ERROR packet. Missing message terminator is tolerated.
func DecodeError(message []byte) (ErrorPacket, bool) {
	if len(message) < 4 || opcode.Opcode(binary.BigEndian.Uint16(message)) != opcode.ERROR {
		return ErrorPacket{}, false
	}

	text := message[4:]
	if end := bytes.IndexByte(text, 0); end >= 0 {
		text = text[:end]
	}

	return ErrorPacket{
		Code:    ErrorCode(binary.BigEndian.Uint16(message[2:4])),
		Message: string(text),
	}, true
}
