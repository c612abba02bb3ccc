package networking

import (
	"bytes"
	"encoding/binary"
	"go_tftp/constants"
	"go_tftp/networking/opcode"
)

// Header contains the static part shared by DATA and ACK packets
type Header struct {
	Opcode opcode.Opcode
	Block  uint16
	// DATA is followed by up to 512 bytes payload.
}

// Packet is one of ReadRequest, Data, Ack or Invalid
type Packet interface {
	packet()
}

// ReadRequest asks the server for a file
type ReadRequest struct {
	Filename string
	Mode     string
}

// Data carries one block of file content
type Data struct {
	Block   uint16
	Payload []byte
}

// Final reports whether this block ends the transfer
func (d *Data) Final() bool {
	return len(d.Payload) < constants.BLOCK_SIZE
}

// Ack acknowledges a block
type Ack struct {
	Block uint16
}

// Invalid is anything that did not decode to Data or Ack
type Invalid struct {
	Opcode opcode.Opcode // Zero when fewer than 2 bytes were received
	Raw    []byte
}

func (*ReadRequest) packet() {}
func (*Data) packet()        {}
func (*Ack) packet()         {}
func (*Invalid) packet()     {}

// EncodeReadRequest encodes RRQ as opcode | filename | 0 | mode | 0
func EncodeReadRequest(filename, mode string) []byte {
	out := make([]byte, 0, 2+len(filename)+1+len(mode)+1)
	out = binary.BigEndian.AppendUint16(out, uint16(opcode.RRQ))
	out = append(out, filename...)
	out = append(out, 0)
	out = append(out, mode...)
	return append(out, 0)
}

// EncodeAck encodes 4 byte ACK
func EncodeAck(block uint16) []byte {
	return encodeHeader(Header{Opcode: opcode.ACK, Block: block})
}

// EncodeData encodes DATA header followed by payload. Payload size is not checked.
func EncodeData(block uint16, payload []byte) []byte {
	return append(encodeHeader(Header{Opcode: opcode.DATA, Block: block}), payload...)
}

// Encode encodes any packet value. Invalid encodes back to its raw bytes.
func Encode(p Packet) []byte {
	switch pkt := p.(type) {
	case *ReadRequest:
		return EncodeReadRequest(pkt.Filename, pkt.Mode)
	case *Data:
		return EncodeData(pkt.Block, pkt.Payload)
	case *Ack:
		return EncodeAck(pkt.Block)
	case *Invalid:
		return pkt.Raw
	default:
		return nil
	}
}

// Decode decodes slice of bytes to Ack, Data or Invalid. It never fails.
func Decode(message []byte) Packet {
	if len(message) < constants.HEADER_SIZE {
		invalid := &Invalid{Raw: message}
		if len(message) >= 2 {
			invalid.Opcode = opcode.Opcode(binary.BigEndian.Uint16(message))
		}
		return invalid
	}

	header := decodeHeader(message[:constants.HEADER_SIZE])

	switch header.Opcode {
	case opcode.ACK:
		if len(message) == constants.HEADER_SIZE {
			return &Ack{Block: header.Block}
		}
	case opcode.DATA:
		// Copy so callers may reuse the receive buffer.
		payload := make([]byte, len(message)-constants.HEADER_SIZE)
		copy(payload, message[constants.HEADER_SIZE:])
		return &Data{Block: header.Block, Payload: payload}
	}

	return &Invalid{Opcode: header.Opcode, Raw: message}
}

// encodeHeader encodes Header to 4 bytes
func encodeHeader(header Header) []byte {
	buffer := bytes.NewBuffer(make([]byte, 0, constants.HEADER_SIZE))
	binary.Write(buffer, binary.BigEndian, header)
	return buffer.Bytes()
}

// decodeHeader decodes 4 bytes to Header
func decodeHeader(message []byte) Header {
	var header Header
	binary.Read(bytes.NewReader(message), binary.BigEndian, &header)
	return header
}
