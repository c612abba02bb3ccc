package opcode

// Opcode is the 2-byte big-endian packet type tag
type Opcode uint16

const (
	RRQ   Opcode = iota + 1 // 1: Read request
	WRQ                     // 2: Write request (never sent by this client)
	DATA                    // 3: Block of file data
	ACK                     // 4: Acknowledge block
	ERROR                   // 5: Server error
)

func (o Opcode) String() string {
	switch o {
	case RRQ:
		return "RRQ"
	case WRQ:
		return "WRQ"
	case DATA:
		return "DATA"
	case ACK:
		return "ACK"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
