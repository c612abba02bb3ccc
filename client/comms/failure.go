package comms

// Failure is why a transfer ended without success
type Failure uint8

const (
	NoFailure        Failure = iota // Transfer completed
	NoResponse                      // Receive timed out
	UnexpectedOpcode                // Well-formed packet that is not DATA
	WrongBlockNumber                // DATA block neither current nor next
	PayloadTooLarge                 // DATA payload above 512 bytes
	MalformedPacket                 // Datagram did not decode
	ServerError                     // Server sent ERROR packet
)

func (f Failure) String() string {
	switch f {
	case NoFailure:
		return "Success"
	case NoResponse:
		return "NoResponse"
	case UnexpectedOpcode:
		return "UnexpectedOpcode"
	case WrongBlockNumber:
		return "WrongBlockNumber"
	case PayloadTooLarge:
		return "PayloadTooLarge"
	case MalformedPacket:
		return "MalformedPacket"
	case ServerError:
		return "ServerError"
	default:
		return "Unknown"
	}
}
