package constants

const (
	BLOCK_SIZE         = 512   // Payload bytes in a full DATA block
	HEADER_SIZE        = 4     // Opcode + block number
	MAX_DATAGRAM_SIZE  = 65536 // Receive buffer, large enough to see oversized payloads
	FIRST_BLOCK        = 1     // Block numbering starts here for every transfer
	DEFAULT_PORT       = 69    // Well-known TFTP port
	DEFAULT_TIMEOUT_MS = 2000  // Receive timeout per datagram
	DEFAULT_ACK_RETRY  = 0     // Ack re-sends on timeout while waiting for next block
	DEFAULT_LINGER     = 1     // Max re-acks of a retransmitted final block
	MAX_STRAYS         = 16    // Foreign datagrams per block before it counts as a timeout
	DEFAULT_DSCP       = 0x0A  // QoS for high throughput
	DEFAULT_WRITE_BUF  = 64    // Output file buffer in KB
	MODE_OCTET         = "octet"
)
