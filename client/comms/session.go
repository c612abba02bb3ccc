package comms

import (
	"net"

	"go_tftp/constants"
	"go_tftp/networking"
)

type state uint8

const (
	awaitFirstBlock       state = iota // RRQ sent, nothing received yet
	awaitNextBlock                     // Last acked block was full
	awaitRetransmitOrDone              // Final block acked, lingering for a lost ack
	finished
	failed
)

func (s state) String() string {
	switch s {
	case awaitFirstBlock:
		return "await-first-block"
	case awaitNextBlock:
		return "await-next-block"
	case awaitRetransmitOrDone:
		return "await-retransmit-or-done"
	case finished:
		return "finished"
	case failed:
		return "failed"
	default:
		return "unknown"
	}
}

// limits bound the optional retry behaviour of a session
type limits struct {
	ackRetries int
	linger     int
	maxStrays  int
}

// session is the per-transfer record. Events return a new value instead of mutating.
type session struct {
	state     state
	peer      *net.UDPAddr // Server TID, pinned by first DATA
	lastAcked uint16
	retries   int // Ack re-sends for current block, or final block re-acks
	strays    int // Foreign datagrams since last progress or timeout
	failure   Failure
	serverErr *networking.ErrorPacket
}

// step is the session after an event plus what the engine must do about it
type step struct {
	session
	ack       bool             // Send ACK(lastAcked) to peer
	accept    *networking.Data // New block to keep
	duplicate bool             // Retransmission of lastAcked
	stray     bool             // Datagram from someone other than peer, dropped
}

func (s session) terminal() bool {
	return s.state == finished || s.state == failed
}

func (s session) fail(f Failure) step {
	s.state = failed
	s.failure = f
	return step{session: s}
}

// onTimeout handles a receive that returned nothing
func (s session) onTimeout(lim limits) step {
	switch s.state {
	case awaitFirstBlock:
		return s.fail(NoResponse)
	case awaitNextBlock:
		s.strays = 0
		if s.retries < lim.ackRetries {
			s.retries++
			return step{session: s, ack: true}
		}
		return s.fail(NoResponse)
	case awaitRetransmitOrDone:
		// Server stayed quiet for a whole window so it saw the final ack.
		s.state = finished
		return step{session: s}
	default:
		return step{session: s}
	}
}

// onPacket handles a decoded datagram received from addr
func (s session) onPacket(pkt networking.Packet, from *net.UDPAddr, lim limits) step {
	switch s.state {
	case awaitFirstBlock:
		return s.onFirstPacket(pkt, from, lim)
	case awaitNextBlock:
		if !sameAddr(s.peer, from) {
			return s.onStray(lim)
		}
		return s.onNextPacket(pkt, lim)
	case awaitRetransmitOrDone:
		return s.onLingerPacket(pkt, from, lim)
	default:
		return step{session: s}
	}
}

// onStray drops a datagram from a foreign address. More than maxStrays per block count as a timeout.
func (s session) onStray(lim limits) step {
	s.strays++
	if s.strays <= lim.maxStrays {
		return step{session: s, stray: true}
	}
	st := s.onTimeout(lim)
	st.stray = true
	return st
}

func (s session) onFirstPacket(pkt networking.Packet, from *net.UDPAddr, lim limits) step {
	switch p := pkt.(type) {
	case *networking.Data:
		if p.Block != constants.FIRST_BLOCK {
			return s.fail(WrongBlockNumber)
		}
		if len(p.Payload) > constants.BLOCK_SIZE {
			return s.fail(PayloadTooLarge)
		}
		s.peer = from
		return s.accepted(p, lim)
	case *networking.Ack, *networking.ReadRequest:
		return s.fail(UnexpectedOpcode)
	case *networking.Invalid:
		return s.onInvalid(p)
	default:
		return s.fail(MalformedPacket)
	}
}

func (s session) onNextPacket(pkt networking.Packet, lim limits) step {
	switch p := pkt.(type) {
	case *networking.Data:
		// Computed in int so block 65535 has no successor.
		next := int(s.lastAcked) + 1

		switch int(p.Block) {
		case int(s.lastAcked):
			if len(p.Payload) > constants.BLOCK_SIZE {
				return s.fail(PayloadTooLarge)
			}
			return step{session: s, ack: true, duplicate: true}
		case next:
			if len(p.Payload) > constants.BLOCK_SIZE {
				return s.fail(PayloadTooLarge)
			}
			return s.accepted(p, lim)
		default:
			return s.fail(WrongBlockNumber)
		}
	case *networking.Ack, *networking.ReadRequest:
		return s.fail(UnexpectedOpcode)
	case *networking.Invalid:
		return s.onInvalid(p)
	default:
		return s.fail(MalformedPacket)
	}
}

// onLingerPacket re-acks a retransmitted final block. Anything else ends the transfer.
func (s session) onLingerPacket(pkt networking.Packet, from *net.UDPAddr, lim limits) step {
	if p, ok := pkt.(*networking.Data); ok && sameAddr(s.peer, from) && p.Block == s.lastAcked {
		s.retries++
		if s.retries >= lim.linger {
			s.state = finished
		}
		return step{session: s, ack: true, duplicate: true}
	}
	s.state = finished
	return step{session: s}
}

// accepted moves past a new in-sequence block
func (s session) accepted(p *networking.Data, lim limits) step {
	s.lastAcked = p.Block
	s.retries = 0
	s.strays = 0

	switch {
	case !p.Final():
		s.state = awaitNextBlock
	case lim.linger > 0:
		s.state = awaitRetransmitOrDone
	default:
		s.state = finished
	}

	return step{session: s, ack: true, accept: p}
}

func (s session) onInvalid(p *networking.Invalid) step {
	if errPkt, ok := networking.DecodeError(p.Raw); ok {
		s.serverErr = &errPkt
		return s.fail(ServerError)
	}
	return s.fail(MalformedPacket)
}

func sameAddr(a, b *net.UDPAddr) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Port == b.Port && a.IP.Equal(b.IP)
}
