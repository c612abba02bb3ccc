package comms

import (
	"net"
	"testing"

	qt "github.com/frankban/quicktest"

	"go_tftp/networking"
)

func TestBlockNumberDoesNotRollOver(t *testing.T) {
	c := qt.New(t)

	s := session{state: awaitNextBlock, peer: tid, lastAcked: 65535}

	st := s.onPacket(&networking.Data{Block: 0, Payload: make([]byte, 10)}, tid, limits{})
	c.Assert(st.state, qt.Equals, failed)
	c.Assert(st.failure, qt.Equals, WrongBlockNumber)
	c.Assert(st.ack, qt.IsFalse)

	// The last block is still re-acknowledged.
	st = s.onPacket(&networking.Data{Block: 65535, Payload: make([]byte, 512)}, tid, limits{})
	c.Assert(st.state, qt.Equals, awaitNextBlock)
	c.Assert(st.duplicate, qt.IsTrue)
	c.Assert(st.ack, qt.IsTrue)
}

func TestBlockBeforeRolloverIsAccepted(t *testing.T) {
	c := qt.New(t)

	s := session{state: awaitNextBlock, peer: tid, lastAcked: 65534}
	st := s.onPacket(&networking.Data{Block: 65535, Payload: make([]byte, 512)}, tid, limits{})

	c.Assert(st.state, qt.Equals, awaitNextBlock)
	c.Assert(st.lastAcked, qt.Equals, uint16(65535))
	c.Assert(st.accept, qt.IsNotNil)
}

func TestEventsDoNotMutateSession(t *testing.T) {
	c := qt.New(t)

	s := session{state: awaitFirstBlock}
	st := s.onPacket(&networking.Data{Block: 1, Payload: make([]byte, 512)}, tid, limits{linger: 1})

	c.Assert(s.state, qt.Equals, awaitFirstBlock)
	c.Assert(s.peer, qt.IsNil)
	c.Assert(st.state, qt.Equals, awaitNextBlock)
	c.Assert(st.peer, qt.Equals, tid)
	c.Assert(st.lastAcked, qt.Equals, uint16(1))

	next := st.session.onTimeout(limits{ackRetries: 2})
	c.Assert(st.retries, qt.Equals, 0)
	c.Assert(next.retries, qt.Equals, 1)
	c.Assert(next.ack, qt.IsTrue)
}

func TestFinalBlockEntersLinger(t *testing.T) {
	c := qt.New(t)

	s := session{state: awaitFirstBlock}

	st := s.onPacket(&networking.Data{Block: 1, Payload: []byte("x")}, tid, limits{linger: 1})
	c.Assert(st.state, qt.Equals, awaitRetransmitOrDone)
	c.Assert(st.terminal(), qt.IsFalse)

	st = s.onPacket(&networking.Data{Block: 1, Payload: []byte("x")}, tid, limits{})
	c.Assert(st.state, qt.Equals, finished)
	c.Assert(st.terminal(), qt.IsTrue)
}

func TestLingerIgnoresOtherSenders(t *testing.T) {
	c := qt.New(t)

	stranger := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 12345}
	s := session{state: awaitRetransmitOrDone, peer: tid, lastAcked: 4}

	st := s.onPacket(&networking.Data{Block: 4, Payload: []byte("x")}, stranger, limits{linger: 3})
	c.Assert(st.ack, qt.IsFalse)
	c.Assert(st.state, qt.Equals, finished)
	c.Assert(st.failure, qt.Equals, NoFailure)
}

func TestUnexpectedVariants(t *testing.T) {
	c := qt.New(t)

	first := session{state: awaitFirstBlock}
	next := session{state: awaitNextBlock, peer: tid, lastAcked: 1}

	for _, pkt := range []networking.Packet{&networking.Ack{Block: 1}, &networking.ReadRequest{Filename: "f", Mode: "octet"}} {
		c.Assert(first.onPacket(pkt, tid, limits{}).failure, qt.Equals, UnexpectedOpcode)
		c.Assert(next.onPacket(pkt, tid, limits{}).failure, qt.Equals, UnexpectedOpcode)
	}
}

func TestSameAddr(t *testing.T) {
	c := qt.New(t)

	c.Assert(sameAddr(tid, &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 12345}), qt.IsTrue)
	c.Assert(sameAddr(tid, &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 12346}), qt.IsFalse)
	c.Assert(sameAddr(tid, nil), qt.IsFalse)
	c.Assert(sameAddr(nil, nil), qt.IsTrue)
}

func TestFailureNames(t *testing.T) {
	c := qt.New(t)

	c.Assert(NoFailure.String(), qt.Equals, "Success")
	c.Assert(NoResponse.String(), qt.Equals, "NoResponse")
	c.Assert(WrongBlockNumber.String(), qt.Equals, "WrongBlockNumber")
	c.Assert(Failure(99).String(), qt.Equals, "Unknown")
}

func TestStrayCounterResetsOnProgress(t *testing.T) {
	c := qt.New(t)

	stranger := &net.UDPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 12345}
	lim := limits{maxStrays: 1}
	s := session{state: awaitNextBlock, peer: tid, lastAcked: 1}

	st := s.onPacket(&networking.Data{Block: 2, Payload: make([]byte, 512)}, stranger, lim)
	c.Assert(st.stray, qt.IsTrue)
	c.Assert(st.strays, qt.Equals, 1)
	c.Assert(st.state, qt.Equals, awaitNextBlock)

	st = st.session.onPacket(&networking.Data{Block: 2, Payload: make([]byte, 512)}, tid, lim)
	c.Assert(st.strays, qt.Equals, 0)
	c.Assert(st.lastAcked, qt.Equals, uint16(2))

	st = st.session.onPacket(&networking.Data{Block: 3, Payload: nil}, stranger, lim)
	c.Assert(st.state, qt.Equals, awaitNextBlock)
	st = st.session.onPacket(&networking.Data{Block: 3, Payload: nil}, stranger, lim)
	c.Assert(st.stray, qt.IsTrue)
	c.Assert(st.state, qt.Equals, failed)
	c.Assert(st.failure, qt.Equals, NoResponse)
}
