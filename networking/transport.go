package networking

import (
	"errors"
	"net"
	"os"
	"time"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/net/ipv4"
)

// Reception is the result of one receive: a datagram and its sender, or a timeout
type Reception struct {
	Payload  []byte
	From     *net.UDPAddr
	TimedOut bool
}

// Transport sends and receives datagrams. Errors mean the transport itself is broken.
type Transport interface {
	SendTo(payload []byte, addr *net.UDPAddr) error
	ReceiveFrom(maxBytes int) (Reception, error)
}

// UDPTransport is Transport over an unconnected UDP socket
type UDPTransport struct {
	conn    *net.UDPConn
	timeout time.Duration
}

// ListenUDP binds ephemeral UDP socket on laddr ("" for any) with receive timeout and DSCP
func ListenUDP(laddr string, timeout time.Duration, dscp int) (*UDPTransport, error) {
	var local *net.UDPAddr
	if laddr != "" {
		addr, err := net.ResolveUDPAddr("udp", laddr)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "resolve local address")
		}
		local = addr
	}

	conn, err := net.ListenUDP("udp", local)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "bind udp socket")
	}

	// Set DSCP. NOTE: On Windows by default it will not apply the value.
	if dscp > 0 {
		ipv4.NewPacketConn(conn).SetTOS(dscp << 2)
	}

	return NewUDPTransport(conn, timeout), nil
}

// NewUDPTransport wraps an existing socket
func NewUDPTransport(conn *net.UDPConn, timeout time.Duration) *UDPTransport {
	return &UDPTransport{conn: conn, timeout: timeout}
}

// LocalAddr returns bound socket address
func (u *UDPTransport) LocalAddr() *net.UDPAddr {
	return u.conn.LocalAddr().(*net.UDPAddr)
}

// SendTo writes a single datagram
func (u *UDPTransport) SendTo(payload []byte, addr *net.UDPAddr) error {
	if _, err := u.conn.WriteToUDP(payload, addr); err != nil {
		return pkgerrors.Wrapf(err, "send to %s", addr)
	}
	return nil
}

// ReceiveFrom waits up to the configured timeout for one datagram
func (u *UDPTransport) ReceiveFrom(maxBytes int) (Reception, error) {
	if u.timeout > 0 {
		if err := u.conn.SetReadDeadline(time.Now().Add(u.timeout)); err != nil {
			return Reception{}, pkgerrors.Wrap(err, "set read deadline")
		}
	}

	buf := make([]byte, maxBytes)
	n, from, err := u.conn.ReadFromUDP(buf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return Reception{TimedOut: true}, nil
		}
		return Reception{}, pkgerrors.Wrap(err, "receive")
	}

	return Reception{Payload: buf[:n], From: from}, nil
}

// Close closes socket
func (u *UDPTransport) Close() error {
	return u.conn.Close()
}
