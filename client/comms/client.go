package comms

import (
	"net"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"go_tftp/client/worker"
	"go_tftp/constants"
	"go_tftp/metrics"
	"go_tftp/networking"
)

// Options tune a Client. Zero value is the strict lockstep baseline without linger.
type Options struct {
	AckRetries int                                // Ack re-sends when next block times out
	Linger     int                                // Re-acks of a retransmitted final block; 0 stops right after final ack
	MaxStrays  int                                // Foreign datagrams per block counted as one timeout; <= 0 uses default
	OnBlock    func(block uint16, payload []byte) // Called for each new block in order
	Metrics    *metrics.Transfer                  // Optional counters
}

// DefaultOptions returns options matching the CLI defaults
func DefaultOptions() Options {
	return Options{
		AckRetries: constants.DEFAULT_ACK_RETRY,
		Linger:     constants.DEFAULT_LINGER,
	}
}

// Result is the outcome of one read transfer
type Result struct {
	Failure     Failure
	ServerError *networking.ErrorPacket // Set when Failure is ServerError
	Blocks      int                     // New blocks accepted, including empty final block
	Duplicates  int                     // Retransmissions re-acknowledged
	Chunks      [][]byte                // Accepted payloads in order
	Payload     []byte                  // Chunks concatenated. Only meaningful on success.
}

// Success returns true if every block was received and acknowledged
func (r *Result) Success() bool {
	return r.Failure == NoFailure
}

// Client drives read transfers over a Transport one at a time
type Client struct {
	transport networking.Transport
	log       zerolog.Logger
	opts      Options
}

// NewClient creates client on given transport
func NewClient(transport networking.Transport, log zerolog.Logger, opts Options) *Client {
	return &Client{transport: transport, log: log, opts: opts}
}

// Read fetches filename from server in octet mode. Protocol problems are reported in Result;
// the error is only set when the address cannot be resolved or the transport fails.
func (c *Client) Read(filename, address string, port int) (*Result, error) {
	server, err := net.ResolveUDPAddr("udp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		return nil, errors.Wrap(err, "resolve server address")
	}

	log := c.log.With().Str("file", filename).Stringer("server", server).Logger()
	lim := limits{ackRetries: c.opts.AckRetries, linger: c.opts.Linger, maxStrays: c.opts.MaxStrays}
	if lim.maxStrays <= 0 {
		lim.maxStrays = constants.MAX_STRAYS
	}
	asm := worker.NewAssembler(c.opts.OnBlock)

	// Request file.
	if err := c.transport.SendTo(networking.EncodeReadRequest(filename, constants.MODE_OCTET), server); err != nil {
		return nil, errors.Wrap(err, "send read request")
	}
	log.Debug().Msg("read request sent")

	s := session{state: awaitFirstBlock}

	for !s.terminal() {
		rx, err := c.transport.ReceiveFrom(constants.MAX_DATAGRAM_SIZE)
		if err != nil {
			if s.state != awaitRetransmitOrDone {
				return nil, errors.Wrapf(err, "receive in state %s", s.state)
			}
			// Final block is already acked; a dead socket only cuts the linger short.
			log.Debug().Err(err).Msg("receive failed while lingering")
			rx = networking.Reception{TimedOut: true}
		}

		var st step
		if rx.TimedOut {
			c.opts.Metrics.Timeout()
			st = s.onTimeout(lim)
			log.Debug().Str("state", s.state.String()).Int("retries", st.retries).Msg("receive timed out")
		} else {
			st = s.onPacket(networking.Decode(rx.Payload), rx.From, lim)
		}

		if st.stray {
			c.opts.Metrics.Stray()
			log.Debug().Stringer("from", rx.From).Msg("dropping datagram from unknown transfer id")
		}

		if st.accept != nil {
			asm.Accept(st.accept.Block, st.accept.Payload)
			c.opts.Metrics.Block(len(st.accept.Payload))
			log.Debug().Uint16("block", st.accept.Block).Int("size", len(st.accept.Payload)).Msg("block received")
		}

		if st.duplicate {
			asm.Duplicate()
			c.opts.Metrics.Duplicate()
			log.Debug().Uint16("block", st.lastAcked).Msg("duplicate block")
		}

		if st.ack {
			if err := c.transport.SendTo(networking.EncodeAck(st.lastAcked), st.peer); err != nil {
				if s.state != awaitRetransmitOrDone {
					return nil, errors.Wrapf(err, "send ack %d", st.lastAcked)
				}
				log.Debug().Err(err).Uint16("block", st.lastAcked).Msg("re-ack failed while lingering")
				st.state = finished
			} else {
				c.opts.Metrics.AckSent()
			}
		}

		s = st.session
	}

	result := &Result{
		Failure:     s.failure,
		ServerError: s.serverErr,
		Chunks:      asm.Chunks(),
		Payload:     asm.Bytes(),
	}
	result.Blocks, result.Duplicates, _ = asm.GetBlockStats()

	c.opts.Metrics.Outcome(result.Failure.String())

	if result.Success() {
		log.Debug().Int("blocks", result.Blocks).Int("bytes", len(result.Payload)).Msg("transfer complete")
	} else {
		event := log.Warn().Stringer("failure", result.Failure).Uint16("block", s.lastAcked)
		if s.serverErr != nil {
			event = event.Stringer("server_error", s.serverErr)
		}
		event.Msg("transfer failed")
	}

	return result, nil
}
