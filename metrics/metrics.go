package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Transfer holds counters for read transfers
type Transfer struct {
	registry   *prometheus.Registry
	outcomes   *prometheus.CounterVec
	blocks     prometheus.Counter
	bytes      prometheus.Counter
	duplicates prometheus.Counter
	acks       prometheus.Counter
	timeouts   prometheus.Counter
	strays     prometheus.Counter
}

// NewTransfer creates counters registered on their own registry
func NewTransfer() *Transfer {
	m := &Transfer{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tftp",
				Subsystem: "client",
				Name:      "transfers_total",
				Help:      "Finished read transfers by outcome.",
			},
			[]string{"outcome"},
		),
		blocks:     counter("blocks_received_total", "New DATA blocks accepted."),
		bytes:      counter("bytes_received_total", "Payload bytes accepted."),
		duplicates: counter("duplicate_blocks_total", "Retransmitted DATA blocks re-acknowledged."),
		acks:       counter("acks_sent_total", "ACK packets sent."),
		timeouts:   counter("receive_timeouts_total", "Receive calls that timed out."),
		strays:     counter("stray_datagrams_total", "Datagrams dropped for not coming from the transfer peer."),
	}
	m.registry.MustRegister(m.outcomes, m.blocks, m.bytes, m.duplicates, m.acks, m.timeouts, m.strays)
	return m
}

func counter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tftp",
		Subsystem: "client",
		Name:      name,
		Help:      help,
	})
}

// Registry exposes underlying registry
func (m *Transfer) Registry() *prometheus.Registry {
	return m.registry
}

// Counter methods are no-ops on a nil *Transfer.

func (m *Transfer) Outcome(outcome string) {
	if m != nil {
		m.outcomes.WithLabelValues(outcome).Inc()
	}
}

func (m *Transfer) Block(size int) {
	if m != nil {
		m.blocks.Inc()
		m.bytes.Add(float64(size))
	}
}

func (m *Transfer) Duplicate() {
	if m != nil {
		m.duplicates.Inc()
	}
}

func (m *Transfer) AckSent() {
	if m != nil {
		m.acks.Inc()
	}
}

func (m *Transfer) Timeout() {
	if m != nil {
		m.timeouts.Inc()
	}
}

func (m *Transfer) Stray() {
	if m != nil {
		m.strays.Inc()
	}
}

// WriteTextfile dumps metrics in node exporter textfile format
func (m *Transfer) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrap(err, "write metrics textfile")
	}
	return nil
}
