package core

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the counters a Transport exposes for its ports and
// channels. Each Transport owns an independent registry rather than the
// global default one, so that multiple systems can run in the same
// process — as every test in this module does — without colliding on
// metric registration.
type Metrics struct {
	registry     *prometheus.Registry
	messagesSent *prometheus.CounterVec
	messagesRecv *prometheus.CounterVec
	portsClosed  prometheus.Counter
	portsOpened  prometheus.Counter

	blocksStarted   prometheus.Counter
	blocksCompleted prometheus.Counter
	blocksFailed    prometheus.Counter
}

func newMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		messagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "protoflow_messages_sent_total",
			Help: "Number of message frames sent on an output port.",
		}, []string{"port"}),
		messagesRecv: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "protoflow_messages_received_total",
			Help: "Number of message frames delivered to an input port.",
		}, []string{"port"}),
		portsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "protoflow_ports_closed_total",
			Help: "Number of ports that have transitioned to Closed.",
		}),
		portsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "protoflow_ports_opened_total",
			Help: "Number of ports allocated by the transport.",
		}),
		blocksStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "protoflow_blocks_started_total",
			Help: "Number of blocks the runtime has spawned.",
		}),
		blocksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "protoflow_blocks_completed_total",
			Help: "Number of blocks whose Execute returned without error.",
		}),
		blocksFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "protoflow_blocks_failed_total",
			Help: "Number of blocks whose Execute returned an error.",
		}),
	}
	reg.MustRegister(
		m.messagesSent, m.messagesRecv, m.portsClosed, m.portsOpened,
		m.blocksStarted, m.blocksCompleted, m.blocksFailed,
	)
	return m
}

// Registry returns the Prometheus registry backing this transport's
// metrics, suitable for an embedder to expose over its own /metrics
// endpoint. Protoflow's core never listens on a socket itself (distributed
// execution is a Non-goal); it only produces the counters.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
