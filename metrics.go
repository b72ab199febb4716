package smpp

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smppkit/smpp/pdu"
)

// Metrics bundles the prometheus collectors a Session updates as it
// processes PDUs. It does not register itself with any registry or expose
// an HTTP endpoint; callers own that and pass the collectors along with
// Collectors.
type Metrics struct {
	RequestsSent      *prometheus.CounterVec
	RequestsReceived  *prometheus.CounterVec
	ResponsesReceived *prometheus.CounterVec
	Throttled         prometheus.Counter
	Errors            *prometheus.CounterVec
}

// NewMetrics creates a Metrics with every collector initialized under the
// given namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		RequestsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_sent_total",
			Help:      "Number of PDU requests sent, by command.",
		}, []string{"command"}),
		RequestsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_received_total",
			Help:      "Number of PDU requests received, by command.",
		}, []string{"command"}),
		ResponsesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_received_total",
			Help:      "Number of PDU responses received, by command and status.",
		}, []string{"command", "status"}),
		Throttled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "throttled_total",
			Help:      "Number of inbound requests rejected with ESME_RTHROTTLED.",
		}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Number of protocol-level errors encountered, by stage.",
		}, []string{"stage"}),
	}
}

// Collectors returns every collector in m, for bulk registration:
//
//	reg.MustRegister(m.Collectors()...)
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RequestsSent, m.RequestsReceived, m.ResponsesReceived, m.Throttled, m.Errors,
	}
}

func commandLabel(id pdu.CommandID) string {
	return strconv.FormatUint(uint64(id), 16)
}

func statusLabel(s pdu.Status) string {
	return strconv.FormatUint(uint64(s), 16)
}

func (m *Metrics) requestSent(id pdu.CommandID) {
	if m == nil {
		return
	}
	m.RequestsSent.WithLabelValues(commandLabel(id)).Inc()
}

func (m *Metrics) requestReceived(id pdu.CommandID) {
	if m == nil {
		return
	}
	m.RequestsReceived.WithLabelValues(commandLabel(id)).Inc()
}

func (m *Metrics) responseReceived(id pdu.CommandID, status pdu.Status) {
	if m == nil {
		return
	}
	m.ResponsesReceived.WithLabelValues(commandLabel(id), statusLabel(status)).Inc()
}

func (m *Metrics) throttled() {
	if m == nil {
		return
	}
	m.Throttled.Inc()
}

func (m *Metrics) errored(stage string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(stage).Inc()
}
