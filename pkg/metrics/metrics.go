package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's prometheus instruments.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	smsSentTotal   *prometheus.CounterVec
	smsFailedTotal *prometheus.CounterVec

	escalationsTotal      prometheus.Counter
	acknowledgmentsTotal  prometheus.Counter
	tripsCleanedTotal     prometheus.Counter
	batchDispatchDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		smsSentTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sms_sent_total",
				Help: "Outbound SMS attempts that the carrier accepted",
			},
			[]string{"kind"},
		),
		smsFailedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sms_failed_total",
				Help: "Outbound SMS attempts that failed at the carrier",
			},
			[]string{"kind"},
		),
		escalationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trip_escalations_total",
			Help: "Trips that transitioned into the escalated status",
		}),
		acknowledgmentsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "alert_acknowledgments_total",
			Help: "Alert acknowledgment requests that found their alert",
		}),
		tripsCleanedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "trips_cleaned_total",
			Help: "Terminal trips removed by the retention job",
		}),
		batchDispatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sos_batch_dispatch_duration_seconds",
			Help:    "Wall time for a full batch dispatch to settle",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// SMS kinds for the sent/failed counters.
const (
	KindSingle = "single"
	KindBatch  = "batch"
	KindAlert  = "alert"
)

func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) RecordSMSSent(kind string)   { m.smsSentTotal.WithLabelValues(kind).Inc() }
func (m *Metrics) RecordSMSFailed(kind string) { m.smsFailedTotal.WithLabelValues(kind).Inc() }

func (m *Metrics) RecordEscalation()     { m.escalationsTotal.Inc() }
func (m *Metrics) RecordAcknowledgment() { m.acknowledgmentsTotal.Inc() }

func (m *Metrics) RecordTripsCleaned(n int64) { m.tripsCleanedTotal.Add(float64(n)) }

func (m *Metrics) ObserveBatchDispatch(d time.Duration) {
	m.batchDispatchDuration.Observe(d.Seconds())
}
