package apiclient

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventdesk",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Backend calls by operation and HTTP status (or \"error\" for transport failures).",
		}, []string{"op", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "eventdesk",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Backend call latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if reg == nil {
		return m, nil
	}
	if err := reg.Register(m.requests); err != nil {
		existing, err := alreadyRegistered(err)
		if err != nil {
			return nil, err
		}
		m.requests = existing.(*prometheus.CounterVec)
	}
	if err := reg.Register(m.duration); err != nil {
		existing, err := alreadyRegistered(err)
		if err != nil {
			return nil, err
		}
		m.duration = existing.(*prometheus.HistogramVec)
	}
	return m, nil
}

// alreadyRegistered lets several clients share one registry.
func alreadyRegistered(err error) (prometheus.Collector, error) {
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return are.ExistingCollector, nil
	}
	return nil, err
}

func (m *metrics) observe(op, code string, d time.Duration) {
	m.requests.WithLabelValues(op, code).Inc()
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}
