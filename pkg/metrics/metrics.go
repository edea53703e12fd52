package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "login_attempts_total", Help: "Admin login attempts by result."},
		[]string{"result"},
	)
	ContentWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "content_writes_total", Help: "Content mutations by resource, operation and outcome."},
		[]string{"resource", "op", "outcome"},
	)
	ContentCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "content_cache_lookups_total", Help: "Content cache lookups by result."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(ContentWrites)
	reg.MustRegister(ContentCache)
}

// ObserveWrite records the outcome of a content mutation.
func ObserveWrite(resource, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ContentWrites.WithLabelValues(resource, op, outcome).Inc()
}
