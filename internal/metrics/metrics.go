// Package metrics holds the Prometheus collectors for the storage and upload
// core. HTTP request counting lives in the middleware package.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the core counters, registered against a single Registerer
// so tests can use isolated registries.
type Metrics struct {
	Uploads             *prometheus.CounterVec
	SignatureRejections prometheus.Counter
	FallbackActivations prometheus.Counter
}

// New creates and registers the core counters.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "uploads_total",
				Help: "Total number of completed uploads by category.",
			},
			[]string{"category"},
		),
		SignatureRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "upload_signature_rejections_total",
			Help: "Uploads rejected because the payload did not match the declared format.",
		}),
		FallbackActivations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backend_fallback_activations_total",
			Help: "Times the backend availability latch tripped to the fallback path.",
		}),
	}

	for _, c := range []prometheus.Collector{m.Uploads, m.SignatureRejections, m.FallbackActivations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
