// Package metrics exposes Prometheus counters for the registry and a small
// standalone metrics server.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rsvp_registry"

var (
	// EventsCreated counts successful create_event calls.
	EventsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_created_total",
		Help:      "Number of events created.",
	})

	// Registrations counts successful register calls.
	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Number of successful registrations.",
	})

	// RejectedRegistrations counts failed register calls by reason code.
	RejectedRegistrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rejected_registrations_total",
		Help:      "Number of rejected registrations, labeled by reason.",
	}, []string{"reason"})
)

// MetricsServer serves the Prometheus scrape endpoint on its own listener.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server for the named service bound to addr. All
// counters share the default Prometheus registry.
func New(name, addr string) (*MetricsServer, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}, nil
}

// ListenAndServe blocks serving the scrape endpoint.
func (s *MetricsServer) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
