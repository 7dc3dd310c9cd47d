// Package metrics exposes decoder activity as Prometheus metrics. Entirely
// optional: spec's core has no metrics concept, but SPEC_FULL.md's ambient
// stack carries observability the way every long-running batch tool in the
// example pack does, gated behind config so it never touches the core's
// single-threaded per-buffer contract (spec §5).
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the counters and histograms one decoder process updates.
type Collector struct {
	BuffersDecoded  prometheus.Counter
	MessagesEmitted prometheus.Counter
	CandidatesFound prometheus.Counter
	LDPCFailures    prometheus.Counter
	CRCFailures     prometheus.Counter
	Duplicates      prometheus.Counter
	DecodeDuration  prometheus.Histogram

	server *http.Server
}

// New registers a fresh set of metrics against a private registry (never
// the global default, so multiple Collectors, e.g. in tests, never
// collide on metric names).
func New() (*Collector, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		BuffersDecoded: factory.NewCounter(prometheus.CounterOpts{
			Name: "ft8batch_buffers_decoded_total",
			Help: "Total audio buffers run through the decode pipeline.",
		}),
		MessagesEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "ft8batch_messages_emitted_total",
			Help: "Total messages emitted after dedup.",
		}),
		CandidatesFound: factory.NewCounter(prometheus.CounterOpts{
			Name: "ft8batch_candidates_found_total",
			Help: "Total Costas sync candidates retained by the bounded heap.",
		}),
		LDPCFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "ft8batch_ldpc_failures_total",
			Help: "Candidates dropped for nonzero residual LDPC parity error count.",
		}),
		CRCFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "ft8batch_crc_failures_total",
			Help: "Candidates dropped for a CRC-14 mismatch after a clean LDPC decode.",
		}),
		Duplicates: factory.NewCounter(prometheus.CounterOpts{
			Name: "ft8batch_duplicates_total",
			Help: "Messages dropped as duplicates within one buffer.",
		}),
		DecodeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ft8batch_decode_duration_seconds",
			Help:    "Wall-clock time to decode one buffer end to end.",
			Buckets: prometheus.DefBuckets,
		}),
	}, reg
}

// Serve starts an HTTP server exposing /metrics on addr and blocks until
// the context is canceled, then shuts down gracefully.
func (c *Collector) Serve(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	c.server = &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- c.server.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return c.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
