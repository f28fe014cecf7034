// Package metrics exposes Prometheus counters for the shell lifecycle.
package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level collectors, registered via Register.
var (
	regOK atomic.Bool

	sidecarSpawns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "notedock",
			Subsystem: "sidecar",
			Name:      "spawns_total",
			Help:      "Number of successful sidecar spawns.",
		},
	)
	staleReaps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "notedock",
			Subsystem: "sidecar",
			Name:      "stale_reaps_total",
			Help:      "Number of stale instances signaled from a leftover lock record.",
		},
	)
	terminations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "notedock",
			Subsystem: "sidecar",
			Name:      "terminations_total",
			Help:      "Number of sidecar terminations issued at shutdown.",
		},
	)
	shutdowns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "notedock",
			Subsystem: "shell",
			Name:      "shutdowns_total",
			Help:      "Number of completed shutdown sequences.",
		},
	)
	relayLines = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "notedock",
			Subsystem: "relay",
			Name:      "lines_total",
			Help:      "Sidecar output lines relayed, by stream.",
		}, []string{"stream"},
	)
)

// Register registers all collectors with reg. Safe to call once per process;
// later calls are no-ops.
func Register(reg prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	for _, c := range []prometheus.Collector{sidecarSpawns, staleReaps, terminations, shutdowns, relayLines} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// RegisterDefault registers collectors with the default registry.
func RegisterDefault() error { return Register(prometheus.DefaultRegisterer) }

func IncSpawn()     { sidecarSpawns.Inc() }
func IncStaleReap() { staleReaps.Inc() }
func IncTerminate() { terminations.Inc() }
func IncShutdown()  { shutdowns.Inc() }

// IncRelayLine counts one relayed line for the given stream tag
// ("stdout" or "stderr").
func IncRelayLine(stream string) { relayLines.WithLabelValues(stream).Inc() }

// Serve exposes /metrics on addr and blocks.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}
