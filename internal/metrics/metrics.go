// Package metrics exposes Prometheus collectors for screening runs.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"TrendScreener/internal/logger"
	"TrendScreener/internal/model"
)

// Metrics holds the screener collectors. It satisfies screener.Observer.
type Metrics struct {
	SymbolsTotal    *prometheus.CounterVec   // labels: strategy, outcome
	SymbolDuration  *prometheus.HistogramVec // labels: strategy
	RunsTotal       *prometheus.CounterVec   // labels: strategy
	RunDuration     prometheus.Histogram
	LastRunHits     *prometheus.GaugeVec // labels: strategy
	LastRunFailed   *prometheus.GaugeVec // labels: strategy
	LastRunFinished prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics registers the collectors with reg. A nil reg uses a fresh
// registry, which keeps tests independent.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		SymbolsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_symbols_total",
			Help: "Symbols evaluated, by outcome",
		}, []string{"strategy", "outcome"}),
		SymbolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "screener_symbol_duration_seconds",
			Help:    "Time to load and evaluate one symbol",
			Buckets: prometheus.DefBuckets,
		}, []string{"strategy"}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_runs_total",
			Help: "Completed screening runs",
		}, []string{"strategy"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "screener_run_duration_seconds",
			Help:    "Wall time of a screening run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		LastRunHits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "screener_last_run_hits",
			Help: "Hits in the most recent run",
		}, []string{"strategy"}),
		LastRunFailed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "screener_last_run_failed",
			Help: "Failed symbols in the most recent run",
		}, []string{"strategy"}),
		LastRunFinished: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "screener_last_run_finished_timestamp_seconds",
			Help: "Unix time the most recent run finished",
		}),
		gatherer: reg,
	}
	reg.MustRegister(
		m.SymbolsTotal,
		m.SymbolDuration,
		m.RunsTotal,
		m.RunDuration,
		m.LastRunHits,
		m.LastRunFailed,
		m.LastRunFinished,
	)
	return m
}

// ObserveSymbol records one evaluated symbol.
func (m *Metrics) ObserveSymbol(strategy, outcome string, elapsed time.Duration) {
	m.SymbolsTotal.WithLabelValues(strategy, outcome).Inc()
	m.SymbolDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(res *model.ScreenResult) {
	m.RunsTotal.WithLabelValues(res.Strategy).Inc()
	m.RunDuration.Observe(res.FinishedAt.Sub(res.StartedAt).Seconds())
	m.LastRunHits.WithLabelValues(res.Strategy).Set(float64(len(res.Hits)))
	m.LastRunFailed.WithLabelValues(res.Strategy).Set(float64(res.Failed))
	m.LastRunFinished.Set(float64(res.FinishedAt.Unix()))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Serve exposes /metrics and /healthz on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, log *logger.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("serving metrics", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
