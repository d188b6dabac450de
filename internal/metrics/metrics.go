// Package metrics provides Prometheus metrics for the bot.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m3rciful/servicebot/core/logger"
)

const namespace = "servicebot"

// Recorder holds the bot counters on its own registry.
type Recorder struct {
	reg *prometheus.Registry

	events     *prometheus.CounterVec
	actions    *prometheus.CounterVec
	denials    *prometheus.CounterVec
	broadcasts prometheus.Counter
	deliveries *prometheus.CounterVec
	sent       *prometheus.CounterVec
}

// New registers the bot metrics plus the Go and process collectors.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "events_total",
			Help:      "Inbound events by kind and outcome.",
		}, []string{"kind", "outcome"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "actions_total",
			Help:      "Dispatched button actions by name and outcome.",
		}, []string{"action", "outcome"}),
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "access",
			Name:      "denials_total",
			Help:      "Events stopped by a gate.",
		}, []string{"gate"}), // "admin" or "maintenance"
		broadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "runs_total",
			Help:      "Completed broadcast runs.",
		}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "deliveries_total",
			Help:      "Broadcast deliveries by result.",
		}, []string{"result"}),
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tg",
			Name:      "messages_sent_total",
			Help:      "Messages sent or edited while handling updates.",
		}, []string{"keyboard"}),
	}
	r.reg.MustRegister(
		r.events,
		r.actions,
		r.denials,
		r.broadcasts,
		r.deliveries,
		r.sent,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// ObserveEvent counts one handled event.
func (r *Recorder) ObserveEvent(kind, outcome string) {
	r.events.WithLabelValues(kind, outcome).Inc()
}

// ObserveAction counts one dispatched action.
func (r *Recorder) ObserveAction(name, outcome string) {
	r.actions.WithLabelValues(name, outcome).Inc()
}

// ObserveDenied counts one gate refusal.
func (r *Recorder) ObserveDenied(gate string) {
	r.denials.WithLabelValues(gate).Inc()
}

// ObserveBroadcast counts one broadcast run and its deliveries.
func (r *Recorder) ObserveBroadcast(succeeded, failed int) {
	r.broadcasts.Inc()
	r.deliveries.WithLabelValues("ok").Add(float64(succeeded))
	r.deliveries.WithLabelValues("fail").Add(float64(failed))
}

// ObserveSent counts messages produced by one update.
func (r *Recorder) ObserveSent(messages int, keyboard bool) {
	if messages <= 0 {
		return
	}
	r.sent.WithLabelValues(strconv.FormatBool(keyboard)).Add(float64(messages))
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Serve exposes /metrics on addr until ctx is done.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, logger.CompTG, "metrics.listen", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
