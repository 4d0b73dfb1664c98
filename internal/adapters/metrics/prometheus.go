// Package metrics records build and serving measurements with Prometheus.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/kiln/internal/core/ports"
)

// Namespace prefixes every metric name.
const Namespace = "kiln"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var _ ports.Metrics = (*Recorder)(nil)

// Recorder implements ports.Metrics on a private Prometheus registry.
type Recorder struct {
	reg          *prom.Registry
	taskRuns     *prom.CounterVec
	taskDuration *prom.HistogramVec
	reloads      prom.Counter
	clients      prom.Gauge
}

// NewRecorder registers kiln's collectors on reg, or on a fresh registry when reg is nil.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	r := &Recorder{
		reg: reg,
		taskRuns: prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "task_runs_total",
			Help:      "Leaf task runs by outcome",
		}, []string{"task", "result"}),
		taskDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "task_duration_seconds",
			Help:      "Duration of leaf task runs",
			Buckets:   prom.DefBuckets,
		}, []string{"task"}),
		reloads: prom.NewCounter(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "reloads_total",
			Help:      "Reload broadcasts sent to connected browsers",
		}),
		clients: prom.NewGauge(prom.GaugeOpts{
			Namespace: Namespace,
			Name:      "reload_clients",
			Help:      "Browsers currently connected for live reload",
		}),
	}

	reg.MustRegister(r.taskRuns, r.taskDuration, r.reloads, r.clients)
	reg.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))

	return r
}

// ObserveTask records one leaf task run.
func (r *Recorder) ObserveTask(name string, d time.Duration, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	r.taskRuns.WithLabelValues(name, result).Inc()
	r.taskDuration.WithLabelValues(name).Observe(d.Seconds())
}

// IncReload counts one reload broadcast.
func (r *Recorder) IncReload() {
	r.reloads.Inc()
}

// SetClients records the number of connected reload clients.
func (r *Recorder) SetClients(n int) {
	r.clients.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
