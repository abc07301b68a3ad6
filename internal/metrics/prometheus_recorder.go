package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements supply.Recorder structurally (no import of
// internal/supply is needed — Go interface satisfaction does not require
// one). All methods are safe to call on a nil receiver, so a Recorder field
// left unset by a caller behaves like a no-op.
type PrometheusRecorder struct {
	once sync.Once

	setupDuration    *prom.HistogramVec
	refreshDuration  *prom.HistogramVec
	packageDuration  *prom.HistogramVec
	requestResults   *prom.CounterVec
	workerCount      *prom.GaugeVec
	autoHealEvents   *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the supply chain's
// Prometheus metrics against reg (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.setupDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "cpconfig",
			Name:      "stage_setup_duration_seconds",
			Help:      "Duration of a full stage setup (clean, download, build per environment)",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.refreshDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "cpconfig",
			Name:      "stage_refresh_duration_seconds",
			Help:      "Duration of an incremental stage refresh",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.packageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "cpconfig",
			Name:      "package_duration_seconds",
			Help:      "Duration of packaging a component directory",
			Buckets:   prom.DefBuckets,
		}, []string{"environment"})
		pr.requestResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "cpconfig",
			Name:      "get_config_results_total",
			Help:      "GetConfig outcomes by error kind (empty for success)",
		}, []string{"stage", "kind"})
		pr.workerCount = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "cpconfig",
			Name:      "supplier_workers",
			Help:      "Number of worker goroutines attached to a channel",
		}, []string{"channel"})
		pr.autoHealEvents = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "cpconfig",
			Name:      "auto_heal_spawned_total",
			Help:      "Workers spawned by the router's auto-healing check",
		}, []string{"channel"})
		reg.MustRegister(pr.setupDuration, pr.refreshDuration, pr.packageDuration,
			pr.requestResults, pr.workerCount, pr.autoHealEvents)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveSetupDuration(stage string, d time.Duration) {
	if p == nil || p.setupDuration == nil {
		return
	}
	p.setupDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRefreshDuration(stage string, d time.Duration) {
	if p == nil || p.refreshDuration == nil {
		return
	}
	p.refreshDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObservePackageDuration(environment string, d time.Duration) {
	if p == nil || p.packageDuration == nil {
		return
	}
	p.packageDuration.WithLabelValues(environment).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRequestResult(stage, kind string) {
	if p == nil || p.requestResults == nil {
		return
	}
	p.requestResults.WithLabelValues(stage, kind).Inc()
}

func (p *PrometheusRecorder) SetWorkerCount(channel string, n int) {
	if p == nil || p.workerCount == nil {
		return
	}
	p.workerCount.WithLabelValues(channel).Set(float64(n))
}

func (p *PrometheusRecorder) IncAutoHeal(channel string, spawned int) {
	if p == nil || p.autoHealEvents == nil {
		return
	}
	p.autoHealEvents.WithLabelValues(channel).Add(float64(spawned))
}
