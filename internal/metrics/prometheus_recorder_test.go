package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorderObservesMetrics(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveSetupDuration("main", 10*time.Millisecond)
	r.ObserveRefreshDuration("main", 5*time.Millisecond)
	r.ObservePackageDuration("dummy", time.Millisecond)
	r.IncRequestResult("main", "")
	r.SetWorkerCount("static:main", 2)
	r.IncAutoHeal("static:main", 2)

	metricFamilies, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, metricFamilies)
}

func TestPrometheusRecorderNilReceiverIsSafe(t *testing.T) {
	var r *PrometheusRecorder
	require.NotPanics(t, func() {
		r.ObserveSetupDuration("main", time.Millisecond)
		r.IncRequestResult("main", "git_error")
		r.SetWorkerCount("dynamic", 1)
	})
}
