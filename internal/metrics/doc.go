// Package metrics implements supply.Recorder on top of Prometheus and
// exposes the registry over HTTP for /metrics.
package metrics
