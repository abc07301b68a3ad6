package supply

import (
	"time"

	"github.com/simpleg-eu/cp-config/internal/builder"
	"github.com/simpleg-eu/cp-config/internal/cleaner"
	"github.com/simpleg-eu/cp-config/internal/downloader"
	"github.com/simpleg-eu/cp-config/internal/packager"
)

// Recorder is the supply chain's view of an observability sink. Defined
// locally so downloader/builder/packager-style capabilities and the metrics
// backend stay decoupled from this package; internal/metrics implements it
// structurally.
type Recorder interface {
	ObserveSetupDuration(stage string, d time.Duration)
	ObserveRefreshDuration(stage string, d time.Duration)
	ObservePackageDuration(environment string, d time.Duration)
	IncRequestResult(stage, kind string)
	SetWorkerCount(channel string, n int)
	IncAutoHeal(channel string, spawned int)
}

// Notifier is a best-effort sink for supply-chain lifecycle events.
// Implementations must never block or fail a request; internal/notify
// implements this over NATS.
type Notifier interface {
	NotifyStageSetup(stage string)
	NotifyStageRefreshed(stage string)
}

// NoopRecorder and NoopNotifier are the zero-value defaults used when no
// observability backend is configured.
type NoopRecorder struct{}

func (NoopRecorder) ObserveSetupDuration(string, time.Duration)   {}
func (NoopRecorder) ObserveRefreshDuration(string, time.Duration) {}
func (NoopRecorder) ObservePackageDuration(string, time.Duration) {}
func (NoopRecorder) IncRequestResult(string, string)              {}
func (NoopRecorder) SetWorkerCount(string, int)                   {}
func (NoopRecorder) IncAutoHeal(string, int)                      {}

type NoopNotifier struct{}

func (NoopNotifier) NotifyStageSetup(string)     {}
func (NoopNotifier) NotifyStageRefreshed(string) {}

// ConfigSupplierInit is the immutable set of parameters every worker is
// constructed with. All fields must be safe for concurrent use: many
// workers hold the same Downloader/Builder/Packager/Cleaner.
type ConfigSupplierInit struct {
	Environments []string
	Downloader   downloader.Downloader
	Builder      builder.Builder
	Packager     packager.Packager
	Cleaner      cleaner.Cleaner
	Recorder     Recorder
	Notifier     Notifier
}

func (i *ConfigSupplierInit) recorder() Recorder {
	if i.Recorder == nil {
		return NoopRecorder{}
	}
	return i.Recorder
}

func (i *ConfigSupplierInit) notifier() Notifier {
	if i.Notifier == nil {
		return NoopNotifier{}
	}
	return i.Notifier
}
