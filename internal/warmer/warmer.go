// Package warmer periodically probes every statically-declared stage so
// its working directory is already set up before the first real request
// arrives, smoothing out the latency of the initial clone and build.
package warmer

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/simpleg-eu/cp-config/internal/logfields"
)

// Prober issues a GetConfig probe call for a stage.
type Prober interface {
	GetConfig(ctx context.Context, stage, environment, component string) ([]byte, error)
}

// Warmer runs a recurring job that probes each static stage.
type Warmer struct {
	scheduler gocron.Scheduler
	prober    Prober

	stages      []string
	environment string
	component   string
	timeout     time.Duration
}

// New builds a Warmer that, once Start is called, probes every stage in
// stages at the given interval using environment/component as the probe
// target.
func New(prober Prober, stages []string, environment, component string, interval time.Duration) (*Warmer, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	w := &Warmer{
		scheduler:   scheduler,
		prober:      prober,
		stages:      stages,
		environment: environment,
		component:   component,
		timeout:     interval,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(w.warmAll),
	)
	if err != nil {
		return nil, err
	}

	return w, nil
}

// Start begins running the warm-up job in the background. It returns
// immediately.
func (w *Warmer) Start() {
	w.scheduler.Start()
}

// Shutdown stops the scheduler and waits for any in-flight job to finish.
func (w *Warmer) Shutdown() error {
	return w.scheduler.Shutdown()
}

func (w *Warmer) warmAll() {
	for _, stage := range w.stages {
		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		_, err := w.prober.GetConfig(ctx, stage, w.environment, w.component)
		cancel()
		if err != nil {
			slog.Warn("stage warm-up probe failed", logfields.Stage(stage), logfields.Error(err))
			continue
		}
		slog.Debug("stage warm-up probe succeeded", logfields.Stage(stage))
	}
}
