// Package supply implements the configuration-delivery core: a pool of
// stage-affine worker actors (ConfigSupplier) fed by request channels and
// owned by a router (ConfigSupplyChain).
package supply

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/simpleg-eu/cp-config/internal/cperr"
	"github.com/simpleg-eu/cp-config/internal/errorkind"
	"github.com/simpleg-eu/cp-config/internal/logfields"
)

const channelCapacity = 1024

// channelPair is one request channel shared by every worker attached to it,
// plus the bookkeeping needed to auto-heal the attached worker count back
// up to the configured target. A Go channel has no built-in consumer count,
// so live tracks it explicitly: incremented when a worker is spawned and
// decremented when that worker's goroutine returns.
type channelPair struct {
	name string
	ch   chan *GetConfigRequest
	live atomic.Int64
	mu   sync.Mutex // guards the check-then-spawn sequence in ensureCapacity
}

func newChannelPair(name string) *channelPair {
	return &channelPair{name: name, ch: make(chan *GetConfigRequest, channelCapacity)}
}

// ConfigSupplyChain owns the request channels and the worker pools attached
// to them, sharded by stage into a dedicated channel per static stage and
// one shared dynamic channel for everything else.
type ConfigSupplyChain struct {
	ctx    context.Context
	cancel context.CancelFunc

	init            *ConfigSupplierInit
	suppliersCount  atomic.Int64
	baseWorkingDir  string
	staticSuppliers map[string]*channelPair
	dynamic         *channelPair

	wg sync.WaitGroup
}

// NewConfigSupplyChain allocates one bounded channel per static stage plus
// the dynamic pool, and spawns suppliersCount workers onto each.
func NewConfigSupplyChain(ctx context.Context, suppliersCount int, staticStages []string, init *ConfigSupplierInit, baseWorkingDir string) (*ConfigSupplyChain, error) {
	if suppliersCount <= 0 {
		return nil, cperr.New(errorkind.UnexpectedResponseType, "suppliers count must be positive")
	}
	if err := os.MkdirAll(baseWorkingDir, 0o755); err != nil {
		return nil, cperr.Wrap(errorkind.FailedToRead, "failed to create base working directory", err)
	}

	chainCtx, cancel := context.WithCancel(ctx)
	chain := &ConfigSupplyChain{
		ctx:             chainCtx,
		cancel:          cancel,
		init:            init,
		baseWorkingDir:  baseWorkingDir,
		staticSuppliers: make(map[string]*channelPair, len(staticStages)),
		dynamic:         newChannelPair("dynamic"),
	}
	chain.suppliersCount.Store(int64(suppliersCount))

	for _, stage := range staticStages {
		pair := newChannelPair("static:" + stage)
		chain.staticSuppliers[stage] = pair
		chain.spawnWorkers(pair, suppliersCount)
	}
	chain.spawnWorkers(chain.dynamic, suppliersCount)

	return chain, nil
}

// SetSuppliersCount changes the target worker count per channel, applied
// lazily on the next routed request through ensureCapacity (used by
// internal/configwatch on a live config reload).
func (c *ConfigSupplyChain) SetSuppliersCount(n int) {
	c.suppliersCount.Store(int64(n))
}

func (c *ConfigSupplyChain) spawnWorkers(pair *channelPair, n int) {
	for i := 0; i < n; i++ {
		worker := newConfigSupplier(c.init, c.baseWorkingDir)
		pair.live.Add(1)
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			defer pair.live.Add(-1)
			worker.Run(c.ctx, pair.ch)
		}()
	}
	c.init.recorder().SetWorkerCount(pair.name, int(pair.live.Load()))
}

// ensureCapacity implements the router's auto-healing step: if fewer
// workers are attached to pair than the configured target, top it up.
func (c *ConfigSupplyChain) ensureCapacity(pair *channelPair) {
	target := int(c.suppliersCount.Load())

	pair.mu.Lock()
	defer pair.mu.Unlock()

	live := int(pair.live.Load())
	if live >= target {
		return
	}
	missing := target - live
	slog.Info("auto-healing worker pool", slog.String("channel", pair.name),
		logfields.Count(missing))
	c.init.recorder().IncAutoHeal(pair.name, missing)
	c.spawnWorkers(pair, missing)
}

func (c *ConfigSupplyChain) pairFor(stage string) *channelPair {
	if pair, ok := c.staticSuppliers[stage]; ok {
		return pair
	}
	return c.dynamic
}

// GetConfig is the router's external entry point. ctx carries the caller's
// deadline: if it expires before a worker replies, GetConfig returns its
// error and the worker, still running, discards the eventual result when it
// notices the same ctx is done (see ConfigSupplier.handle).
func (c *ConfigSupplyChain) GetConfig(ctx context.Context, stage, environment, component string) ([]byte, error) {
	pair := c.pairFor(stage)
	c.ensureCapacity(pair)

	reply := newReplyChan()
	req := &GetConfigRequest{
		Stage:       stage,
		Environment: environment,
		Component:   component,
		Ctx:         ctx,
		Reply:       reply,
	}

	select {
	case pair.ch <- req:
	case <-ctx.Done():
		return nil, cperr.Wrap(errorkind.ChannelCommunicationFailure, "failed to enqueue request", ctx.Err())
	case <-c.ctx.Done():
		return nil, cperr.New(errorkind.ChannelCommunicationFailure, "supply chain is shutting down")
	}

	select {
	case resp, ok := <-reply:
		if !ok {
			return nil, cperr.New(errorkind.ChannelCommunicationFailure, "reply channel closed unexpectedly")
		}
		if resp.Err != nil {
			return nil, resp.Err
		}
		return resp.Data, nil
	case <-ctx.Done():
		return nil, cperr.Wrap(errorkind.ChannelCommunicationFailure, "timed out waiting for reply", ctx.Err())
	}
}

// LiveWorkers reports the number of worker goroutines currently attached to
// stage's channel (the static channel if stage is declared static, the
// dynamic channel otherwise). It exists for tests asserting auto-healing.
func (c *ConfigSupplyChain) LiveWorkers(stage string) int {
	return int(c.pairFor(stage).live.Load())
}

// Shutdown cancels every worker's context and waits for them to drain,
// dropping (cleaning) their working directories.
func (c *ConfigSupplyChain) Shutdown() {
	c.cancel()
	c.wg.Wait()
}
