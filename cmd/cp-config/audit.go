package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/simpleg-eu/cp-config/internal/appstate"
	"github.com/simpleg-eu/cp-config/internal/cperr"
	"github.com/simpleg-eu/cp-config/internal/eventlog"
	"github.com/simpleg-eu/cp-config/internal/logfields"
)

// auditedSupplyChain wraps a supply chain so every completed GetConfig call
// is recorded to the event log, without the supply package itself knowing
// the event log exists.
type auditedSupplyChain struct {
	chain appstate.SupplyChain
	log   *eventlog.Log
}

func (a *auditedSupplyChain) GetConfig(ctx context.Context, stage, environment, component string) ([]byte, error) {
	start := time.Now()
	data, err := a.chain.GetConfig(ctx, stage, environment, component)

	kind := ""
	if err != nil {
		kind = string(cperr.KindOf(err))
	}
	if recordErr := a.log.Record(context.Background(), stage, environment, component, kind, int64(len(data)), time.Since(start)); recordErr != nil {
		slog.Warn("failed to record event log entry", logfields.Stage(stage), logfields.Error(recordErr))
	}

	return data, err
}
