// Package appstate bundles the collaborators the HTTP layer needs on every
// request: the supply chain, request timeouts, and the authorizer.
package appstate

import (
	"context"

	"github.com/simpleg-eu/cp-config/internal/authz"
	"github.com/simpleg-eu/cp-config/internal/config"
)

// SupplyChain is the subset of supply.ConfigSupplyChain the HTTP layer
// depends on, kept narrow so httpserver tests can supply a fake.
type SupplyChain interface {
	GetConfig(ctx context.Context, stage, environment, component string) ([]byte, error)
}

// State is the glue struct handed to every HTTP handler.
type State struct {
	SupplyChain   SupplyChain
	Timeouts      config.TimeoutsConfig
	HealthProbe   config.HealthProbe
	Authorization authz.Authorizer
}

// New builds a State from its collaborators, defaulting Authorization to
// authz.AllowAll when none is supplied.
func New(chain SupplyChain, timeouts config.TimeoutsConfig, probe config.HealthProbe, authorizer authz.Authorizer) *State {
	if authorizer == nil {
		authorizer = authz.AllowAll{}
	}
	return &State{
		SupplyChain:   chain,
		Timeouts:      timeouts,
		HealthProbe:   probe,
		Authorization: authorizer,
	}
}
