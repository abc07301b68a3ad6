package appstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simpleg-eu/cp-config/internal/authz"
	"github.com/simpleg-eu/cp-config/internal/config"
)

type fakeChain struct{}

func (fakeChain) GetConfig(context.Context, string, string, string) ([]byte, error) {
	return []byte("ok"), nil
}

func TestNewDefaultsToAllowAll(t *testing.T) {
	s := New(fakeChain{}, config.TimeoutsConfig{}, config.HealthProbe{}, nil)
	require.IsType(t, authz.AllowAll{}, s.Authorization)
}

func TestNewKeepsSuppliedAuthorizer(t *testing.T) {
	supplied := &authz.AllowAll{}
	s := New(fakeChain{}, config.TimeoutsConfig{}, config.HealthProbe{}, supplied)
	require.NotNil(t, s.SupplyChain)
	require.Same(t, supplied, s.Authorization)
}
