package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simpleg-eu/cp-config/internal/cperr"
	"github.com/simpleg-eu/cp-config/internal/errorkind"
	"github.com/simpleg-eu/cp-config/internal/eventlog"
)

type fakeChain struct {
	err error
}

func (f fakeChain) GetConfig(context.Context, string, string, string) ([]byte, error) {
	return []byte("data"), f.err
}

func TestAuditedSupplyChainRecordsSuccess(t *testing.T) {
	log, err := eventlog.Open(":memory:")
	require.NoError(t, err)
	defer log.Close()

	a := &auditedSupplyChain{chain: fakeChain{}, log: log}
	data, err := a.GetConfig(context.Background(), "main", "development", "dummy")
	require.NoError(t, err)
	require.Equal(t, []byte("data"), data)

	entries, err := log.Recent(context.Background(), "main", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "", entries[0].Kind)
	require.Equal(t, int64(len("data")), entries[0].ByteSize)
}

func TestAuditedSupplyChainRecordsFailureKind(t *testing.T) {
	log, err := eventlog.Open(":memory:")
	require.NoError(t, err)
	defer log.Close()

	a := &auditedSupplyChain{chain: fakeChain{err: cperr.New(errorkind.NotFound, "not found")}, log: log}
	_, err = a.GetConfig(context.Background(), "main", "development", "dummy")
	require.Error(t, err)

	entries, err := log.Recent(context.Background(), "main", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, string(errorkind.NotFound), entries[0].Kind)
}
