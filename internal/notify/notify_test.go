package notify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWithUnreachableServerDoesNotFail(t *testing.T) {
	c := New("nats://127.0.0.1:4", "cp-config.lifecycle")
	require.NotNil(t, c)
	defer c.Close()
}

func TestNotifyStageSetupNeverPanicsWithoutConnection(t *testing.T) {
	c := New("nats://127.0.0.1:4", "cp-config.lifecycle")
	defer c.Close()

	require.NotPanics(t, func() {
		c.NotifyStageSetup("main")
		c.NotifyStageRefreshed("main")
	})
}

func TestCloseIsIdempotent(t *testing.T) {
	c := New("nats://127.0.0.1:4", "cp-config.lifecycle")
	c.Close()
	require.NotPanics(t, c.Close)
}
