package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/simpleg-eu/cp-config/internal/appstate"
	"github.com/simpleg-eu/cp-config/internal/authz"
	"github.com/simpleg-eu/cp-config/internal/config"
	"github.com/simpleg-eu/cp-config/internal/cperr"
	"github.com/simpleg-eu/cp-config/internal/errorkind"
)

type fakeChain struct {
	data  []byte
	err   error
	sleep time.Duration
}

func (f *fakeChain) GetConfig(ctx context.Context, stage, environment, component string) ([]byte, error) {
	if f.sleep > 0 {
		select {
		case <-time.After(f.sleep):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.data, f.err
}

func newState(chain appstate.SupplyChain) *appstate.State {
	return appstate.New(chain, config.TimeoutsConfig{ControllersConfigGetConfig: 1}, config.HealthProbe{Stage: "dummy", Environment: "development", Component: "dummy"}, authz.AllowAll{})
}

func TestHandleGetConfigSuccess(t *testing.T) {
	srv := New("127.0.0.1", 0, newState(&fakeChain{data: []byte("hello")}), nil)

	req := httptest.NewRequest(http.MethodGet, "/config?environment=development&component=dummy", nil)
	rec := httptest.NewRecorder()
	srv.handleGetConfig(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "hello", rec.Body.String())
}

func TestHandleGetConfigNotFoundIsBadRequest(t *testing.T) {
	srv := New("127.0.0.1", 0, newState(&fakeChain{err: cperr.New(errorkind.NotFound, "component \"x\" not found")}), nil)

	req := httptest.NewRequest(http.MethodGet, "/config?environment=development&component=x", nil)
	rec := httptest.NewRecorder()
	srv.handleGetConfig(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetConfigGitErrorIsInternalError(t *testing.T) {
	srv := New("127.0.0.1", 0, newState(&fakeChain{err: cperr.New(errorkind.GitError, "clone failed")}), nil)

	req := httptest.NewRequest(http.MethodGet, "/config?environment=development&component=dummy", nil)
	rec := httptest.NewRecorder()
	srv.handleGetConfig(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleGetConfigTimeout(t *testing.T) {
	state := newState(&fakeChain{sleep: 200 * time.Millisecond})
	state.Timeouts.ControllersConfigGetConfig = 0 // forces an immediately-expired deadline below
	srv := New("127.0.0.1", 0, state, nil)

	req := httptest.NewRequest(http.MethodGet, "/config?environment=development&component=dummy", nil)
	rec := httptest.NewRecorder()
	srv.handleGetConfig(rec, req)

	require.Equal(t, http.StatusRequestTimeout, rec.Code)
}

func TestHandleReadinessOK(t *testing.T) {
	srv := New("127.0.0.1", 0, newState(&fakeChain{data: []byte{}}), nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz/readiness", nil)
	rec := httptest.NewRecorder()
	srv.handleReadiness(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleReadinessFailure(t *testing.T) {
	srv := New("127.0.0.1", 0, newState(&fakeChain{err: errors.New("boom")}), nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz/readiness", nil)
	rec := httptest.NewRecorder()
	srv.handleReadiness(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleLivenessAlwaysOK(t *testing.T) {
	srv := New("127.0.0.1", 0, newState(&fakeChain{}), nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz/liveness", nil)
	rec := httptest.NewRecorder()
	srv.handleLiveness(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
