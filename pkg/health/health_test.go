package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadyEndpointNotReadyByDefault(t *testing.T) {
	h := New()

	rec := httptest.NewRecorder()
	h.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unhealthy","checks":{"service":"not ready"}}`, rec.Body.String())
}

func TestReadyEndpointAfterSetReady(t *testing.T) {
	h := New()
	h.SetReady(true)

	rec := httptest.NewRecorder()
	h.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadinessCheckFailure(t *testing.T) {
	h := New()
	h.SetReady(true)
	h.AddReadinessCheck("postgres", time.Second, func(context.Context) error {
		return errors.New("connection refused")
	})

	h.poll(context.Background())

	rec := httptest.NewRecorder()
	h.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unhealthy","checks":{"postgres":"connection refused"}}`, rec.Body.String())
	assert.False(t, h.IsReady())
}

func TestReadinessCheckRecovery(t *testing.T) {
	h := New()
	h.SetReady(true)

	var fail bool
	h.AddReadinessCheck("postgres", time.Second, func(context.Context) error {
		if fail {
			return errors.New("down")
		}
		return nil
	})

	fail = true
	h.poll(context.Background())
	assert.False(t, h.IsReady())

	fail = false
	h.poll(context.Background())
	assert.True(t, h.IsReady())
}

func TestLiveEndpointIndependentOfReadiness(t *testing.T) {
	h := New()
	h.AddReadinessCheck("postgres", time.Second, func(context.Context) error {
		return errors.New("down")
	})
	h.poll(context.Background())

	rec := httptest.NewRecorder()
	h.LiveEndpoint(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLivenessCheckFailure(t *testing.T) {
	h := New()
	h.AddLivenessCheck("deadlock", time.Second, func(context.Context) error {
		return errors.New("stuck")
	})
	h.poll(context.Background())

	rec := httptest.NewRecorder()
	h.LiveEndpoint(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unhealthy","checks":{"deadlock":"stuck"}}`, rec.Body.String())
}

func TestCheckTimeout(t *testing.T) {
	h := New()
	h.SetReady(true)
	h.AddReadinessCheck("slow", 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	h.poll(context.Background())
	assert.False(t, h.IsReady())
}

func TestStartAndStop(t *testing.T) {
	h := New()
	h.SetReady(true)

	polled := make(chan struct{}, 1)
	h.AddReadinessCheck("probe", time.Second, func(context.Context) error {
		select {
		case polled <- struct{}{}:
		default:
		}
		return nil
	})

	h.Start(context.Background(), 10*time.Millisecond)

	select {
	case <-polled:
	case <-time.After(time.Second):
		t.Fatal("check never polled")
	}

	h.Stop()
	h.Stop() // idempotent
	assert.True(t, h.IsReady())
}

func TestGoroutineCountCheck(t *testing.T) {
	require.NoError(t, GoroutineCountCheck(100000)(context.Background()))
	require.Error(t, GoroutineCountCheck(0)(context.Background()))
}

func TestGCMaxPauseCheck(t *testing.T) {
	require.NoError(t, GCMaxPauseCheck(time.Hour)(context.Background()))
}
