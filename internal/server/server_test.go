package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RiftRunner_Go/internal/challenge"
	"github.com/osse101/RiftRunner_Go/internal/cycle"
	"github.com/osse101/RiftRunner_Go/internal/database/memory"
	"github.com/osse101/RiftRunner_Go/internal/domain"
	"github.com/osse101/RiftRunner_Go/internal/event"
	"github.com/osse101/RiftRunner_Go/internal/handler"
	"github.com/osse101/RiftRunner_Go/internal/leaderboard"
	"github.com/osse101/RiftRunner_Go/internal/meta"
	"github.com/osse101/RiftRunner_Go/internal/run"
	"github.com/osse101/RiftRunner_Go/internal/state"
	"github.com/osse101/RiftRunner_Go/internal/testing/leaktest"
)

const testAPIKey = "test-api-key"

func newTestServices() Services {
	store := memory.New()
	clock := cycle.NewSimulatedClock(time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC))
	deriver := challenge.NewDeriver(8, time.Hour)
	bus := event.NewMemoryBus()

	states := state.NewService(store, clock, time.Second)
	boards := leaderboard.NewService(store, states, clock, time.Second)
	return Services{
		Store:       store,
		Meta:        meta.NewService(store, boards, deriver, clock, time.Second),
		Run:         run.NewService(store, states, boards, deriver, syncPublisher{bus}, clock, time.Second),
		Leaderboard: boards,
		State:       states,
	}
}

type syncPublisher struct{ bus event.Bus }

func (p syncPublisher) PublishWithRetry(ctx context.Context, evt event.Event) {
	_ = p.bus.Publish(ctx, evt)
}

func testOptions() Options {
	return Options{
		APIKey:           testAPIKey,
		RateLimit:        DefaultRateLimit(),
		LeaderboardLimit: domain.DefaultLeaderboardLimit,
	}
}

func call(t *testing.T, h http.Handler, method, path, username string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(HeaderAPIKey, testAPIKey)
	req.Header.Set(handler.HeaderScopeID, "post-1")
	if username != "" {
		req.Header.Set(handler.HeaderUsername, username)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicEndpoints(t *testing.T) {
	router := NewRouter(testOptions(), newTestServices())

	for _, path := range []string{"/healthz", "/readyz", "/version", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
		})
	}
}

func TestRouter_APIRequiresKey(t *testing.T) {
	router := NewRouter(testOptions(), newTestServices())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/meta", nil)
	req.Header.Set(handler.HeaderScopeID, "post-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_MissingScope(t *testing.T) {
	router := NewRouter(testOptions(), newTestServices())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/meta", nil)
	req.Header.Set(HeaderAPIKey, testAPIKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RunLifecycle(t *testing.T) {
	router := NewRouter(testOptions(), newTestServices())

	rec := call(t, router, http.MethodGet, "/api/v1/meta", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, router, http.MethodPost, "/api/v1/run/start", "alice", map[string]any{"mode": "normal"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var start domain.RunStart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &start))
	require.NotEmpty(t, start.Ticket)

	rec = call(t, router, http.MethodPost, "/api/v1/run/complete", "alice", map[string]any{
		"ticket":          start.Ticket,
		"score":           1500,
		"survivedSeconds": 90,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result domain.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Positive(t, result.Score)
	assert.Equal(t, result.Score, result.BestScore)

	rec = call(t, router, http.MethodPost, "/api/v1/run/complete", "alice", map[string]any{
		"ticket": start.Ticket,
		"score":  1500,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, router, http.MethodGet, "/api/v1/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice")
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := NewRouter(testOptions(), newTestServices())

	rec := call(t, router, http.MethodGet, "/api/v1/inventory", "alice", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_StartStop(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		srv := NewServer(Options{Port: 0, RateLimit: DefaultRateLimit()}, newTestServices())

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		time.Sleep(50 * time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		require.NoError(t, srv.Stop(ctx))

		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("server did not stop")
		}
	})
}
