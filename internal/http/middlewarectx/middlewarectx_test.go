package middlewarectx

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
)

type providerStub struct {
	snap *snapshot.Snapshot
	err  error
}

func (p *providerStub) Snapshot() (*snapshot.Snapshot, error) {
	return p.snap, p.err
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSnapshotMiddleware_AttachesSnapshot(t *testing.T) {
	snap := snapshot.New(nil, nil, nil, time.Now())
	provider := &providerStub{snap: snap}

	var got *snapshot.Snapshot
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ok bool
		got, ok = SnapshotFrom(r.Context())
		require.True(t, ok)
	})

	handler := SnapshotMiddleware(provider, newNoopLogger())(next)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/summary", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Same(t, snap, got)
}

func TestSnapshotMiddleware_NoSnapshotReturns503(t *testing.T) {
	provider := &providerStub{err: errors.New("no snapshot available yet")}

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	handler := SnapshotMiddleware(provider, newNoopLogger())(next)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/summary", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "report data is not ready yet")
	assert.False(t, called)
}

func TestSnapshotFrom_EmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := SnapshotFrom(req.Context())

	assert.False(t, ok)
}

func TestSnapshotMiddleware_EachRequestSeesOneSnapshot(t *testing.T) {
	first := snapshot.New(nil, nil, nil, time.Now())
	second := snapshot.New(nil, nil, nil, time.Now())
	provider := &providerStub{snap: first}

	var seen []*snapshot.Snapshot
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap, _ := SnapshotFrom(r.Context())
		seen = append(seen, snap)
		// обновление снимка между запросами не влияет на текущий запрос
		provider.snap = second
	})

	handler := SnapshotMiddleware(provider, newNoopLogger())(next)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users", nil))

	require.Len(t, seen, 2)
	assert.Same(t, first, seen[0])
	assert.Same(t, second, seen[1])
}
