package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticLinks []models.Link

func (s staticLinks) GetAllActiveLinks(context.Context) ([]models.Link, error) {
	return s, nil
}

func TestUrlMonitor_TracksStateChanges(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	links := staticLinks{{ID: "l1", Slug: "up", OriginalURL: srv.URL}}
	m := NewUrlMonitor(links, time.Hour, zerolog.Nop())
	ctx := context.Background()

	_, known := m.State("l1")
	assert.False(t, known)

	m.checkUrls(ctx)
	reachable, known := m.State("l1")
	require.True(t, known)
	assert.True(t, reachable)

	healthy.Store(false)
	m.checkUrls(ctx)
	reachable, _ = m.State("l1")
	assert.False(t, reachable)
}

func TestUrlMonitor_RedirectCountsAsReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://elsewhere.invalid/", http.StatusMovedPermanently)
	}))
	defer srv.Close()

	m := NewUrlMonitor(staticLinks{}, time.Hour, zerolog.Nop())
	ok, err := m.isUrlAccessible(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUrlMonitor_UnreachableDestination(t *testing.T) {
	m := NewUrlMonitor(staticLinks{}, time.Hour, zerolog.Nop())
	ok, err := m.isUrlAccessible(context.Background(), "http://127.0.0.1:1/")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestUrlMonitor_StartStopsWithContext(t *testing.T) {
	m := NewUrlMonitor(staticLinks{}, 10*time.Millisecond, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancellation")
	}
}
