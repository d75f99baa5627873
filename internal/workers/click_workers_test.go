package workers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryClickRepo struct {
	mu     sync.Mutex
	clicks []models.Click
	fail   bool
}

func (r *memoryClickRepo) CreateClick(_ context.Context, click *models.Click) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("disk full")
	}
	r.clicks = append(r.clicks, *click)
	return nil
}

func (r *memoryClickRepo) CountClicksByLinkID(_ context.Context, linkID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.clicks {
		if c.LinkID == linkID {
			n++
		}
	}
	return n, nil
}

func TestClickWorkers_RecordsEvents(t *testing.T) {
	repo := &memoryClickRepo{}
	events := make(chan models.ClickEvent, 10)
	pool := StartClickWorkers(3, events, repo, "salt", zerolog.Nop())

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		events <- models.ClickEvent{
			LinkID:    "link-1",
			Timestamp: now,
			UserAgent: strings.Repeat("u", 300),
			IP:        "198.51.100.1",
		}
	}
	close(events)
	pool.Wait()

	n, err := repo.CountClicksByLinkID(context.Background(), "link-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	click := repo.clicks[0]
	assert.Len(t, click.UserAgent, 255)
	assert.Equal(t, HashIP("198.51.100.1", "salt"), click.IPHash)
	assert.NotContains(t, click.IPHash, "198.51.100.1")
	assert.True(t, click.Timestamp.Equal(now))
}

func TestClickWorkers_FailureDoesNotStopPool(t *testing.T) {
	repo := &memoryClickRepo{fail: true}
	events := make(chan models.ClickEvent, 2)
	pool := StartClickWorkers(0, events, repo, "salt", zerolog.Nop())

	events <- models.ClickEvent{LinkID: "a"}
	events <- models.ClickEvent{LinkID: "b"}
	close(events)
	pool.Wait()

	assert.Empty(t, repo.clicks)
}

func TestHashIP(t *testing.T) {
	assert.Empty(t, HashIP("", "salt"))
	assert.Len(t, HashIP("10.0.0.1", "salt"), 64)
	assert.Equal(t, HashIP("10.0.0.1", "salt"), HashIP("10.0.0.1", "salt"))
	assert.NotEqual(t, HashIP("10.0.0.1", "salt"), HashIP("10.0.0.1", "pepper"))
}
