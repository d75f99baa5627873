package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/axellelanca/shortlinks/internal/config"
	"github.com/axellelanca/shortlinks/internal/database"
	customerrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver: "sqlite",
		Name:   filepath.Join(t.TempDir(), "repo.db"),
	}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newLink(owner, slug string, createdAt time.Time) *models.Link {
	return &models.Link{
		OwnerID:      owner,
		OriginalURL:  "https://example.com/" + slug,
		Slug:         slug,
		OpenInNewTab: true,
		IsActive:     true,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func TestGormLinkRepository_CreateLink(t *testing.T) {
	ctx := context.Background()
	repo := NewLinkRepository(newTestDB(t))
	now := time.Now().UTC()

	first := newLink("alice", "abc", now)
	require.NoError(t, repo.CreateLink(ctx, first))
	assert.NotEmpty(t, first.ID)

	err := repo.CreateLink(ctx, newLink("bob", "abc", now))
	require.Error(t, err)
	assert.ErrorIs(t, err, customerrors.ErrSlugConflict)

	// Slugs are case-sensitive.
	require.NoError(t, repo.CreateLink(ctx, newLink("bob", "ABC", now)))

	got, err := repo.GetLinkBySlug(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "alice", got.OwnerID)
}

func TestGormLinkRepository_ConcurrentSameSlug(t *testing.T) {
	ctx := context.Background()
	repo := NewLinkRepository(newTestDB(t))

	const writers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.CreateLink(ctx, newLink(fmt.Sprintf("owner-%d", i), "shared", time.Now().UTC()))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, customerrors.ErrSlugConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, writers-1, conflicts)
}

func TestGormLinkRepository_GetActiveLinkBySlug(t *testing.T) {
	ctx := context.Background()
	repo := NewLinkRepository(newTestDB(t))

	link := newLink("alice", "toggle", time.Now().UTC())
	require.NoError(t, repo.CreateLink(ctx, link))

	_, err := repo.GetActiveLinkBySlug(ctx, "toggle")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateLinkFields(ctx, link.ID, "alice", map[string]any{"is_active": false}))

	_, err = repo.GetActiveLinkBySlug(ctx, "toggle")
	assert.ErrorIs(t, err, customerrors.ErrNotFound)

	_, err = repo.GetActiveLinkBySlug(ctx, "missing")
	assert.ErrorIs(t, err, customerrors.ErrNotFound)
}

func TestGormLinkRepository_UpdateLinkFields_OwnerGuard(t *testing.T) {
	ctx := context.Background()
	repo := NewLinkRepository(newTestDB(t))

	link := newLink("alice", "guarded", time.Now().UTC())
	require.NoError(t, repo.CreateLink(ctx, link))

	err := repo.UpdateLinkFields(ctx, link.ID, "mallory", map[string]any{"title": "owned"})
	assert.ErrorIs(t, err, customerrors.ErrNotFound)

	got, err := repo.GetLinkByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Title)
}

func TestGormLinkRepository_IncrementClicks_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewLinkRepository(newTestDB(t))

	link := newLink("alice", "hot", time.Now().UTC())
	require.NoError(t, repo.CreateLink(ctx, link))

	const visits = 40
	var wg sync.WaitGroup
	for i := 0; i < visits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.IncrementClicks(ctx, link.ID))
		}()
	}
	wg.Wait()

	got, err := repo.GetLinkByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(visits), got.Clicks)

	assert.ErrorIs(t, repo.IncrementClicks(ctx, "missing"), customerrors.ErrNotFound)
}

func TestGormLinkRepository_DeleteLink(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewLinkRepository(db)
	clicks := NewClickRepository(db)

	link := newLink("alice", "gone", time.Now().UTC())
	require.NoError(t, repo.CreateLink(ctx, link))
	require.NoError(t, clicks.CreateClick(ctx, &models.Click{LinkID: link.ID, Timestamp: time.Now().UTC()}))

	assert.ErrorIs(t, repo.DeleteLink(ctx, link.ID, "mallory"), customerrors.ErrNotFound)
	require.NoError(t, repo.DeleteLink(ctx, link.ID, "alice"))

	_, err := repo.GetLinkByID(ctx, link.ID)
	assert.ErrorIs(t, err, customerrors.ErrNotFound)

	count, err := clicks.CountClicksByLinkID(ctx, link.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	// The slug is immediately reusable.
	require.NoError(t, repo.CreateLink(ctx, newLink("bob", "gone", time.Now().UTC())))
}

func TestGormLinkRepository_ListLinksByOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewLinkRepository(newTestDB(t))
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	oldest := newLink("alice", "docs", base)
	oldest.Title = "Go documentation"
	middle := newLink("alice", "blog", base.Add(time.Minute))
	middle.IsActive = false
	newest := newLink("alice", "news", base.Add(2*time.Minute))
	other := newLink("bob", "bobs", base)

	for _, l := range []*models.Link{oldest, middle, newest, other} {
		require.NoError(t, repo.CreateLink(ctx, l))
	}

	tests := []struct {
		name   string
		filter models.LinkFilter
		want   []string
	}{
		{name: "all newest first", filter: models.LinkFilter{Status: models.StatusAll}, want: []string{"news", "blog", "docs"}},
		{name: "empty status means all", filter: models.LinkFilter{}, want: []string{"news", "blog", "docs"}},
		{name: "active only", filter: models.LinkFilter{Status: models.StatusActive}, want: []string{"news", "docs"}},
		{name: "inactive only", filter: models.LinkFilter{Status: models.StatusInactive}, want: []string{"blog"}},
		{name: "search title case-insensitive", filter: models.LinkFilter{Search: "DOCUMENTATION"}, want: []string{"docs"}},
		{name: "search url", filter: models.LinkFilter{Search: "example.com/news"}, want: []string{"news"}},
		{name: "search no match", filter: models.LinkFilter{Search: "nothing"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links, err := repo.ListLinksByOwner(ctx, "alice", tt.filter)
			require.NoError(t, err)

			slugs := make([]string, 0, len(links))
			for _, l := range links {
				slugs = append(slugs, l.Slug)
			}
			assert.Equal(t, tt.want, slugs)
		})
	}
}

func TestGormLinkRepository_SummarizeOwner(t *testing.T) {
	ctx := context.Background()
	repo := NewLinkRepository(newTestDB(t))

	empty, err := repo.SummarizeOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, models.OwnerSummary{}, empty)

	a := newLink("alice", "a1", time.Now().UTC())
	b := newLink("alice", "a2", time.Now().UTC())
	b.IsActive = false
	require.NoError(t, repo.CreateLink(ctx, a))
	require.NoError(t, repo.CreateLink(ctx, b))
	require.NoError(t, repo.IncrementClicks(ctx, a.ID))
	require.NoError(t, repo.IncrementClicks(ctx, a.ID))
	require.NoError(t, repo.IncrementClicks(ctx, b.ID))

	summary, err := repo.SummarizeOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.OwnerSummary{TotalLinks: 2, ActiveLinks: 1, TotalClicks: 3}, summary)
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm translated", err: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "postgres code", err: &pgconn.PgError{Code: pgErrCodeUniqueViolation}, want: true},
		{name: "postgres other code", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "sqlite message", err: errors.New("UNIQUE constraint failed: links.slug"), want: true},
		{name: "unrelated", err: errors.New("disk I/O error"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}
