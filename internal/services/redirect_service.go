package services

import (
	"context"
	"time"

	customerrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/axellelanca/shortlinks/internal/repository"
	"github.com/rs/zerolog"
)

// Visit describes the request that hit a short link.
type Visit struct {
	UserAgent string
	IP        string
	Referrer  string
}

// RedirectTarget is what the HTTP layer needs to answer a visit.
type RedirectTarget struct {
	OriginalURL  string
	OpenInNewTab bool
}

// RedirectService resolves slugs to destinations and counts each visit once.
type RedirectService struct {
	linkRepo repository.LinkRepository
	events   chan<- models.ClickEvent
	log      zerolog.Logger
	now      func() time.Time
}

// NewRedirectService creates a resolver. events may be nil, in which case no
// click events are emitted for analytics.
func NewRedirectService(linkRepo repository.LinkRepository, events chan<- models.ClickEvent, log zerolog.Logger) *RedirectService {
	return &RedirectService{
		linkRepo: linkRepo,
		events:   events,
		log:      log.With().Str("component", "redirect_service").Logger(),
		now:      time.Now,
	}
}

// Resolve looks up an active link by exact slug and increments its counter.
//
// Only active links resolve; unknown and deactivated slugs both yield
// ErrNotFound without writing anything. A failed increment is logged and the
// destination is still returned.
func (s *RedirectService) Resolve(ctx context.Context, slug string, visit Visit) (*RedirectTarget, error) {
	if slug == "" {
		return nil, customerrors.ErrNotFound
	}

	link, err := s.linkRepo.GetActiveLinkBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.linkRepo.IncrementClicks(ctx, link.ID); err != nil {
		s.log.Error().
			Err(err).
			Str("slug", slug).
			Str("link_id", link.ID).
			Msg("failed to increment click counter")
	}

	s.publish(models.ClickEvent{
		LinkID:    link.ID,
		Timestamp: s.now().UTC(),
		UserAgent: visit.UserAgent,
		IP:        visit.IP,
		Referrer:  visit.Referrer,
	}, slug)

	return &RedirectTarget{
		OriginalURL:  link.OriginalURL,
		OpenInNewTab: link.OpenInNewTab,
	}, nil
}

// publish never blocks the redirect: when the buffer is full the event is dropped.
func (s *RedirectService) publish(event models.ClickEvent, slug string) {
	if s.events == nil {
		return
	}
	select {
	case s.events <- event:
	default:
		s.log.Warn().
			Str("slug", slug).
			Str("link_id", event.LinkID).
			Msg("click events buffer full, dropping event")
	}
}
