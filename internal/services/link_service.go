// Package services contains the slug registry and the redirect resolver.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	customerrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/axellelanca/shortlinks/internal/repository"
	"github.com/rs/zerolog"
)

const defaultMaxAttempts = 10

// LinkServiceOptions configures slug allocation and short URL rendering.
type LinkServiceOptions struct {
	BaseURL     string
	SlugLength  int
	MaxAttempts int
}

// CreateLinkInput carries the owner-supplied fields of a new link.
// An empty Alias asks for a generated code; a nil OpenInNewTab means true.
type CreateLinkInput struct {
	OriginalURL  string
	Alias        string
	Title        string
	Description  string
	OpenInNewTab *bool
}

// LinkUpdate lists the mutable fields. Nil fields are left unchanged.
type LinkUpdate struct {
	Title        *string
	Description  *string
	OpenInNewTab *bool
	IsActive     *bool
}

func (u LinkUpdate) empty() bool {
	return u.Title == nil && u.Description == nil && u.OpenInNewTab == nil && u.IsActive == nil
}

// LinkService is the slug registry: it owns the slug -> link mapping and keeps
// every slug unique across aliases and generated codes.
type LinkService struct {
	linkRepo    repository.LinkRepository
	clickRepo   repository.ClickRepository
	baseURL     string
	slugLength  int
	maxAttempts int
	log         zerolog.Logger

	now      func() time.Time
	generate func(length int) (string, error)
}

// NewLinkService creates a LinkService. Zero options fall back to a 6-character
// code and 10 allocation attempts.
func NewLinkService(linkRepo repository.LinkRepository, clickRepo repository.ClickRepository, opts LinkServiceOptions, log zerolog.Logger) *LinkService {
	if opts.SlugLength < MinSlugLength {
		opts.SlugLength = MinSlugLength
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	return &LinkService{
		linkRepo:    linkRepo,
		clickRepo:   clickRepo,
		baseURL:     opts.BaseURL,
		slugLength:  opts.SlugLength,
		maxAttempts: opts.MaxAttempts,
		log:         log.With().Str("component", "link_service").Logger(),
		now:         time.Now,
		generate:    GenerateSlug,
	}
}

// CreateLink registers a new link for ownerID.
//
// A custom alias is claimed with a single insert; if the slug is taken the
// result is ErrSlugConflict and nothing is written. Without an alias a random
// code is inserted and regenerated on collision, up to maxAttempts times,
// before giving up with ErrSlugSpaceExhausted.
func (s *LinkService) CreateLink(ctx context.Context, ownerID string, in CreateLinkInput) (*models.Link, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, customerrors.NewValidationError("owner_id", "is required")
	}

	originalURL, err := ValidateOriginalURL(in.OriginalURL)
	if err != nil {
		return nil, err
	}

	openInNewTab := true
	if in.OpenInNewTab != nil {
		openInNewTab = *in.OpenInNewTab
	}

	now := s.now().UTC()
	link := &models.Link{
		OwnerID:      ownerID,
		OriginalURL:  originalURL,
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		OpenInNewTab: openInNewTab,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if strings.TrimSpace(in.Alias) != "" {
		alias, err := ValidateAlias(in.Alias)
		if err != nil {
			return nil, err
		}
		link.Slug = alias
		link.IsCustomAlias = true

		if err := s.linkRepo.CreateLink(ctx, link); err != nil {
			if errors.Is(err, customerrors.ErrSlugConflict) {
				s.log.Debug().Str("slug", alias).Msg("custom alias already taken")
			}
			return nil, err
		}
		return s.withShortURL(link), nil
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code, err := s.generate(s.slugLength)
		if err != nil {
			return nil, err
		}
		link.Slug = code

		err = s.linkRepo.CreateLink(ctx, link)
		if err == nil {
			return s.withShortURL(link), nil
		}
		if !errors.Is(err, customerrors.ErrSlugConflict) {
			return nil, err
		}

		s.log.Warn().
			Str("slug", code).
			Int("attempt", attempt).
			Int("max_attempts", s.maxAttempts).
			Msg("generated slug collided, retrying")
	}

	s.log.Error().
		Int("length", s.slugLength).
		Int("attempts", s.maxAttempts).
		Msg("could not allocate a unique slug")
	return nil, customerrors.ErrSlugSpaceExhausted
}

// UpdateLink changes title, description, open-in-new-tab or activation.
// Slug and owner never change.
func (s *LinkService) UpdateLink(ctx context.Context, linkID, ownerID string, upd LinkUpdate) (*models.Link, error) {
	link, err := s.ownedLink(ctx, linkID, ownerID)
	if err != nil {
		return nil, err
	}
	if upd.empty() {
		return s.withShortURL(link), nil
	}

	fields := map[string]any{"updated_at": s.now().UTC()}
	if upd.Title != nil {
		fields["title"] = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		fields["description"] = strings.TrimSpace(*upd.Description)
	}
	if upd.OpenInNewTab != nil {
		fields["open_in_new_tab"] = *upd.OpenInNewTab
	}
	if upd.IsActive != nil {
		fields["is_active"] = *upd.IsActive
	}

	if err := s.linkRepo.UpdateLinkFields(ctx, link.ID, ownerID, fields); err != nil {
		return nil, err
	}

	updated, err := s.linkRepo.GetLinkByID(ctx, link.ID)
	if err != nil {
		return nil, err
	}
	return s.withShortURL(updated), nil
}

// DeleteLink permanently removes the link; its slug can be claimed again
// right away.
func (s *LinkService) DeleteLink(ctx context.Context, linkID, ownerID string) error {
	link, err := s.ownedLink(ctx, linkID, ownerID)
	if err != nil {
		return err
	}
	if err := s.linkRepo.DeleteLink(ctx, link.ID, ownerID); err != nil {
		return err
	}
	s.log.Info().Str("link_id", link.ID).Str("slug", link.Slug).Msg("link deleted")
	return nil
}

// GetLink returns one link of ownerID.
func (s *LinkService) GetLink(ctx context.Context, linkID, ownerID string) (*models.Link, error) {
	link, err := s.ownedLink(ctx, linkID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.withShortURL(link), nil
}

// ListLinksByOwner returns the owner's links, newest first.
func (s *LinkService) ListLinksByOwner(ctx context.Context, ownerID string, filter models.LinkFilter) ([]models.Link, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, customerrors.NewValidationError("owner_id", "is required")
	}
	switch filter.Status {
	case "":
		filter.Status = models.StatusAll
	case models.StatusAll, models.StatusActive, models.StatusInactive:
	default:
		return nil, customerrors.NewValidationError("status", "must be one of all, active, inactive")
	}

	links, err := s.linkRepo.ListLinksByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	for i := range links {
		links[i].ShortURL = ShortURL(s.baseURL, links[i].Slug)
	}
	return links, nil
}

// OwnerSummary returns link and click totals for the owner's dashboard.
func (s *LinkService) OwnerSummary(ctx context.Context, ownerID string) (models.OwnerSummary, error) {
	if strings.TrimSpace(ownerID) == "" {
		return models.OwnerSummary{}, customerrors.NewValidationError("owner_id", "is required")
	}
	return s.linkRepo.SummarizeOwner(ctx, ownerID)
}

// GetLinkStats retrieves a link by slug along with the number of click
// events recorded for it. The counter on the link is authoritative; the event
// count may trail it.
func (s *LinkService) GetLinkStats(ctx context.Context, slug string) (*models.Link, int64, error) {
	link, err := s.linkRepo.GetLinkBySlug(ctx, slug)
	if err != nil {
		return nil, 0, err
	}

	recorded, err := s.clickRepo.CountClicksByLinkID(ctx, link.ID)
	if err != nil {
		return nil, 0, err
	}
	return s.withShortURL(link), recorded, nil
}

// ShortURL renders the public short URL of slug.
func (s *LinkService) ShortURL(slug string) string {
	return ShortURL(s.baseURL, slug)
}

func (s *LinkService) ownedLink(ctx context.Context, linkID, ownerID string) (*models.Link, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, customerrors.NewValidationError("owner_id", "is required")
	}
	link, err := s.linkRepo.GetLinkByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link.OwnerID != ownerID {
		return nil, customerrors.ErrForbidden
	}
	return link, nil
}

func (s *LinkService) withShortURL(link *models.Link) *models.Link {
	link.ShortURL = ShortURL(s.baseURL, link.Slug)
	return link
}
