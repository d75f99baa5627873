package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	customerrors "github.com/axellelanca/shortlinks/internal/errors"
	"github.com/axellelanca/shortlinks/internal/models"
	"gorm.io/gorm"
)

// LinkRepository est une interface qui définit les méthodes d'accès aux données
// des liens. Implementations map a unique-slug rejection to
// customerrors.ErrSlugConflict, a missing row to customerrors.ErrNotFound and
// any other store failure to *customerrors.PersistenceError.
type LinkRepository interface {
	CreateLink(ctx context.Context, link *models.Link) error
	GetLinkByID(ctx context.Context, id string) (*models.Link, error)
	GetLinkBySlug(ctx context.Context, slug string) (*models.Link, error)
	GetActiveLinkBySlug(ctx context.Context, slug string) (*models.Link, error)
	ListLinksByOwner(ctx context.Context, ownerID string, filter models.LinkFilter) ([]models.Link, error)
	GetAllActiveLinks(ctx context.Context) ([]models.Link, error)
	UpdateLinkFields(ctx context.Context, id, ownerID string, fields map[string]any) error
	DeleteLink(ctx context.Context, id, ownerID string) error
	IncrementClicks(ctx context.Context, id string) error
	SummarizeOwner(ctx context.Context, ownerID string) (models.OwnerSummary, error)
}

// GormLinkRepository est l'implémentation de LinkRepository utilisant GORM.
type GormLinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository crée et retourne une nouvelle instance de GormLinkRepository.
func NewLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// CreateLink inserts link. The unique index on slug makes this the
// check-and-claim step for the slug namespace: no prior read is needed.
func (r *GormLinkRepository) CreateLink(ctx context.Context, link *models.Link) error {
	err := r.db.WithContext(ctx).Create(link).Error
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("slug %q: %w", link.Slug, customerrors.ErrSlugConflict)
	}
	return persistenceError("create link", err)
}

func (r *GormLinkRepository) GetLinkByID(ctx context.Context, id string) (*models.Link, error) {
	return r.first(ctx, "get link by id", "id = ?", id)
}

// GetLinkBySlug matches the slug case-sensitively, whatever its state.
func (r *GormLinkRepository) GetLinkBySlug(ctx context.Context, slug string) (*models.Link, error) {
	return r.first(ctx, "get link by slug", "slug = ?", slug)
}

// GetActiveLinkBySlug only returns links that may currently be resolved.
func (r *GormLinkRepository) GetActiveLinkBySlug(ctx context.Context, slug string) (*models.Link, error) {
	return r.first(ctx, "get active link by slug", "slug = ? AND is_active = ?", slug, true)
}

func (r *GormLinkRepository) first(ctx context.Context, op, query string, args ...any) (*models.Link, error) {
	var link models.Link
	err := r.db.WithContext(ctx).Where(query, args...).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.ErrNotFound
		}
		return nil, persistenceError(op, err)
	}
	return &link, nil
}

// ListLinksByOwner returns the owner's links, newest first.
func (r *GormLinkRepository) ListLinksByOwner(ctx context.Context, ownerID string, filter models.LinkFilter) ([]models.Link, error) {
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)

	switch filter.Status {
	case models.StatusActive:
		query = query.Where("is_active = ?", true)
	case models.StatusInactive:
		query = query.Where("is_active = ?", false)
	}

	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		pattern := "%" + term + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(original_url) LIKE ? OR LOWER(slug) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	links := []models.Link{}
	if err := query.Order("created_at DESC").Order("id").Find(&links).Error; err != nil {
		return nil, persistenceError("list links", err)
	}
	return links, nil
}

// GetAllActiveLinks récupère tous les liens actifs de la base de données.
func (r *GormLinkRepository) GetAllActiveLinks(ctx context.Context) ([]models.Link, error) {
	var links []models.Link
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&links).Error; err != nil {
		return nil, persistenceError("list active links", err)
	}
	return links, nil
}

// UpdateLinkFields applies fields to the link only when ownerID owns it.
// The map form is used so that false and "" are written.
func (r *GormLinkRepository) UpdateLinkFields(ctx context.Context, id, ownerID string, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Link{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields)
	if res.Error != nil {
		return persistenceError("update link", res.Error)
	}
	if res.RowsAffected == 0 {
		return customerrors.ErrNotFound
	}
	return nil
}

// DeleteLink removes the link and its click events in one transaction.
// The slug is free for reuse as soon as the transaction commits.
func (r *GormLinkRepository) DeleteLink(ctx context.Context, id, ownerID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Link{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return customerrors.ErrNotFound
		}
		return tx.Where("link_id = ?", id).Delete(&models.Click{}).Error
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, customerrors.ErrNotFound) {
		return err
	}
	return persistenceError("delete link", err)
}

// IncrementClicks adds one visit with a single UPDATE evaluated by the store,
// so concurrent visits never overwrite each other.
func (r *GormLinkRepository) IncrementClicks(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Link{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"clicks":     gorm.Expr("clicks + ?", 1),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return persistenceError("increment clicks", res.Error)
	}
	if res.RowsAffected == 0 {
		return customerrors.ErrNotFound
	}
	return nil
}

// SummarizeOwner computes the dashboard totals in one query.
func (r *GormLinkRepository) SummarizeOwner(ctx context.Context, ownerID string) (models.OwnerSummary, error) {
	var summary models.OwnerSummary
	err := r.db.WithContext(ctx).
		Model(&models.Link{}).
		Select(
			"COUNT(*) AS total_links, "+
				"COALESCE(SUM(CASE WHEN is_active = ? THEN 1 ELSE 0 END), 0) AS active_links, "+
				"COALESCE(SUM(clicks), 0) AS total_clicks",
			true,
		).
		Where("owner_id = ?", ownerID).
		Scan(&summary).Error
	if err != nil {
		return models.OwnerSummary{}, persistenceError("summarize owner", err)
	}
	return summary, nil
}
