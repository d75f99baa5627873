package repository

import (
	"context"

	"github.com/axellelanca/shortlinks/internal/models"
	"gorm.io/gorm"
)

// ClickRepository est une interface qui définit les méthodes d'accès aux
// événements de clic.
type ClickRepository interface {
	CreateClick(ctx context.Context, click *models.Click) error
	CountClicksByLinkID(ctx context.Context, linkID string) (int64, error)
}

// GormClickRepository est l'implémentation de l'interface ClickRepository utilisant GORM.
type GormClickRepository struct {
	db *gorm.DB
}

// NewClickRepository crée et retourne une nouvelle instance de GormClickRepository.
func NewClickRepository(db *gorm.DB) *GormClickRepository {
	return &GormClickRepository{db: db}
}

// CreateClick insère un nouvel enregistrement de clic dans la base de données.
func (r *GormClickRepository) CreateClick(ctx context.Context, click *models.Click) error {
	if err := r.db.WithContext(ctx).Create(click).Error; err != nil {
		return persistenceError("create click", err)
	}
	return nil
}

// CountClicksByLinkID compte les événements de clic enregistrés pour un lien.
func (r *GormClickRepository) CountClicksByLinkID(ctx context.Context, linkID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Click{}).Where("link_id = ?", linkID).Count(&count).Error; err != nil {
		return 0, persistenceError("count clicks", err)
	}
	return count, nil
}
