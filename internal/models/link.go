package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Link représente un lien raccourci dans la base de données.
// Slug is shared by custom aliases and generated codes, so the unique index
// is what keeps the namespace collision free.
type Link struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID       string    `gorm:"index;size:128;not null" json:"owner_id"`
	OriginalURL   string    `gorm:"not null" json:"original_url"`
	Slug          string    `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	IsCustomAlias bool      `gorm:"not null" json:"is_custom_alias"`
	Title         string    `gorm:"size:255" json:"title"`
	Description   string    `json:"description"`
	OpenInNewTab  bool      `gorm:"not null" json:"open_in_new_tab"`
	IsActive      bool      `gorm:"not null;index" json:"is_active"`
	Clicks        int64     `gorm:"not null;default:0" json:"clicks"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// ShortURL is derived from the configured base URL and never stored.
	ShortURL string `gorm:"-" json:"short_url"`
}

// BeforeCreate assigns the link id when the caller did not.
func (l *Link) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// LinkStatus filters owner listings by activation state.
type LinkStatus string

const (
	StatusAll      LinkStatus = "all"
	StatusActive   LinkStatus = "active"
	StatusInactive LinkStatus = "inactive"
)

// LinkFilter narrows an owner listing. Search is a case-insensitive substring
// matched against title, original URL and slug.
type LinkFilter struct {
	Search string
	Status LinkStatus
}

// OwnerSummary holds the dashboard totals for one owner.
type OwnerSummary struct {
	TotalLinks  int64 `json:"total_links"`
	ActiveLinks int64 `json:"active_links"`
	TotalClicks int64 `json:"total_clicks"`
}
