package cli

import (
	"github.com/axellelanca/shortlinks/cmd"
	"github.com/axellelanca/shortlinks/internal/database"
	"github.com/axellelanca/shortlinks/internal/repository"
	"github.com/axellelanca/shortlinks/internal/services"
	"gorm.io/gorm"
)

// openLinkService connects to the configured database and builds the link
// service the way the server does. Callers close the returned *gorm.DB.
func openLinkService() (*gorm.DB, *services.LinkService) {
	cfg := cmd.Cfg

	db, err := database.Open(cfg.Database, cmd.Log)
	if err != nil {
		cmd.Log.Fatal().Err(err).Msg("failed to connect to database")
	}

	linkRepo := repository.NewLinkRepository(db)
	clickRepo := repository.NewClickRepository(db)
	linkService := services.NewLinkService(linkRepo, clickRepo, services.LinkServiceOptions{
		BaseURL:     cfg.Server.BaseURL,
		SlugLength:  cfg.Slug.Length,
		MaxAttempts: cfg.Slug.MaxAttempts,
	}, cmd.Log)

	return db, linkService
}
