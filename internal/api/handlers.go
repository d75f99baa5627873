package api

import (
	"context"
	"net/http"
	"time"

	"github.com/axellelanca/shortlinks/internal/auth"
	"github.com/axellelanca/shortlinks/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Pinger reports whether the store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Dependencies groups what the HTTP layer needs from the rest of the application.
type Dependencies struct {
	Links     *services.LinkService
	Redirects *services.RedirectService
	Verifier  *auth.Verifier
	DB        Pinger
	Log       zerolog.Logger
}

// SetupRoutes configures all Gin routes.
//
// Owner routes live under /api/v1 behind bearer authentication; the redirect
// route sits at the root so that short URLs stay short.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", HealthCheckHandler(deps.DB))

	api := router.Group("/api/v1")
	{
		api.GET("/links/:slug/stats", GetLinkStatsHandler(deps.Links, deps.Log))

		owned := api.Group("/links", RequireOwner(deps.Verifier))
		owned.POST("", CreateLinkHandler(deps.Links, deps.Log))
		owned.POST("/batch", CreateLinksBatchHandler(deps.Links, deps.Log))
		owned.GET("", ListLinksHandler(deps.Links, deps.Log))
		owned.GET("/summary", SummaryHandler(deps.Links, deps.Log))
		owned.GET("/id/:id", GetLinkHandler(deps.Links, deps.Log))
		owned.PATCH("/id/:id", UpdateLinkHandler(deps.Links, deps.Log))
		owned.DELETE("/id/:id", DeleteLinkHandler(deps.Links, deps.Log))
		owned.GET("/id/:id/qr", QRCodeHandler(deps.Links, deps.Log))
	}

	router.GET("/:slug", RedirectHandler(deps.Redirects, deps.Log))
}

// HealthCheckHandler answers 200 while the store responds to a ping.
func HealthCheckHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// RedirectHandler sends visitors of a short URL to its destination with a 302.
// The X-Open-In-New-Tab header carries the owner's presentation preference.
func RedirectHandler(redirects *services.RedirectService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")

		target, err := redirects.Resolve(c.Request.Context(), slug, services.Visit{
			UserAgent: c.GetHeader("User-Agent"),
			IP:        c.ClientIP(),
			Referrer:  c.Request.Referer(),
		})
		if err != nil {
			respondError(c, log, err)
			return
		}

		if target.OpenInNewTab {
			c.Header("X-Open-In-New-Tab", "true")
		}
		c.Redirect(http.StatusFound, target.OriginalURL)
	}
}

// GetLinkStatsHandler returns public statistics for a slug.
func GetLinkStatsHandler(links *services.LinkService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		link, recorded, err := links.GetLinkStats(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"slug":            link.Slug,
			"short_url":       link.ShortURL,
			"original_url":    link.OriginalURL,
			"is_active":       link.IsActive,
			"total_clicks":    link.Clicks,
			"recorded_events": recorded,
			"created_at":      link.CreatedAt.Format(time.RFC3339),
		})
	}
}
