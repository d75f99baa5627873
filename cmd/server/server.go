package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/axellelanca/shortlinks/cmd"
	"github.com/axellelanca/shortlinks/internal/api"
	"github.com/axellelanca/shortlinks/internal/auth"
	"github.com/axellelanca/shortlinks/internal/database"
	"github.com/axellelanca/shortlinks/internal/models"
	"github.com/axellelanca/shortlinks/internal/monitor"
	"github.com/axellelanca/shortlinks/internal/repository"
	"github.com/axellelanca/shortlinks/internal/services"
	"github.com/axellelanca/shortlinks/internal/workers"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// RunServerCmd starts the HTTP API, the click workers and, when enabled, the
// destination monitor.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Starts the URL shortener API server and its background workers.",
	Long: `Migrates the database, starts the asynchronous click-event workers and
the optional destination monitor, then serves the HTTP API until SIGINT or
SIGTERM is received.`,
	Run: func(_ *cobra.Command, _ []string) {
		cfg := cmd.Cfg
		log := cmd.Log

		db, err := database.Open(cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer database.Close(db)

		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}

		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get underlying sql database")
		}

		linkRepo := repository.NewLinkRepository(db)
		clickRepo := repository.NewClickRepository(db)

		clickEvents := make(chan models.ClickEvent, cfg.Analytics.BufferSize)
		clickWorkers := workers.StartClickWorkers(cfg.Analytics.WorkerCount, clickEvents, clickRepo, cfg.Analytics.IPSalt, log)

		linkService := services.NewLinkService(linkRepo, clickRepo, services.LinkServiceOptions{
			BaseURL:     cfg.Server.BaseURL,
			SlugLength:  cfg.Slug.Length,
			MaxAttempts: cfg.Slug.MaxAttempts,
		}, log)
		redirectService := services.NewRedirectService(linkRepo, clickEvents, log)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Monitor.Enabled {
			interval := time.Duration(cfg.Monitor.IntervalMinutes) * time.Minute
			go monitor.NewUrlMonitor(linkRepo, interval, log).Start(ctx)
		}

		if cfg.Auth.JWTSecret == "" {
			log.Warn().Msg("auth.jwt_secret is empty: owner routes will answer 401")
		}

		gin.SetMode(gin.ReleaseMode)
		router := gin.New()
		router.Use(gin.Recovery(), api.RequestLogger(log))
		api.SetupRoutes(router, api.Dependencies{
			Links:     linkService,
			Redirects: redirectService,
			Verifier:  auth.NewVerifier(cfg.Auth.JWTSecret),
			DB:        sqlDB,
			Log:       log,
		})

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			log.Info().Str("addr", srv.Addr).Str("base_url", cfg.Server.BaseURL).Msg("starting server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("server failed")
			}
		}()

		<-ctx.Done()
		log.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			// Handlers may still be running and publishing; leave the channel open.
			log.Error().Err(err).Msg("server forced to shutdown, pending click events are dropped")
			return
		}

		// No handler can publish any more: drain the remaining click events.
		close(clickEvents)
		clickWorkers.Wait()

		log.Info().Msg("server stopped")
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
