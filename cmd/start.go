package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"listing-sync/core/loader"
	"listing-sync/core/logger"
	"listing-sync/core/middleware/auth"
	"listing-sync/core/middleware/rayid"
	"listing-sync/feature/insurance"
	"listing-sync/feature/integrity"
	"listing-sync/feature/listings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "listing-sync/docs/swagger"
)

// @title Listing Sync API
// @version 1.0
// @description Keeps a Notion listing database in sync with the Encar marketplace.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the listing sync server",
	Long:  `Starts the HTTP server, initializes all enabled features and, when sync.interval_minutes is set, runs the sync periodically.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 1. Wire components
		a, err := bootstrap(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		logg := a.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			ReadTimeout:           time.Duration(a.cfg.Server.ReadTimeoutSeconds) * time.Second,
			WriteTimeout:          time.Duration(a.cfg.Server.WriteTimeoutSeconds) * time.Second,
		})

		// 3. Initialize Feature Loader
		mgr := loader.NewManager(logg)
		mgr.Register(listings.NewFeature(a.listings))
		mgr.Register(insurance.NewFeature(a.insurance))
		mgr.Register(integrity.NewFeature(a.integrity))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 2.5 Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 3. Auth (Protect API)
		if !a.cfg.Server.IsProtected() {
			logg.Warn("No API key configured, the API is unprotected")
		}
		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

		// 4. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 5. Periodic sync
		if a.cfg.Sync.IntervalMinutes > 0 {
			go runScheduler(ctx, a, time.Duration(a.cfg.Sync.IntervalMinutes)*time.Minute)
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("address", a.cfg.Server.Address()))
			if err := app.Listen(a.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		<-ctx.Done()
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

// runScheduler runs a sync every interval until ctx is done.
// Overlapping runs are skipped by the service itself.
func runScheduler(ctx context.Context, a *app, interval time.Duration) {
	l := a.logger.With(zap.Duration("interval", interval))
	l.Info("Periodic sync enabled")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run, err := a.listings.Sync(ctx, a.listings.DefaultOptions())
			switch {
			case errors.Is(err, listings.ErrSyncInProgress):
				l.Info("Skipping scheduled sync, another run is active")
			case err != nil && run == nil:
				l.Error("Scheduled sync could not start", zap.Error(err))
			}
			if _, err := a.listings.PruneArchives(ctx); err != nil {
				l.Warn("Archive pruning failed", zap.Error(err))
			}
		}
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
