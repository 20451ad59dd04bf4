// Package entrypoint wires the console together: configuration, the state
// database, the remote store client, the background refresh queue, the
// snapshot sweep and the HTTP router.
package entrypoint

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/libradesk/libradesk/internal/api"
	"github.com/libradesk/libradesk/internal/catalog"
	"github.com/libradesk/libradesk/internal/config"
	"github.com/libradesk/libradesk/internal/console"
	"github.com/libradesk/libradesk/internal/database"
	"github.com/libradesk/libradesk/internal/database/settings"
	"github.com/libradesk/libradesk/internal/database/snapshot"
	"github.com/libradesk/libradesk/internal/lending"
	"github.com/libradesk/libradesk/internal/membership"
	"github.com/libradesk/libradesk/internal/refresh"
	"github.com/libradesk/libradesk/internal/reports"
	"github.com/libradesk/libradesk/internal/scheduler"
	"github.com/libradesk/libradesk/internal/session"
	"github.com/libradesk/libradesk/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until an interrupt, then shuts down within
// the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires all components and serves the console.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Libradesk v%s", version)

	if cfg.Remote.BaseURL == "" {
		log.Fatalf("Remote store URL is not set. Set 'REMOTE_BASE_URL' to the catalog service address.")
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	settingsRepo := settings.NewRepository(db.DB)
	snapshotRepo := snapshot.NewRepository(db.DB)

	sess := session.New(settingsRepo)
	if p := sess.CurrentPrincipal(); p != nil {
		log.Printf("Restored identity for %s (%s)", p.Username, p.Role)
	} else {
		log.Printf("No stored identity, waiting for sign-in")
	}

	client := api.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, sess)
	refreshService := refresh.NewService(client, snapshotRepo, settingsRepo)

	// Background refresh queue. When disabled, mutations simply skip the
	// post-mutation reload and the snapshot only moves on the sweep.
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var refresher *tasks.Client
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewRefreshCatalogQueue(refreshService),
			tasks.NewRefreshLedgerQueue(refreshService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
		refresher = taskClient
	}

	catalogRepo := catalog.NewRepository(client, sess, snapshotRepo, refresherOrNil(refresher))
	membershipRepo := membership.NewRepository(client, sess, snapshotRepo, refresherOrNil(refresher))
	lendingEngine := lending.NewEngine(client, snapshotRepo, lendingRefresherOrNil(refresher))
	reportsAggregator := reports.NewAggregator(client, sess, snapshotRepo)

	// Periodic snapshot sweep.
	var sweep *scheduler.SnapshotSweep
	if cfg.Snapshot.Enabled {
		sweep = scheduler.NewSnapshotSweep(refreshService, cfg.Snapshot.Schedule)
		if err := sweep.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start snapshot sweep: %v", err)
		}
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := console.NewSessionManager(sqlDB, cfg.Session)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	csrfSecret := resolveCSRFSecret(cfg.Session.CSRFSecret)

	router := console.NewRouter(console.RouterConfig{
		Client:         client,
		Session:        sess,
		SessionManager: sessionManager,
		Catalog:        catalogRepo,
		Membership:     membershipRepo,
		Lending:        lendingEngine,
		Reports:        reportsAggregator,
		Database:       db,
		Settings:       settingsRepo,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Session.SecureCookies,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		if sweep != nil {
			sweep.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// resolveCSRFSecret decodes the configured secret, or generates an
// ephemeral one so the console stays protected out of the box.
func resolveCSRFSecret(configured string) []byte {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil {
			return secret
		}
		return []byte(configured)
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		log.Fatalf("Failed to generate CSRF secret: %v", err)
	}
	log.Printf("Generated CSRF secret (set SESSION_CSRF_SECRET to persist)")
	return secret
}

// refresherOrNil converts a possibly nil *tasks.Client into the untyped
// nil the repositories expect when the queue is disabled.
func refresherOrNil(c *tasks.Client) catalog.Refresher {
	if c == nil {
		return nil
	}
	return c
}

func lendingRefresherOrNil(c *tasks.Client) lending.Refresher {
	if c == nil {
		return nil
	}
	return c
}
