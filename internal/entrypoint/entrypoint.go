// Package entrypoint wires configuration, storage, services and the HTTP
// server together and owns the process lifecycle.
package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/lendhub/internal/audit"
	"github.com/openshelf/lendhub/internal/auth"
	"github.com/openshelf/lendhub/internal/config"
	"github.com/openshelf/lendhub/internal/covers"
	"github.com/openshelf/lendhub/internal/database"
	auditrepo "github.com/openshelf/lendhub/internal/database/audit"
	"github.com/openshelf/lendhub/internal/database/books"
	"github.com/openshelf/lendhub/internal/database/users"
	"github.com/openshelf/lendhub/internal/database/wishlist"
	http_controllers "github.com/openshelf/lendhub/internal/http"
	"github.com/openshelf/lendhub/internal/lending"
	"github.com/openshelf/lendhub/internal/scheduler"
	"github.com/openshelf/lendhub/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then drains connections
// within the configured shutdown timeout.
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

	// Stop background workers before the listener so in-flight tasks drain
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run assembles the application from configuration and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting LendHub v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories and services
	bookRepo := books.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)
	wishlistRepo := wishlist.NewRepository(db.DB)
	lendingService := lending.NewService(db.DB)
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))

	// Cover cache next to the database unless configured elsewhere
	coverCacheDir := cfg.Covers.Dir
	if coverCacheDir == "" {
		coverCacheDir = filepath.Join(filepath.Dir(cfg.Database.Path), "covers")
	}
	coverCache, err := covers.NewCache(coverCacheDir)
	if err != nil {
		log.Printf("WARNING: Failed to initialize cover cache: %v", err)
		coverCache = nil
	} else {
		log.Printf("Cover cache initialized at %s", coverCacheDir)
	}

	// Task queue for cover prefetching and audit cleanup
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var auditScheduler *scheduler.AuditCleanupScheduler
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

		taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditService))
		if coverCache != nil {
			taskClient.Register(tasks.NewPrefetchCoverQueue(coverCache))
		}

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		auditScheduler = scheduler.NewAuditCleanupScheduler(taskClient, cfg.Audit)
		if err := auditScheduler.Start(taskCtx); err != nil {
			log.Fatalf("Failed to start audit cleanup scheduler: %v", err)
		}
	}

	// Sessions and authentication
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	authService := auth.NewService(db.DB, cfg.Auth)
	authMiddleware := auth.NewMiddleware(sessionManager)
	authController := auth.NewController(authService, sessionManager, cfg.Auth)
	authController.SetAuditor(auditService)

	var csrfSecret []byte
	if cfg.Auth.CSRFEnabled {
		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}
	}

	if hasUsers, _ := authService.HasUsers(); !hasUsers {
		log.Printf("No users found. Run '%s create-user' to bootstrap a staff account.", os.Args[0])
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		Version:        version,
		BookStore:      bookRepo,
		LendingService: lendingService,
		WishlistStore:  wishlistRepo,
		UserStore:      userRepo,
		AuditService:   auditService,
		SessionManager: sessionManager,
		AuthController: authController,
		AuthMiddleware: authMiddleware,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
	}
	if coverCache != nil {
		routerCfg.CoverCache = coverCache
	}
	if taskClient != nil {
		routerCfg.TaskClient = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		authController.Stop()
		if auditScheduler != nil {
			auditScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
