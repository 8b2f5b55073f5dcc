package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cur8t/agents/internal/articles"
	"github.com/cur8t/agents/internal/audit"
	"github.com/cur8t/agents/internal/bookmarks"
	"github.com/cur8t/agents/internal/config"
	"github.com/cur8t/agents/internal/database"
	auditRepo "github.com/cur8t/agents/internal/database/audit"
	http_controllers "github.com/cur8t/agents/internal/http"
	"github.com/cur8t/agents/internal/limits"
	"github.com/cur8t/agents/internal/oracle"
	"github.com/cur8t/agents/internal/scheduler"
	"github.com/cur8t/agents/internal/sessions"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

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

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Agents v%s", version)

	if cfg.Oracle.APIKey == "" {
		log.Printf("WARNING: Oracle API key is not set. Categorization will rely on the domain fallback. Set 'ORACLE_API_KEY' environment variable to enable.")
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

	auditService := audit.NewService(auditRepo.NewRepository(db.DB))

	store := sessions.NewMemoryStore()

	oracleClient := oracle.NewClient(oracle.Config{
		BaseURL:     cfg.Oracle.BaseURL,
		APIKey:      cfg.Oracle.APIKey,
		Model:       cfg.Oracle.Model,
		MaxTokens:   cfg.Oracle.MaxTokens,
		Temperature: cfg.Oracle.Temperature,
		Timeout:     cfg.Oracle.Timeout,
	})

	importService := bookmarks.NewService(store, oracleClient)

	extractor := articles.NewExtractor(articles.Config{
		UserAgent: cfg.Extractor.UserAgent,
		Timeout:   cfg.Extractor.RequestTimeout,
		MaxLinks:  cfg.Extractor.MaxLinks,
	})

	var limitChecker limits.Checker = limits.AllowAll{}
	if cfg.Limits.BaseURL != "" {
		limitChecker = limits.NewHTTPChecker(cfg.Limits.BaseURL, cfg.Limits.APIKey, cfg.Limits.Timeout)
		log.Printf("Subscription limits enforced via %s", cfg.Limits.BaseURL)
	} else {
		log.Printf("Subscription limits not configured, all collection creation allowed")
	}

	auditRetention := time.Duration(cfg.Audit.RetentionDays) * 24 * time.Hour
	cleanup := scheduler.NewSessionCleanupScheduler(store, auditService, cfg.Sessions.TTL, auditRetention, cfg.Sessions.CleanupSchedule)

	schedCtx, schedCancel := context.WithCancel(context.Background())
	if err := cleanup.Start(schedCtx); err != nil {
		schedCancel()
		log.Fatalf("Failed to start session cleanup scheduler: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Bookmarks: http_controllers.NewBookmarkImportController(importService, limitChecker, auditService),
		Articles:  http_controllers.NewArticleExtractController(extractor, auditService),
		Health:    http_controllers.NewHealthController(db, store, cfg.Oracle.APIKey != "", version),
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		schedCancel()
		cleanup.Stop()
	}

	Serve(router, cfg, onShutdown)
}
