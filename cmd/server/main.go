/*
main.go - Application entry point

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load configuration (env + optional YAML)
  3. Build logger, document store, repository, manager, assistant
  4. Configure the HTTP router
  5. Start the server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Path to a YAML config file (optional; env vars always apply)
  -port    Override the configured HTTP port

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, drain active requests
  within the configured timeout, then exit.

EXAMPLES:
  # GitHub-backed production mode
  LEAVEDESK_GITHUB_TOKEN=... LEAVEDESK_GITHUB_OWNER=acme \
  LEAVEDESK_GITHUB_REPO=vacation-data ./server

  # Local development against SQLite
  LEAVEDESK_STORE_BACKEND=sqlite ./server -port=3000
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/yeorum/leavedesk/api"
	"github.com/yeorum/leavedesk/assistant"
	"github.com/yeorum/leavedesk/config"
	"github.com/yeorum/leavedesk/leave"
	"github.com/yeorum/leavedesk/logger"
	"github.com/yeorum/leavedesk/store"
	ghstore "github.com/yeorum/leavedesk/store/github"
	"github.com/yeorum/leavedesk/store/sqlite"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	port := flag.Int("port", 0, "override HTTP server port")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ds, closeStore, err := buildStore(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize document store", zap.Error(err))
	}
	defer closeStore()

	repo := leave.NewRepository(ds, zlog)
	repo.SetCacheTTL(cfg.Store.CacheTTL)
	manager := leave.NewManager(repo, zlog)

	var advisor *assistant.Advisor
	if cfg.Gemini.APIKey != "" {
		gemini, err := assistant.NewGeminiClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			zlog.Fatal("failed to initialize assistant", zap.Error(err))
		}
		defer gemini.Close()
		advisor = assistant.NewAdvisor(gemini, zlog)
	} else {
		zlog.Warn("no gemini api key configured; assistant disabled")
	}

	handler := api.NewHandler(repo, manager, advisor, zlog)
	router := api.NewRouter(handler, api.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AppPassword:    cfg.Auth.AppPassword,
		AdminPassword:  cfg.Auth.AdminPassword,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout * 4,
	}

	go func() {
		zlog.Info("server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("store_backend", cfg.Store.Backend))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server stopped")
}

// buildStore wires the configured document-store backend.
func buildStore(cfg *config.Config, zlog *zap.Logger) (store.DocumentStore, func(), error) {
	switch cfg.Store.Backend {
	case "github":
		s := ghstore.New(cfg.GitHub.Token, cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Branch, zlog)
		return s, func() {}, nil
	case "sqlite":
		s, err := sqlite.New(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
