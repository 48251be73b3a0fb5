package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/voting-sessions/cliparse"
	"github.com/danielhkuo/voting-sessions/db"
	"github.com/danielhkuo/voting-sessions/eligibility"
	"github.com/danielhkuo/voting-sessions/memstore"
	"github.com/danielhkuo/voting-sessions/middleware"
	"github.com/danielhkuo/voting-sessions/mongostore"
	"github.com/danielhkuo/voting-sessions/redisstore"
	"github.com/danielhkuo/voting-sessions/router"
	"github.com/danielhkuo/voting-sessions/voting"
)

const redisKeyPrefix = "voting:"

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the store
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("store setup failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("Store ready", "type", cfg.DatabaseType)

	// Eligibility verifier
	var verifier voting.Verifier = eligibility.AllowAll{}
	if cfg.EligibilityURL != "" {
		verifier = eligibility.NewClient(cfg.EligibilityURL, cfg.EligibilityTimeout,
			eligibility.WithRetries(cfg.EligibilityRetries))
		slog.Info("Eligibility checks enabled", "url", cfg.EligibilityURL)
	} else {
		slog.Warn("ELIGIBILITY_URL not set; every member is allowed to vote")
	}

	sessions := voting.NewSessions(store, verifier)
	agendas := voting.NewAgendas(store, sessions)

	if cfg.SweepInterval > 0 {
		go sessions.RunSweeper(ctx, cfg.SweepInterval)
		slog.Info("Session sweeper started", "interval", cfg.SweepInterval)
	}

	// Create router
	mux := router.NewRouter(agendas, sessions)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// openStore connects the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg cliparse.Config) (voting.Store, func(), error) {
	switch cfg.DatabaseType {
	case cliparse.TypeSQLite, cliparse.TypePostgres:
		conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db.NewStore(conn), func() { conn.Close() }, nil

	case cliparse.TypeMongo:
		store, err := mongostore.Open(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close(context.Background()) }, nil

	case cliparse.TypeRedis:
		rdb, err := redisstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return redisstore.New(rdb, redisKeyPrefix), func() { rdb.Close() }, nil

	case cliparse.TypeMemory:
		slog.Warn("Using in-memory store; data is lost on exit")
		return memstore.New(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
}
