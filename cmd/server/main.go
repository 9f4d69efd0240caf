package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mknorr/kantine/internal/middleware"
	"github.com/mknorr/kantine/internal/planner"
	"github.com/mknorr/kantine/internal/server"
	"github.com/mknorr/kantine/internal/storage"
	"github.com/mknorr/kantine/internal/storage/record"
	"github.com/mknorr/kantine/internal/storage/sqlite"
	"github.com/mknorr/kantine/internal/syncer"
	"github.com/mknorr/kantine/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func syncDelay() time.Duration {
	ms, err := strconv.Atoi(getEnv("SYNC_DELAY_MS", ""))
	if err != nil || ms <= 0 {
		return syncer.DefaultDelay
	}
	return time.Duration(ms) * time.Millisecond
}

func main() {
	logging.Setup()

	// Get paths from env or use defaults
	dbPath := getEnv("SNAPSHOT_DB_PATH", "./data/kantine.db")
	port := getEnv("PORT", "8080")

	// Initialize the local snapshot store
	local, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize snapshot store", "error", err)
		os.Exit(1)
	}
	defer local.Close()
	slog.Info("Snapshot store initialized", "database", dbPath)

	// The remote record store is optional; without it the session runs
	// offline-only against the local snapshot.
	var remote storage.RemoteStore
	if baseURL := getEnv("REMOTE_URL", ""); baseURL != "" {
		collection := getEnv("REMOTE_COLLECTION", "planner")
		remote = record.New(baseURL, collection)
		slog.Info("Remote store configured", "url", baseURL, "collection", collection)
	} else {
		slog.Warn("REMOTE_URL not set, running offline-only")
	}

	coord := syncer.New(remote, local, syncDelay())
	state := coord.Load(context.Background())

	p := planner.New(state)
	p.SetOnChange(coord.StateChanged)

	mux := server.New(p, coord).Routes()

	// Add logging and CORS middleware
	handler := middleware.Logging(middleware.CORS(mux))

	// Wrap with h2c for HTTP/2 without TLS
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr, "online", coord.Online())
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
