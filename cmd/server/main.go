/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the POS inventory server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse flags
  2. Initialize the state store (sqlite, file, or memory)
  3. Create the engine and API handler
  4. Configure the HTTP router
  5. Start server with graceful shutdown

CONFIGURATION:
  Flags, each overridable by an environment variable:
    -port   / PORT          HTTP server port (default: 8080)
    -store  / POS_STORE     Backend: sqlite | file | memory (default: sqlite)
    -data   / POS_DATA_DIR  Storage directory (default: ./data)
  POS_MODE=demo selects a transient temp directory and discards data on
  reboot; anything else keeps the persistent data directory. One binary,
  parameterized by store choice - there is no separate demo entry point.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store
  4. Exit

EXAMPLES:
  # Persistent sqlite database
  ./server -data=./data

  # JSON document store in a custom directory
  ./server -store=file -data=/var/lib/pos

  # Throwaway demo
  POS_MODE=demo ./server

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite, store/jsonfile: Store implementations
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
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/pos-engine/api"
	"github.com/warp/pos-engine/pos"
	memstore "github.com/warp/pos-engine/pos/store"
	"github.com/warp/pos-engine/store/jsonfile"
	"github.com/warp/pos-engine/store/sqlite"
)

func main() {
	// .env is optional; flags and real env vars win anyway.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	storeKind := flag.String("store", envStr("POS_STORE", "sqlite"), "state store: sqlite, file, or memory")
	dataDir := flag.String("data", envStr("POS_DATA_DIR", "./data"), "storage directory")
	flag.Parse()

	dir := *dataDir
	if os.Getenv("POS_MODE") == "demo" {
		dir = filepath.Join(os.TempDir(), "pos-engine-demo")
		log.Printf("Demo mode: using transient directory %s", dir)
	}

	store, closeStore, err := openStore(*storeKind, dir)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer closeStore()

	engine := pos.NewEngine(store)
	handler := api.NewHandler(engine)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// openStore builds the configured StateStore and a close func.
func openStore(kind, dir string) (pos.StateStore, func(), error) {
	switch kind {
	case "sqlite":
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
		s, err := sqlite.New(filepath.Join(dir, "pos.db"))
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "file":
		s, err := jsonfile.New(dir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "memory":
		return memstore.NewMemory(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q (want sqlite, file, or memory)", kind)
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
