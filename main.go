// Command bravais-server serves the band-structure monitor: JSON endpoints
// describing the configured lattice and its Fourier harmonics, recorded
// solver runs from the sqlite store, and interactive debug charts.
//
// The store schema is managed explicitly. The server refuses to start on an
// out-of-date store; 'bravais-server migrate up' applies what is pending.
package main

import (
	"context"
	"embed"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/photonworks/bravais/internal/config"
	"github.com/photonworks/bravais/internal/monitor"
	"github.com/photonworks/bravais/internal/runsdb"
	"github.com/photonworks/bravais/internal/version"
	"github.com/photonworks/bravais/lattice"
)

var (
	//go:embed static/*
	staticFiles embed.FS

	devMode       = flag.Bool("dev", false, "Serve static files from ./static instead of the embedded copy")
	listen        = flag.String("listen", ":8080", "Listen address")
	dbPath        = flag.String("db", "bravais.db", "Path to the sqlite run store")
	configPath    = flag.String("config", "", "Scene config JSON; a vacuum cubic cell when empty")
	migrationsDir = flag.String("migrations", "migrations", "Directory holding the schema migrations")
)

// Main
func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(os.Args[2:])
		return
	}

	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	log.Printf("bravais-server %s", version.String())

	cfg := config.EmptySceneConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadSceneConfig(*configPath)
		if err != nil {
			log.Fatalf("loading scene config: %v", err)
		}
	}

	lat, err := cfg.BuildLattice()
	if err != nil {
		log.Fatalf("building lattice: %v", err)
	}
	nh, err := lattice.CountFromFloat(cfg.GetHarmonicCount())
	if err != nil {
		log.Fatalf("invalid harmonic count: %v", err)
	}

	db, err := runsdb.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open run store: %v", err)
	}
	defer db.Close()

	if err := db.EnsureCurrent(*migrationsDir); err != nil {
		log.Fatalf("run store: %v", err)
	}

	// Create a wait group for the HTTP server routine
	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()

		// mount the admin debugging routes for the run store
		db.AttachAdminRoutes(mux)

		// mount the lattice, harmonics and run endpoints plus the chart pages
		monitor.NewServer(db, lat, nh).RegisterRoutes(mux)

		// read static files from the embedded filesystem in production or from
		// the local ./static in dev for easier iteration without restarting the
		// server
		var staticHandler http.Handler
		if *devMode {
			staticHandler = http.FileServer(http.Dir("./static"))
		} else {
			sub, err := fs.Sub(staticFiles, "static")
			if err != nil {
				log.Fatalf("embedded static files: %v", err)
			}
			staticHandler = http.FileServer(http.FS(sub))
		}
		mux.Handle("/", staticHandler)

		server := &http.Server{
			Addr:    *listen,
			Handler: monitor.Logging(mux),
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			log.Printf("Listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		// Create a shutdown context with a timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		log.Printf("HTTP server routine stopped")
	}()

	// Wait for all goroutines to finish
	wg.Wait()
	log.Printf("Graceful shutdown complete")
}

// runMigrate handles 'bravais-server migrate [flags] <up|down|status|force N>'.
func runMigrate(args []string) {
	flags := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := flags.String("db", "bravais.db", "Path to the sqlite run store")
	migrationsDir := flags.String("migrations", "migrations", "Directory holding the schema migrations")
	_ = flags.Parse(args)

	if flags.NArg() < 1 {
		log.Fatal("usage: bravais-server migrate [flags] <up|down|status|force N>")
	}

	db, err := runsdb.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open run store: %v", err)
	}
	defer db.Close()

	switch cmd := flags.Arg(0); cmd {
	case "up":
		if err := db.MigrateUp(*migrationsDir); err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		log.Printf("store is up to date")
	case "down":
		if err := db.MigrateDown(*migrationsDir); err != nil {
			log.Fatalf("migrate down: %v", err)
		}
		log.Printf("rolled back one migration")
	case "status":
		current, dirty, err := db.MigrateStatus(*migrationsDir)
		if err != nil {
			log.Fatalf("migrate status: %v", err)
		}
		latest, err := runsdb.LatestVersion(*migrationsDir)
		if err != nil {
			log.Fatalf("migrate status: %v", err)
		}
		log.Printf("store version %d of %d (dirty=%v)", current, latest, dirty)
	case "force":
		if flags.NArg() < 2 {
			log.Fatal("usage: bravais-server migrate force <version>")
		}
		v, err := strconv.Atoi(flags.Arg(1))
		if err != nil {
			log.Fatalf("invalid version %q: %v", flags.Arg(1), err)
		}
		if err := db.MigrateForce(*migrationsDir, v); err != nil {
			log.Fatalf("migrate force: %v", err)
		}
		log.Printf("forced store version to %d", v)
	default:
		log.Fatalf("unknown migrate command %q (want up, down, status or force)", cmd)
	}
}
