// ABOUTME: CLI entrypoint for the starpr server: landing page plus in-page content editor.
// ABOUTME: Wires config, page content, the persisted edits store, and the HTTP server with signal handling.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/2389-research/starpr/editor"
	"github.com/2389-research/starpr/kvstore"
	"github.com/2389-research/starpr/site"
)

var version = "dev"

// Environment overrides.
const (
	envCreatorCode = "STARPR_CREATOR_CODE"
	envBind        = "STARPR_BIND"
)

// config holds all CLI configuration parsed from flags.
type config struct {
	port        int
	addr        string
	dataDir     string
	store       string
	configFile  string
	contentFile string
	maxSessions int
	sessionTTL  time.Duration
	showVersion bool
}

func main() {
	loadDotEnvAuto()

	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if cfg.showVersion {
		fmt.Printf("starpr %s\n", version)
		os.Exit(0)
	}

	os.Exit(runServer(cfg))
}

// parseFlags parses command-line flags and returns a populated config.
func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("starpr", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.port, "port", 2626, "Listen port")
	fs.StringVar(&cfg.addr, "addr", "", "Full listen address (overrides -port and STARPR_BIND)")
	fs.StringVar(&cfg.dataDir, "data-dir", "", "Persisted edits directory (default: $XDG_DATA_HOME/starpr)")
	fs.StringVar(&cfg.store, "store", kvstore.BackendSQLite, "Store backend: sqlite, file, memory")
	fs.StringVar(&cfg.configFile, "config", "", "Editor config YAML")
	fs.StringVar(&cfg.contentFile, "content", "", "Page content YAML (default: built-in)")
	fs.IntVar(&cfg.maxSessions, "max-sessions", 100, "Open editor sessions kept in memory")
	fs.DurationVar(&cfg.sessionTTL, "session-ttl", 2*time.Hour, "Idle time before a session is dropped")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(stderr, version)
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return cfg, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return cfg, nil
}

// listenAddr resolves the address to bind. Loopback is the default; STARPR_BIND
// changes the host, and -addr replaces the whole address.
func listenAddr(cfg config) string {
	if cfg.addr != "" {
		return cfg.addr
	}
	host := "127.0.0.1"
	if bind := os.Getenv(envBind); bind != "" {
		host = bind
	}
	return net.JoinHostPort(host, strconv.Itoa(cfg.port))
}

// loadEditorConfig reads the editor config file, if any, and applies
// environment overrides.
func loadEditorConfig(cfg config) (editor.Config, error) {
	ecfg := editor.DefaultConfig()
	if path := resolveConfigFile(cfg.configFile); path != "" {
		loaded, err := editor.LoadConfig(path)
		if err != nil {
			return ecfg, err
		}
		ecfg = loaded
		log.Printf("starpr: loaded editor config path=%s", path)
	}
	if code := os.Getenv(envCreatorCode); code != "" {
		ecfg.CreatorCode = code
	}
	return ecfg, ecfg.Validate()
}

// app is everything runServer starts and must shut down.
type app struct {
	server *editor.Server
	store  *editor.Store
	kv     kvstore.Store
}

func (a *app) Close() {
	a.store.CloseAll()
	if err := a.kv.Close(); err != nil {
		log.Printf("starpr: close store failed error=%v", err)
	}
}

// buildApp wires the landing page, the persisted edits store, and the session store.
func buildApp(cfg config) (*app, error) {
	ecfg, err := loadEditorConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("editor config: %w", err)
	}

	content, err := site.LoadContent(cfg.contentFile)
	if err != nil {
		return nil, err
	}
	landing, err := site.New(content)
	if err != nil {
		return nil, err
	}

	dataDir, err := resolveDataDir(cfg.dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	kv, err := kvstore.Open(cfg.store, dataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	persist := editor.NewGateway(kv, ecfg.StorageKey)
	factory := func(id string) (*editor.Session, error) {
		doc, err := landing.Document()
		if err != nil {
			return nil, err
		}
		return editor.NewSession(id, doc, editor.Options{
			Config:      ecfg,
			Persistence: persist,
		}), nil
	}

	store := editor.NewStore(cfg.maxSessions, cfg.sessionTTL, factory)
	log.Printf("starpr: ready store=%s data_dir=%s max_sessions=%d", cfg.store, dataDir, cfg.maxSessions)
	return &app{server: editor.NewServer(store), store: store, kv: kv}, nil
}

// runServer starts the HTTP server and blocks until interrupted.
func runServer(cfg config) int {
	a, err := buildApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer a.Close()

	stopCleanup := a.store.StartCleanup(10 * time.Minute)
	defer stopCleanup()

	// Set up context with signal handling for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := listenAddr(cfg)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           a.server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "listening on http://%s\n", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}
