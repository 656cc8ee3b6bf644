package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/api"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/logging"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/service"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/session"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/tui"
)

// Set with -ldflags at build time.
//
//nolint:gochecknoglobals // build info
var (
	version    = "dev"
	buildDate  = "unknown"
	commitHash = "N/A"
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "gfgm:", err)
		return 2
	}
	if cfg.ShowVersion {
		printVersion(stdout)
		return 0
	}

	_, logFile, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(stderr, "gfgm:", err)
		return 1
	}
	defer logFile.Close()

	slog.Info("Starting GFGM client",
		"version", version,
		"server_url", cfg.ServerURL,
		"store", cfg.StorePath,
		"vault", cfg.usesVault(),
		"auth", cfg.AuthMode,
		"timeout", cfg.Timeout,
		"debug", cfg.Debug,
	)
	if err = run(cfg); err != nil {
		slog.Error("Client stopped with error", "error", err)
		fmt.Fprintln(stderr, "gfgm:", err)
		return 1
	}
	slog.Info("Client stopped")
	return 0
}

// run wires the store, HTTP client, session and services and blocks in
// the TUI until the user quits.
func run(cfg *config) error {
	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	client := api.New(cfg.ServerURL, store,
		api.WithAuthMode(cfg.AuthMode),
		api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		api.WithUserAgent("gfgm/"+version),
	)
	return tui.Start(tui.Options{
		Session:  session.New(store, client),
		Services: service.New(client),
		Timeout:  cfg.Timeout,
		Debug:    cfg.Debug,
	})
}

func printVersion(w io.Writer) {
	fmt.Fprintln(w, "GFGM client")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Date: %s\n", buildDate)
	fmt.Fprintf(w, "Commit Hash: %s\n", commitHash)
}
