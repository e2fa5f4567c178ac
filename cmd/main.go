// cmd/main.go is the command-line entry point.
// It wires together config, storage, session, API client and pages, then
// runs one command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Shivanand-hulikatti/eventdesk/internal/apiclient"
	"github.com/Shivanand-hulikatti/eventdesk/internal/cli"
	"github.com/Shivanand-hulikatti/eventdesk/internal/config"
	"github.com/Shivanand-hulikatti/eventdesk/internal/service"
	"github.com/Shivanand-hulikatti/eventdesk/internal/session"
	"github.com/Shivanand-hulikatti/eventdesk/internal/storage"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	log.SetOutput(stderr)
	log.SetFlags(0)
	log.SetPrefix("eventdesk: ")

	global := flag.NewFlagSet("eventdesk", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "config file (default ~/.eventdesk/config.yaml)")
	jsonOut := global.Bool("json", false, "print JSON instead of tables")
	verbose := global.Bool("v", false, "log every backend request to stderr")
	metricsFile := global.String("metrics-file", "", "write request metrics in Prometheus text format to this file on exit")
	if err := global.Parse(args); err != nil {
		return 2
	}

	// ── 1. Configuration ─────────────────────────────────────────────────
	path, explicit := *configPath, *configPath != ""
	if !explicit {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		log.Printf("config: %v", err)
		return 1
	}

	// Cancel in-flight requests on SIGINT or SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 2. Session storage ───────────────────────────────────────────────
	backend, err := storage.Open(ctx, storage.Options{
		Driver:      cfg.Storage.Driver,
		Namespace:   cfg.Storage.Namespace,
		Path:        cfg.Storage.Path,
		RedisURL:    cfg.Storage.RedisURL,
		DatabaseURL: cfg.Storage.DatabaseURL,
	})
	if err != nil {
		log.Printf("storage: %v", err)
		return 1
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Printf("storage close: %v", err)
		}
	}()

	// ── 3. Wire up layers ────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	opts := apiclient.Options{
		Timeout:    cfg.Timeout,
		UserAgent:  cfg.UserAgent,
		Registerer: registry,
	}
	if *verbose {
		opts.Logger = log.New(stderr, "http: ", log.LstdFlags|log.Lmicroseconds)
	}
	client, err := apiclient.New(cfg.APIURL, opts)
	if err != nil {
		log.Printf("api client: %v", err)
		return 1
	}
	pages := service.New(client, session.NewStore(backend))

	if *metricsFile != "" {
		defer func() {
			if err := prometheus.WriteToTextfile(*metricsFile, registry); err != nil {
				log.Printf("metrics: %v", err)
			}
		}()
	}

	// ── 4. Restore the session, then run the command ─────────────────────
	if res, err := pages.Start(ctx); err != nil {
		if !cli.Warning(err) {
			log.Print(cli.Message(err))
			return 1
		}
		log.Printf("warning: %s", cli.Message(err))
	} else if *verbose {
		log.Printf("session: %s", res)
	}

	app := &cli.App{Pages: pages, Out: stdout, Err: stderr, JSON: *jsonOut}
	if err := app.Run(ctx, global.Args()); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			return 2
		}
		fmt.Fprintln(stderr, cli.Message(err))
		return 1
	}
	return 0
}
