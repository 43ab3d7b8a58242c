// If you are AI: This is the main entrypoint for the flvstream server.
// It loads configuration, wires ingest, inspection and HTTP services, and handles graceful shutdown.

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"flvstream/internal/config"
	"flvstream/internal/core/bus"
	"flvstream/internal/logging"
	"flvstream/internal/server"
	"flvstream/internal/svc/api"
	"flvstream/internal/svc/health"
	"flvstream/internal/svc/httpflv"
	"flvstream/internal/svc/ingest"
	"flvstream/internal/svc/inspect"
	"flvstream/internal/svc/wsflv"
)

// main is the entrypoint for the flvstream server.
func main() {
	configPath := flag.String("config", "configs/flvstream.example.yaml", "Path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "flvstream: %v\n", err)
		os.Exit(1)
	}
}

// run wires every service and blocks until a signal or a fatal service error.
func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := server.SignalContext(context.Background())
	defer stop()

	registry := bus.NewRegistry()
	manager := ingest.NewManager(cfg, registry, http.DefaultClient, logging.Component(log, "ingest"))

	names := make([]string, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		names = append(names, src.Name)
	}
	inspector := inspect.New(registry, names, cfg.Demux.SubscriberBuffer, logging.Component(log, "inspect"))

	srv := server.New(cfg, logging.Component(log, "http"),
		health.New(),
		api.NewService(registry, manager, inspector),
		httpflv.NewService(registry, cfg.Demux.SubscriberBuffer, logging.Component(log, "httpflv")),
		wsflv.NewService(registry, cfg.Demux.SubscriberBuffer, logging.Component(log, "wsflv")),
	)

	log.Info().
		Int("sources", len(cfg.Sources)).
		Int("http_port", cfg.Server.HTTPPort).
		Msg("flvstream starting")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// A failed source stays visible through the API; it does not stop the process.
		if err := manager.Run(gctx); err != nil {
			log.Error().Err(err).Msg("ingest finished with error")
		}
		return nil
	})
	g.Go(func() error {
		return inspector.Run(gctx, cfg.Demux.InspectInterval)
	})
	g.Go(func() error {
		return srv.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("flvstream stopped with error")
		return err
	}
	log.Info().Msg("flvstream shut down cleanly")
	return nil
}
