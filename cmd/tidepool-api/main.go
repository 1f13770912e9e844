package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ngmaloney/tidepool-terminal/internal/api"
	"github.com/ngmaloney/tidepool-terminal/internal/app"
	"github.com/ngmaloney/tidepool-terminal/internal/config"
	"github.com/ngmaloney/tidepool-terminal/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to a config file (defaults to ./config.yaml)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Build the lookup tables before serving so the first request is not a download
	progress := make(chan string)
	go func() {
		for range progress {
		}
	}()
	err = a.Provisioner.Provision(ctx, progress)
	close(progress)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to provision local data")
	}

	server := api.NewServer(a.Planner, cfg.Search.StationLimit, cfg.FilterSettings(), cfg.Server.GinMode, logger)

	logger.Info().Str("addr", cfg.GetServerAddr()).Msg("starting server")
	if err := server.Run(ctx, cfg.GetServerAddr()); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}
