// Command moviedb runs the gateway and the edge proxy in one process under a
// supervision tree.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/Clark-Hu/movie-database/internal/config"
	"github.com/Clark-Hu/movie-database/internal/edge"
	httpserver "github.com/Clark-Hu/movie-database/internal/http"
	"github.com/Clark-Hu/movie-database/internal/logging"
	"github.com/Clark-Hu/movie-database/internal/supervisor"
	"github.com/Clark-Hu/movie-database/internal/tmdb"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	if err := cfg.ValidateGateway(); err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	if err := cfg.ValidateEdge(); err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		File:   cfg.Logging.File,
	}).With().Str("service", "moviedb").Str("env", cfg.Environment).Logger()

	movies, err := tmdb.NewClient(cfg.TMDB, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init tmdb client")
	}
	gateway := httpserver.New(cfg, movies, logger)

	proxy, err := edge.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init edge")
	}

	tree := supervisor.NewTree("moviedb", logger, supervisor.DefaultTreeConfig())
	tree.Add(supervisor.NewServerService("gateway", gateway))
	tree.Add(supervisor.NewServerService("edge", proxy))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("supervisor exited")
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		return
	}
	for _, svc := range report {
		logger.Warn().Str("service", svc.Name).Msg("service did not stop in time")
	}
}
