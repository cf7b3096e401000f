package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jdbravo/vencsync/internal/adapter"
	"github.com/jdbravo/vencsync/internal/config"
	"github.com/jdbravo/vencsync/internal/logger"
	"github.com/jdbravo/vencsync/internal/service"
	"github.com/jdbravo/vencsync/internal/store"
	"github.com/jdbravo/vencsync/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewAgentLogger("vencsync-agent")
	cfg, err := config.GetAgentConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	// An explicitly configured scope wins; otherwise the scope comes from
	// the access token's claims.
	if cfg.Scope.IsZero() {
		scope, err := adapter.ScopeFromToken(cfg.AccessToken)
		if err != nil {
			log.Fatal().Err(err).Msg("no scope configured and access token carries no scope claims")
		}
		cfg.Scope = scope
	}

	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	remote := adapter.NewHTTPRemoteStore(cfg.Remote, cfg.AccessToken)
	feed := adapter.NewSSEChangeFeed(cfg.Remote, cfg.AccessToken, log)

	engine := service.NewSyncEngine(cfg.Scope, storages, remote, feed, log)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	if err := engine.Start(ctx, cfg.Workers.DrainInterval); err != nil {
		log.Fatal().Err(err).Msg("start sync engine")
	}
	defer engine.Close()

	workers.NewWorkers(ctx, engine, log).Run()

	log.Info().Str("scope", cfg.Scope.Key()).Msg("sync agent running")

	<-ctx.Done()
	log.Info().Msg("shutting down")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
