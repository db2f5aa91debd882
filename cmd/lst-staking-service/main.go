package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/lstlabs/lst-staking-service/cmd/lst-staking-service/cli"
	"github.com/lstlabs/lst-staking-service/internal/api"
	"github.com/lstlabs/lst-staking-service/internal/chain"
	"github.com/lstlabs/lst-staking-service/internal/config"
	"github.com/lstlabs/lst-staking-service/internal/db"
	"github.com/lstlabs/lst-staking-service/internal/db/model"
	"github.com/lstlabs/lst-staking-service/internal/observability/healthcheck"
	"github.com/lstlabs/lst-staking-service/internal/observability/metrics"
	"github.com/lstlabs/lst-staking-service/internal/pipeline"
	"github.com/lstlabs/lst-staking-service/internal/queue"
	"github.com/lstlabs/lst-staking-service/internal/registry"
	"github.com/lstlabs/lst-staking-service/internal/services"
	"github.com/lstlabs/lst-staking-service/internal/signer"
	"github.com/lstlabs/lst-staking-service/internal/types"
)

const shutdownTimeout = 2 * time.Minute

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// setup cli commands and flags
	if err := cli.Setup(); err != nil {
		log.Fatal().Err(err).Msg("error while setting up cli")
	}

	// load config
	cfgPath := cli.GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	protocolsPath := cli.GetProtocolsPath()
	descriptors, err := types.NewProtocolDescriptors(protocolsPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading protocols file: %s", protocolsPath))
	}
	reg, err := registry.New(descriptors.Protocols)
	if err != nil {
		log.Fatal().Err(err).Msg("error while compiling protocol descriptors")
	}

	// serve metrics on their own listener
	metrics.Init(cfg.Metrics)

	chainClient, err := chain.NewEVMClient(ctx, &cfg.Network)
	if err != nil {
		log.Fatal().Err(err).Msg("error while connecting to the chain")
	}
	defer chainClient.Close()

	if err = model.Setup(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("error while setting up withdrawal db model")
	}
	dbClient, err := db.NewClient(ctx, cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up withdrawal db client")
	}

	txSigner, err := signer.New(&cfg.Signer)
	if err != nil {
		log.Fatal().Err(err).Msg("error while loading signer keys")
	}

	var opts []pipeline.Option
	healthComponents := []healthcheck.Component{
		healthcheck.ChainComponent(chainClient),
		healthcheck.DbComponent(dbClient),
	}
	var queues *queue.Queues
	if cfg.Queue.Enabled {
		queues, err = queue.New(&cfg.Queue)
		if err != nil {
			log.Fatal().Err(err).Msg("error while setting up job event queue")
		}
		opts = append(opts, pipeline.WithEventPublisher(queues))
		healthComponents = append(healthComponents, healthcheck.QueueComponent(queues))
	}

	txPipeline := pipeline.New(chainClient, reg, txSigner, dbClient, cfg.Pipeline, opts...)
	svc := services.New(cfg, reg, chainClient, dbClient, txPipeline)

	if err = healthcheck.StartHealthCheckCron(ctx, healthComponents, cfg.Server.HealthCheckInterval); err != nil {
		log.Fatal().Err(err).Msg("error while starting health check cron")
	}

	apiServer, err := api.New(ctx, cfg, svc)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up lst staking service")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- apiServer.Start()
	}()

	select {
	case err = <-serveErr:
		if err != nil {
			log.Fatal().Err(err).Msg("error while starting lst staking service")
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error while stopping the http server")
	}
	// signed jobs are seen through to a terminal state before exiting
	if err := txPipeline.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("pipeline did not drain before the shutdown deadline")
	}
	if queues != nil {
		if err := queues.Stop(); err != nil {
			log.Error().Err(err).Msg("error while closing the job event queue")
		}
	}
	if mongo, ok := dbClient.(*db.Database); ok {
		if err := mongo.Disconnect(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error while disconnecting from the db")
		}
	}
}
