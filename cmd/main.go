package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"eventpay/cmd/buildcfg"
	"eventpay/internal/api/api"
	worker "eventpay/internal/consumerWorker"
	"eventpay/internal/gateway"
	"eventpay/internal/mailer"
	"eventpay/internal/rabbit"
	"eventpay/internal/repo"
	"eventpay/internal/service"
	"eventpay/internal/whatsapp"
)

func main() {
	zlog.Init()
	log := zlog.Logger

	cfg := config.New()
	if err := cfg.Load("config.yaml", "", "'"); err != nil {
		log.Fatal().Msgf("failed to load configuration: %v", err)
	}

	serverCfg := buildcfg.BuildServerConfig(cfg, &log)

	masterDSN, poolOptions, err := buildcfg.BuildDBConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build DB config")
	}
	db, err := dbpg.New(masterDSN, nil, poolOptions)
	if err != nil {
		log.Fatal().Msgf("failed to connect to DB: %v", err)
	}
	if err := db.Master.Ping(); err != nil {
		log.Fatal().Msgf("DB ping failed: %v", err)
	}
	log.Info().Msg("Database connected successfully")

	repository, err := repo.NewRepository(db, &log)
	if err != nil {
		log.Fatal().Msgf("failed to initialize repository: %v", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot get working directory")
	}
	migrationPath := filepath.Join(cwd, "migrations/postgres")
	if err := repository.MigrateUp(migrationPath); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	if seed := buildcfg.BuildAdminSeed(); seed.Email != "" && seed.Password != "" {
		if err := repository.SeedAdmin(context.Background(), seed.Email, seed.Password); err != nil {
			log.Fatal().Err(err).Msg("failed to seed admin account")
		}
		log.Info().Str("email", seed.Email).Msg("admin account ensured")
	}

	rabbitCfg, err := buildcfg.BuildRabbitConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load RabbitMQ config")
	}
	rmq, err := rabbit.NewClient(rabbitCfg.URL, rabbitCfg.Exchange, rabbitCfg.Queue)
	if err != nil {
		log.Fatal().Msgf("Failed to connect to RabbitMQ: %v", err)
	}
	defer rmq.Close()

	frontendOrigin := buildcfg.BuildFrontendOrigin(cfg)
	mail := mailer.New(buildcfg.BuildMailConfig(&log), &log)
	gw := gateway.New(buildcfg.BuildGatewayConfig(&log))
	wa := whatsapp.New(buildcfg.BuildWhatsAppConfig(&log), &log)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())

	notifier := worker.NewReader(rmq, repository, mail, frontendOrigin)
	notifier.Start(workerCtx)

	serviceInstance := service.NewService(repository, &log, rmq, gw, wa)
	app := api.NewRouters(&api.Routers{Service: serviceInstance, FrontendOrigin: frontendOrigin})

	serverErrChan := make(chan error, 1)
	go func() {
		addr := serverCfg.Host + ":" + serverCfg.Port
		log.Info().Msgf("Starting server on %s", addr)
		if err := app.Run(addr); err != nil {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Msgf("Server error: %v", err)
	}

	cancelWorkers()
	notifier.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if closer, ok := interface{}(app).(interface{ Close(context.Context) error }); ok {
		if err := closer.Close(shutdownCtx); err != nil {
			log.Error().Msgf("Error shutting down server: %v", err)
		}
	}

	log.Info().Msg("Shutdown complete")
}
