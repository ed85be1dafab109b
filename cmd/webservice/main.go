package main

import (
	"os"
	"os/signal"
	"syscall"

	_ "time/tzdata"

	"github.com/avjabalpur/cian-erp-sub002/config"
	"github.com/avjabalpur/cian-erp-sub002/internal/app"
	"github.com/avjabalpur/cian-erp-sub002/internal/infrastructure/database/postgres"
	"github.com/avjabalpur/cian-erp-sub002/internal/infrastructure/message-queue/kafka"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger

	config := config.CreateNewConfig()
	if err := config.JWTConfig.Validate(); err != nil {
		log.Fatal().Err(err).Str("component", "main").Msg("Invalid JWT configuration")
	}

	db, err := postgres.GetDBInstance(config.PostgreSQLConfig)
	if err != nil {
		log.Fatal().Err(err).Str("component", "main").Msg("Failed to connect to database")
	}

	application := app.App{
		DB:          db,
		Config:      config,
		KafkaWriter: kafka.CreateKafkaWriter(config),
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Info().Str("component", "main").Msg("shutting down")
		if err := application.StopServer(); err != nil {
			log.Error().Err(err).Str("component", "main").Msg("")
		}
	}()

	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Str("component", "main").Msg("Server stopped")
	}
}
