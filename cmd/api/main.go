package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/alirezamp/audio-batch-service/internal/bootstrap"
	"github.com/alirezamp/audio-batch-service/internal/config"
	"github.com/alirezamp/audio-batch-service/internal/infrastructure/awsutil"
	"github.com/alirezamp/audio-batch-service/internal/infrastructure/pubsub"
	"github.com/alirezamp/audio-batch-service/internal/infrastructure/queue"
	"github.com/alirezamp/audio-batch-service/internal/infrastructure/repository"
	"github.com/alirezamp/audio-batch-service/internal/infrastructure/storage"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "audio-batch-service").Logger()

	env := config.MustLoad()

	db, err := gorm.Open(postgres.Open(env.DatabaseURL), &gorm.Config{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}

	pool, err := pgxpool.New(context.Background(), env.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create pgx pool")
	}
	defer pool.Close()

	awsCfg, err := awsutil.Load(context.Background(), env.StorageRegion, env.StorageEndpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load storage config")
	}

	publisher, err := pubsub.NewMQTTPublisher(env.MQTTBrokerURL, env.MQTTClientID, env.MQTTUsername, env.MQTTPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect mqtt broker")
	}
	defer publisher.Close()

	server := bootstrap.NewHTTPServer(env, bootstrap.Dependencies{
		Repo:      repository.NewBatchRepository(db),
		Children:  repository.NewBatchChildRepository(pool),
		Storage:   storage.NewObjectStore(awsCfg, env.StorageBucket),
		Queue:     queue.NewSQSJobQueue(awsCfg),
		Publisher: publisher,
		Logger:    logger,
	})

	go func() {
		if err := server.Start(":" + env.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()
	logger.Info().Str("port", env.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("graceful shutdown failed")
	}
}
