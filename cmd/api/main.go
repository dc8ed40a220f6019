package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nationslab/lms-course-api/backend/internal/config"
	"github.com/nationslab/lms-course-api/backend/internal/endpoints"
	"github.com/nationslab/lms-course-api/backend/internal/logging"
	"github.com/nationslab/lms-course-api/backend/internal/storage"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)

	// The client lives for the whole process and is reused across invocations.
	store, err := storage.OpenS3Store(ctx, storage.S3Options{
		Bucket:   cfg.Bucket,
		Region:   cfg.Region,
		Endpoint: cfg.Endpoint,
	})
	if err != nil {
		logger.Error("failed to create storage client", "error", err)
		os.Exit(1)
	}

	router := endpoints.NewRouter(endpoints.Dependencies{
		Storage:    store,
		Presigner:  store,
		Bucket:     store.Bucket(),
		PresignTTL: cfg.PresignTTL,
		Logger:     logger,
		Headers:    endpoints.DefaultHeaders(),
	})

	logger.Info("starting handler", "bucket", cfg.Bucket)
	lambda.Start(router.Serve)
}
