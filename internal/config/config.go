// Package config reads the runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nationslab/lms-course-api/backend/internal/logging"
)

const (
	DefaultBucket     = "nationslablmscoursebucket"
	DefaultPresignTTL = time.Hour
)

type Config struct {
	Bucket string
	// Region and Endpoint are empty unless overridden; the AWS default
	// config chain fills in the rest.
	Region     string
	Endpoint   string
	PresignTTL time.Duration
	LogLevel   slog.Level
}

// Load reads COURSE_BUCKET, AWS_REGION, S3_ENDPOINT, PRESIGN_TTL and LOG_LEVEL.
func Load() (Config, error) {
	cfg := Config{
		Bucket:     DefaultBucket,
		Region:     os.Getenv("AWS_REGION"),
		Endpoint:   os.Getenv("S3_ENDPOINT"),
		PresignTTL: DefaultPresignTTL,
		LogLevel:   slog.LevelInfo,
	}

	if v := os.Getenv("COURSE_BUCKET"); v != "" {
		cfg.Bucket = v
	}
	if v := os.Getenv("PRESIGN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("PRESIGN_TTL: %w", err)
		}
		if ttl <= 0 {
			return Config{}, fmt.Errorf("PRESIGN_TTL must be positive, got %s", v)
		}
		cfg.PresignTTL = ttl
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := logging.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}
