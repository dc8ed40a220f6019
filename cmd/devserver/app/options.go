package app

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/nationslab/lms-course-api/backend/internal/config"
	"github.com/nationslab/lms-course-api/backend/internal/logging"
	"github.com/spf13/pflag"
)

type Options struct {
	Addr string

	// Store configuration.
	StoreType string // "fs" or "s3"
	RootDir   string // Directory backing the bucket (store-type=fs).
	Bucket    string
	Region    string
	Endpoint  string

	PresignTTL time.Duration
	LogLevel   string
}

// NewOptions seeds the defaults from the same environment the Lambda reads.
func NewOptions(cfg config.Config) *Options {
	return &Options{
		Addr:       "127.0.0.1:8080",
		StoreType:  "fs",
		RootDir:    "./data",
		Bucket:     cfg.Bucket,
		Region:     cfg.Region,
		Endpoint:   cfg.Endpoint,
		PresignTTL: cfg.PresignTTL,
		LogLevel:   cfg.LogLevel.String(),
	}
}

func (o *Options) Flags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("devserver", pflag.ContinueOnError)
	flags.StringVar(&o.Addr, "addr", o.Addr, "Address the HTTP server listens on.")
	flags.StringVar(&o.StoreType, "store-type", o.StoreType, "Backend store type: 'fs' or 's3'.")
	flags.StringVar(&o.RootDir, "root-dir", o.RootDir, "Directory standing in for the bucket (store-type=fs).")
	flags.StringVar(&o.Bucket, "bucket", o.Bucket, "Bucket name (store-type=s3).")
	flags.StringVar(&o.Region, "region", o.Region, "AWS region override (store-type=s3).")
	flags.StringVar(&o.Endpoint, "endpoint", o.Endpoint, "S3-compatible endpoint such as LocalStack (store-type=s3).")
	flags.DurationVar(&o.PresignTTL, "presign-ttl", o.PresignTTL, "Lifetime of presigned download and upload URLs.")
	flags.StringVar(&o.LogLevel, "log-level", o.LogLevel, "Log level: debug, info, warn or error.")
	return flags
}

func (o *Options) Validate() error {
	switch o.StoreType {
	case "fs":
		if o.RootDir == "" {
			return fmt.Errorf("--root-dir is required when --store-type=fs")
		}
		if info, err := os.Stat(o.RootDir); err == nil && !info.IsDir() {
			return fmt.Errorf("--root-dir %q is not a directory", o.RootDir)
		}
	case "s3":
		if o.Bucket == "" {
			return fmt.Errorf("--bucket is required when --store-type=s3")
		}
	default:
		return fmt.Errorf("--store-type must be 'fs' or 's3', got %q", o.StoreType)
	}
	if o.PresignTTL <= 0 {
		return fmt.Errorf("--presign-ttl must be positive")
	}
	if _, err := o.level(); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}

func (o *Options) level() (slog.Level, error) {
	return logging.ParseLevel(o.LogLevel)
}
