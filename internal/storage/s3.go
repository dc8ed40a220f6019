package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/gabriel-vasile/mimetype"
)

const directoryContentType = "application/x-directory"

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var (
	_ S3API       = (*s3.Client)(nil)
	_ presignAPI  = (*s3.PresignClient)(nil)
	_ ObjectStore = (*S3Store)(nil)
	_ Presigner   = (*S3Store)(nil)
)

// S3Options configures OpenS3Store.
type S3Options struct {
	Bucket string
	// Region overrides the region resolved by the default config chain.
	Region string
	// Endpoint points the client at an S3-compatible service such as
	// LocalStack or MinIO; it also switches to path-style addressing.
	Endpoint string
}

type S3Store struct {
	client    S3API
	presigner presignAPI
	bucket    string
}

// NewS3Store wraps an existing client. The client is shared for the process
// lifetime.
func NewS3Store(client *s3.Client, bucket string) *S3Store {
	return &S3Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
	}
}

// OpenS3Store loads the default AWS configuration and builds a store for opts.Bucket.
func OpenS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Store(client, opts.Bucket), nil
}

// Bucket returns the bucket every operation targets.
func (s *S3Store) Bucket() string {
	return s.bucket
}

func (s *S3Store) ListChildren(ctx context.Context, prefix, delimiter string) (*Listing, error) {
	params := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}
	if delimiter != "" {
		params.Delimiter = aws.String(delimiter)
	}

	result, err := s.client.ListObjectsV2(ctx, params)
	if err != nil {
		return nil, newError("list", s.bucket, prefix, classify(err))
	}

	listing := &Listing{
		CommonPrefixes: make([]string, 0, len(result.CommonPrefixes)),
		Objects:        make([]Object, 0, len(result.Contents)),
	}
	for _, p := range result.CommonPrefixes {
		listing.CommonPrefixes = append(listing.CommonPrefixes, aws.ToString(p.Prefix))
	}
	for _, obj := range result.Contents {
		listing.Objects = append(listing.Objects, Object{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	return listing, nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, newError("get", s.bucket, key, classify(err))
	}
	defer result.Body.Close()

	content, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, newError("get", s.bucket, key, err)
	}
	return content, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType(key, body)),
	})
	if err != nil {
		return newError("put", s.bucket, key, classify(err))
	}
	return nil
}

func (s *S3Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.presigner == nil {
		return "", newError("presign", s.bucket, key, ErrPresignUnavailable)
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", newError("presign", s.bucket, key, err)
	}
	return req.URL, nil
}

func (s *S3Store) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	if s.presigner == nil {
		return "", newError("presign", s.bucket, key, ErrPresignUnavailable)
	}
	params := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		params.ContentType = aws.String(contentType)
	}
	req, err := s.presigner.PresignPutObject(ctx, params, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", newError("presign", s.bucket, key, err)
	}
	return req.URL, nil
}

// contentType picks the Content-Type stored with an object. Empty keys ending
// in "/" are folder markers.
func contentType(key string, body []byte) string {
	if len(body) == 0 && strings.HasSuffix(key, "/") {
		return directoryContentType
	}
	return mimetype.Detect(body).String()
}

// classify tags not-found API errors with ErrNotFound, keeping the SDK error
// in the chain.
func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
	}
	return err
}
