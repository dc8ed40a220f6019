// Package app runs the Lambda router behind a local HTTP server so the web
// client can be developed without deploying. Each HTTP request is translated
// into the API Gateway HTTP API event the Lambda would receive.
package app

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nationslab/lms-course-api/backend/internal/endpoints"
	"github.com/nationslab/lms-course-api/backend/internal/logging"
	"github.com/nationslab/lms-course-api/backend/internal/storage"
)

type store interface {
	storage.ObjectStore
	storage.Presigner
}

// Run serves until ctx is cancelled.
func Run(ctx context.Context, o *Options) error {
	if err := o.Validate(); err != nil {
		return err
	}
	level, _ := o.level()
	logger := logging.New(os.Stdout, level)

	st, err := openStore(ctx, o)
	if err != nil {
		return err
	}
	router := endpoints.NewRouter(endpoints.Dependencies{
		Storage:    st,
		Presigner:  st,
		Bucket:     o.Bucket,
		PresignTTL: o.PresignTTL,
		Logger:     logger,
		Headers:    endpoints.DefaultHeaders(),
	})

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              o.Addr,
		Handler:           NewEngine(router, st),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("devserver listening", "addr", o.Addr, "store", o.StoreType)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func openStore(ctx context.Context, o *Options) (store, error) {
	switch o.StoreType {
	case "fs":
		return storage.NewLocalStore(o.RootDir)
	case "s3":
		return storage.OpenS3Store(ctx, storage.S3Options{
			Bucket:   o.Bucket,
			Region:   o.Region,
			Endpoint: o.Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown store type %q", o.StoreType)
	}
}

// NewEngine routes every request through router, except the PUT uploads
// LocalStore hands out, which are written straight to st.
func NewEngine(router *endpoints.Router, st storage.ObjectStore) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.PUT(storage.UploadRoute, func(c *gin.Context) {
		key := c.Query("path")
		if key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Path parameter is required"})
			return
		}
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := st.Put(c.Request.Context(), key, body); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusOK)
	})
	engine.NoRoute(func(c *gin.Context) {
		request, err := toEvent(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		response, err := router.Serve(c.Request.Context(), request)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		writeResponse(c, response)
	})
	return engine
}

func toEvent(c *gin.Context) (events.APIGatewayV2HTTPRequest, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return events.APIGatewayV2HTTPRequest{}, fmt.Errorf("read body: %w", err)
	}

	var query map[string]string
	if values := c.Request.URL.Query(); len(values) > 0 {
		query = make(map[string]string, len(values))
		for key := range values {
			query[key] = values.Get(key)
		}
	}

	headers := make(map[string]string, len(c.Request.Header))
	for key := range c.Request.Header {
		headers[key] = c.Request.Header.Get(key)
	}

	return events.APIGatewayV2HTTPRequest{
		Version:               "2.0",
		RawPath:               c.Request.URL.Path,
		RawQueryString:        c.Request.URL.RawQuery,
		Headers:               headers,
		QueryStringParameters: query,
		Body:                  string(body),
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			RequestID: uuid.NewString(),
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method:    c.Request.Method,
				Path:      c.Request.URL.Path,
				Protocol:  c.Request.Proto,
				SourceIP:  c.ClientIP(),
				UserAgent: c.Request.UserAgent(),
			},
		},
	}, nil
}

func writeResponse(c *gin.Context, response events.APIGatewayV2HTTPResponse) {
	body := []byte(response.Body)
	if response.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(response.Body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		body = decoded
	}
	for key, value := range response.Headers {
		c.Header(key, value)
	}
	c.Data(response.StatusCode, response.Headers["Content-Type"], body)
}
