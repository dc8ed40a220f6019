package endpoints

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/nationslab/lms-course-api/backend/internal/logging"
	"github.com/nationslab/lms-course-api/backend/internal/storage"
)

// HandlerFunc serves one route.
type HandlerFunc func(ctx context.Context, request events.APIGatewayV2HTTPRequest, deps Dependencies) (events.APIGatewayV2HTTPResponse, error)

// Dependencies carries everything a HandlerFunc needs.
type Dependencies struct {
	Storage    storage.ObjectStore
	Presigner  storage.Presigner
	Bucket     string
	PresignTTL time.Duration
	Logger     *slog.Logger
	Headers    map[string]string
	// Now defaults to time.Now.
	Now func() time.Time
}

func (d Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Dependencies) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return logging.Discard()
}

// DefaultHeaders are the CORS and content headers set on every response.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
		"Content-Type":                 "application/json",
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func jsonResponse(status int, v any, headers map[string]string) events.APIGatewayV2HTTPResponse {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"response encoding failed"}`)
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    withContentType(headers, "application/json"),
	}
}

func clientError(status int, message string, headers map[string]string) events.APIGatewayV2HTTPResponse {
	return jsonResponse(status, errorBody{Error: message}, headers)
}

// errorResponse logs err and turns it into a 500 carrying the error text.
func errorResponse(ctx context.Context, deps Dependencies, op string, err error) events.APIGatewayV2HTTPResponse {
	deps.logger().ErrorContext(ctx, "operation failed", "op", op, "error", err)
	return jsonResponse(http.StatusInternalServerError, errorBody{Error: err.Error()}, deps.Headers)
}

func withContentType(headers map[string]string, contentType string) map[string]string {
	out := maps.Clone(headers)
	if out == nil {
		out = map[string]string{}
	}
	out["Content-Type"] = contentType
	return out
}

// decodeBody unmarshals the request body into v, decoding base64 first when
// API Gateway flagged it. An empty body leaves v untouched.
func decodeBody(request events.APIGatewayV2HTTPRequest, v any) error {
	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			return err
		}
		body = decoded
	}
	if strings.TrimSpace(string(body)) == "" {
		return nil
	}
	return json.Unmarshal(body, v)
}
