package endpoints

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

type route struct {
	method string
	path   string
}

// Router dispatches API Gateway HTTP API events on method and path.
type Router struct {
	routes map[route]HandlerFunc
	deps   Dependencies
}

// NewRouter returns a router with every course storage route registered.
func NewRouter(deps Dependencies) *Router {
	if deps.Logger == nil {
		deps.Logger = deps.logger()
	}
	if deps.Headers == nil {
		deps.Headers = DefaultHeaders()
	}

	r := &Router{routes: map[route]HandlerFunc{}, deps: deps}
	r.Handle(http.MethodGet, "/folders", FoldersList)
	r.Handle(http.MethodGet, "/files", FilesGet)
	r.Handle(http.MethodGet, "/files/download-url", FilesDownloadURL)
	r.Handle(http.MethodPost, "/files/upload-url", FilesUploadURL)
	r.Handle(http.MethodPost, "/courses", CoursesCreate)
	r.Handle(http.MethodGet, "/health", Health)
	return r
}

// Handle registers h for method and path, replacing any earlier handler.
func (r *Router) Handle(method, path string, h HandlerFunc) {
	r.routes[route{method: strings.ToUpper(method), path: normalizePath(path)}] = h
}

type notFound struct {
	Error  string `json:"error"`
	Method string `json:"method"`
	Path   string `json:"path"`
}

// Serve is the Lambda handler. It never returns an error: failures are
// reported in the response.
func (r *Router) Serve(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	start := time.Now()
	method := request.RequestContext.HTTP.Method
	rawPath := request.RawPath
	// Test events built by hand often carry only the request context path.
	if rawPath == "" {
		rawPath = request.RequestContext.HTTP.Path
	}
	path := normalizePath(rawPath)

	requestID := request.RequestContext.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	deps := r.deps
	deps.Logger = deps.Logger.With("requestId", requestID)

	var response events.APIGatewayV2HTTPResponse
	if h, ok := r.routes[route{method: method, path: path}]; ok {
		var err error
		response, err = h(ctx, request, deps)
		if err != nil {
			response = errorResponse(ctx, deps, "dispatch", err)
		}
	} else {
		response = jsonResponse(http.StatusNotFound, notFound{
			Error:  "Not Found",
			Method: method,
			Path:   path,
		}, deps.Headers)
	}

	deps.Logger.InfoContext(ctx, "request handled",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"duration", time.Since(start),
	)
	return response, nil
}

func normalizePath(path string) string {
	return strings.TrimRight(path, "/")
}
