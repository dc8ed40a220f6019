package endpoints

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gabriel-vasile/mimetype"
	"github.com/nationslab/lms-course-api/backend/internal/storage"
)

// FilesGet returns the content of the object named by the "path" query
// parameter as the raw response body. Content must be valid UTF-8.
func FilesGet(ctx context.Context, request events.APIGatewayV2HTTPRequest, deps Dependencies) (events.APIGatewayV2HTTPResponse, error) {
	key := request.QueryStringParameters["path"]

	content, err := deps.Storage.Get(ctx, key)
	if err != nil {
		return errorResponse(ctx, deps, "get_file", err), nil
	}
	if !utf8.Valid(content) {
		err := &storage.Error{Op: "decode", Key: key, Err: errors.New("content is not valid UTF-8")}
		return errorResponse(ctx, deps, "get_file", err), nil
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusOK,
		Body:       string(content),
		Headers:    withContentType(deps.Headers, mimetype.Detect(content).String()),
	}, nil
}

type downloadURL struct {
	PresignedURL string `json:"presignedUrl"`
}

// FilesDownloadURL hands out a time-limited URL for fetching the object
// directly from the bucket.
func FilesDownloadURL(ctx context.Context, request events.APIGatewayV2HTTPRequest, deps Dependencies) (events.APIGatewayV2HTTPResponse, error) {
	key := request.QueryStringParameters["path"]
	if key == "" {
		return clientError(http.StatusBadRequest, "Path parameter is required", deps.Headers), nil
	}
	if deps.Presigner == nil {
		return errorResponse(ctx, deps, "download_url", storage.ErrPresignUnavailable), nil
	}

	url, err := deps.Presigner.PresignGet(ctx, key, deps.PresignTTL)
	if err != nil {
		return errorResponse(ctx, deps, "download_url", err), nil
	}
	return jsonResponse(http.StatusOK, downloadURL{PresignedURL: url}, deps.Headers), nil
}

// UploadFile describes one file the client is about to upload.
type UploadFile struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type uploadRequest struct {
	Path  string       `json:"path"`
	Files []UploadFile `json:"files"`
}

// UploadURL is the presigned PUT target for one requested file.
type UploadURL struct {
	UploadFile
	PresignedURL string `json:"presignedUrl"`
	Key          string `json:"key"`
}

type uploadURLs struct {
	PresignedURLs []UploadURL `json:"presignedUrls"`
}

// FilesUploadURL hands out one presigned PUT URL per requested file. Each
// file is stored at {path}/{name} and the upload must carry the file's type
// as its Content-Type.
func FilesUploadURL(ctx context.Context, request events.APIGatewayV2HTTPRequest, deps Dependencies) (events.APIGatewayV2HTTPResponse, error) {
	var req uploadRequest
	if err := decodeBody(request, &req); err != nil {
		deps.logger().WarnContext(ctx, "invalid upload body", "error", err)
		return clientError(http.StatusBadRequest, "Invalid request body", deps.Headers), nil
	}
	folder := strings.TrimRight(req.Path, "/")
	if folder == "" {
		return clientError(http.StatusBadRequest, "Path parameter is required", deps.Headers), nil
	}
	if len(req.Files) == 0 {
		return clientError(http.StatusBadRequest, "Files are required", deps.Headers), nil
	}
	for _, file := range req.Files {
		if file.Name == "" {
			return clientError(http.StatusBadRequest, "File name is required", deps.Headers), nil
		}
	}
	if deps.Presigner == nil {
		return errorResponse(ctx, deps, "upload_url", storage.ErrPresignUnavailable), nil
	}

	urls := make([]UploadURL, 0, len(req.Files))
	for _, file := range req.Files {
		key := folder + "/" + file.Name
		url, err := deps.Presigner.PresignPut(ctx, key, file.Type, deps.PresignTTL)
		if err != nil {
			return errorResponse(ctx, deps, "upload_url", err), nil
		}
		urls = append(urls, UploadURL{UploadFile: file, PresignedURL: url, Key: key})
	}

	deps.logger().InfoContext(ctx, "upload urls issued", "path", folder, "files", len(urls))
	return jsonResponse(http.StatusOK, uploadURLs{PresignedURLs: urls}, deps.Headers), nil
}
