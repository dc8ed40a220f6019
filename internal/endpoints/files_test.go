package endpoints

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pathRequest(path string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{QueryStringParameters: map[string]string{"path": path}}
}

func TestFilesGet(t *testing.T) {
	store := &fakeStore{files: map[string][]byte{
		"CS/Intro/courses/Algo1/meta.json": []byte(`{"title":"Algo1"}`),
		"CS/notes.md":                      []byte("# 1주차 정렬"),
		"CS/binary.bin":                    {0xff, 0xfe, 0x00},
	}}

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		wantBody    string
		wantType    string
		wantErrBody string
	}{
		{
			name:       "json content is returned raw",
			path:       "CS/Intro/courses/Algo1/meta.json",
			wantStatus: 200,
			wantBody:   `{"title":"Algo1"}`,
			wantType:   "application/json",
		},
		{
			name:       "utf-8 text",
			path:       "CS/notes.md",
			wantStatus: 200,
			wantBody:   "# 1주차 정렬",
			wantType:   "text/plain",
		},
		{
			name:        "missing object",
			path:        "CS/missing.md",
			wantStatus:  500,
			wantErrBody: `{"error":"get courses/CS/missing.md: object not found"}`,
		},
		{
			name:        "not utf-8",
			path:        "CS/binary.bin",
			wantStatus:  500,
			wantErrBody: `{"error":"decode object CS/binary.bin: content is not valid UTF-8"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, err := FilesGet(context.Background(), pathRequest(tt.path), testDeps(store))
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, response.StatusCode)
			if tt.wantErrBody != "" {
				assert.JSONEq(t, tt.wantErrBody, response.Body)
				return
			}
			assert.Equal(t, tt.wantBody, response.Body)
			assert.Contains(t, response.Headers["Content-Type"], tt.wantType)
			assert.Equal(t, "*", response.Headers["Access-Control-Allow-Origin"])
		})
	}
}

func TestFilesGetBackendError(t *testing.T) {
	store := &fakeStore{getErr: errors.New(`api error "InvalidRequest"`)}

	response, err := FilesGet(context.Background(), pathRequest(""), testDeps(store))
	require.NoError(t, err)
	assert.Equal(t, 500, response.StatusCode)
	assert.JSONEq(t, `{"error":"api error \"InvalidRequest\""}`, response.Body)
}

func TestFilesGetIdempotent(t *testing.T) {
	store := &fakeStore{files: map[string][]byte{"CS/notes.md": []byte("notes")}}

	first, err := FilesGet(context.Background(), pathRequest("CS/notes.md"), testDeps(store))
	require.NoError(t, err)
	second, err := FilesGet(context.Background(), pathRequest("CS/notes.md"), testDeps(store))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFilesDownloadURL(t *testing.T) {
	presigner := &fakePresigner{url: "https://courses.s3.amazonaws.com/"}
	deps := testDeps(&fakeStore{})
	deps.Presigner = presigner
	deps.PresignTTL = 30 * time.Minute

	response, err := FilesDownloadURL(context.Background(), pathRequest("CS/notes.pdf"), deps)
	require.NoError(t, err)
	assert.Equal(t, 200, response.StatusCode)
	assert.JSONEq(t, `{"presignedUrl":"https://courses.s3.amazonaws.com/CS/notes.pdf"}`, response.Body)
	assert.Equal(t, 30*time.Minute, presigner.ttl)
}

func TestFilesDownloadURLErrors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		presigner  *fakePresigner
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing path",
			path:       "",
			presigner:  &fakePresigner{},
			wantStatus: 400,
			wantBody:   `{"error":"Path parameter is required"}`,
		},
		{
			name:       "no presigner",
			path:       "CS/notes.pdf",
			wantStatus: 500,
			wantBody:   `{"error":"presigning not available"}`,
		},
		{
			name:       "presign failure",
			path:       "CS/notes.pdf",
			presigner:  &fakePresigner{err: errors.New("no credentials")},
			wantStatus: 500,
			wantBody:   `{"error":"no credentials"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := testDeps(&fakeStore{})
			if tt.presigner != nil {
				deps.Presigner = tt.presigner
			}

			response, err := FilesDownloadURL(context.Background(), pathRequest(tt.path), deps)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, response.StatusCode)
			assert.JSONEq(t, tt.wantBody, response.Body)
		})
	}
}

func TestFilesUploadURL(t *testing.T) {
	presigner := &fakePresigner{url: "https://courses.s3.amazonaws.com/"}
	deps := testDeps(&fakeStore{})
	deps.Presigner = presigner
	deps.PresignTTL = time.Hour

	request := events.APIGatewayV2HTTPRequest{
		Body: `{"path":"CS/Intro/courses/Algo1/1주차/","files":[` +
			`{"name":"slides.pdf","type":"application/pdf","size":2048},` +
			`{"name":"notes.md","type":"text/markdown","size":12}]}`,
	}

	response, err := FilesUploadURL(context.Background(), request, deps)
	require.NoError(t, err)
	assert.Equal(t, 200, response.StatusCode)
	assert.JSONEq(t, `{"presignedUrls":[
		{"name":"slides.pdf","type":"application/pdf","size":2048,
		 "presignedUrl":"https://courses.s3.amazonaws.com/CS/Intro/courses/Algo1/1주차/slides.pdf",
		 "key":"CS/Intro/courses/Algo1/1주차/slides.pdf"},
		{"name":"notes.md","type":"text/markdown","size":12,
		 "presignedUrl":"https://courses.s3.amazonaws.com/CS/Intro/courses/Algo1/1주차/notes.md",
		 "key":"CS/Intro/courses/Algo1/1주차/notes.md"}
	]}`, response.Body)
	assert.Equal(t, []string{"application/pdf", "text/markdown"}, presigner.contentTypes)
	assert.Equal(t, time.Hour, presigner.ttl)
}

func TestFilesUploadURLErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		presigner  *fakePresigner
		wantStatus int
		wantBody   string
	}{
		{
			name:       "malformed body",
			body:       `{"path":`,
			presigner:  &fakePresigner{},
			wantStatus: 400,
			wantBody:   `{"error":"Invalid request body"}`,
		},
		{
			name:       "empty body",
			body:       ``,
			presigner:  &fakePresigner{},
			wantStatus: 400,
			wantBody:   `{"error":"Path parameter is required"}`,
		},
		{
			name:       "missing path",
			body:       `{"files":[{"name":"a.pdf","type":"application/pdf","size":1}]}`,
			presigner:  &fakePresigner{},
			wantStatus: 400,
			wantBody:   `{"error":"Path parameter is required"}`,
		},
		{
			name:       "empty files",
			body:       `{"path":"CS/1주차","files":[]}`,
			presigner:  &fakePresigner{},
			wantStatus: 400,
			wantBody:   `{"error":"Files are required"}`,
		},
		{
			name:       "unnamed file",
			body:       `{"path":"CS/1주차","files":[{"type":"application/pdf","size":1}]}`,
			presigner:  &fakePresigner{},
			wantStatus: 400,
			wantBody:   `{"error":"File name is required"}`,
		},
		{
			name:       "no presigner",
			body:       `{"path":"CS/1주차","files":[{"name":"a.pdf","type":"application/pdf","size":1}]}`,
			wantStatus: 500,
			wantBody:   `{"error":"presigning not available"}`,
		},
		{
			name:       "presign failure",
			body:       `{"path":"CS/1주차","files":[{"name":"a.pdf","type":"application/pdf","size":1}]}`,
			presigner:  &fakePresigner{err: errors.New("no credentials")},
			wantStatus: 500,
			wantBody:   `{"error":"no credentials"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := testDeps(&fakeStore{})
			if tt.presigner != nil {
				deps.Presigner = tt.presigner
			}

			response, err := FilesUploadURL(context.Background(), events.APIGatewayV2HTTPRequest{Body: tt.body}, deps)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, response.StatusCode)
			assert.JSONEq(t, tt.wantBody, response.Body)
		})
	}
}
