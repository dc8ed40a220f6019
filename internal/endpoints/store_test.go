package endpoints

import (
	"context"
	"errors"
	"time"

	"github.com/nationslab/lms-course-api/backend/internal/storage"
)

type fakeStore struct {
	listing *storage.Listing
	listErr error
	files   map[string][]byte
	getErr  error
	failPut map[string]error

	listCalls []string
	puts      []string
}

func (f *fakeStore) ListChildren(_ context.Context, prefix, _ string) (*storage.Listing, error) {
	f.listCalls = append(f.listCalls, prefix)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listing == nil {
		return &storage.Listing{}, nil
	}
	return f.listing, nil
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	content, ok := f.files[key]
	if !ok {
		return nil, &storage.Error{Op: "get", Bucket: "courses", Key: key, Err: storage.ErrNotFound}
	}
	return content, nil
}

func (f *fakeStore) Put(_ context.Context, key string, body []byte) error {
	f.puts = append(f.puts, key)
	if err := f.failPut[key]; err != nil {
		return err
	}
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	f.files[key] = body
	return nil
}

type fakePresigner struct {
	url string
	err error
	ttl time.Duration

	contentTypes []string
}

func (f *fakePresigner) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	f.ttl = ttl
	if f.err != nil {
		return "", f.err
	}
	return f.url + key, nil
}

func (f *fakePresigner) PresignPut(_ context.Context, key, contentType string, ttl time.Duration) (string, error) {
	f.ttl = ttl
	f.contentTypes = append(f.contentTypes, contentType)
	if f.err != nil {
		return "", f.err
	}
	return f.url + key, nil
}

var errBackend = errors.New("operation error S3: ListObjectsV2, AccessDenied")

func testDeps(store storage.ObjectStore) Dependencies {
	return Dependencies{
		Storage: store,
		Bucket:  "courses",
		Headers: DefaultHeaders(),
		Now: func() time.Time {
			return time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)
		},
	}
}
