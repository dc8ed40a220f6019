package storage

import (
	"context"
	"time"
)

// Object is a single key reported by a listing.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Listing is one level of a delimiter-based listing: the common prefixes
// ("folders") and the objects directly under the queried prefix, both in
// backend order.
type Listing struct {
	CommonPrefixes []string
	Objects        []Object
}

// ObjectStore defines the backend object operations the endpoints rely on
type ObjectStore interface {
	ListChildren(ctx context.Context, prefix, delimiter string) (*Listing, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, body []byte) error
}

// Presigner hands out time-limited URLs for downloading or uploading single
// objects without going through the API.
type Presigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	// PresignPut returns a URL accepting a PUT of the object body. The upload
	// must send contentType as its Content-Type header.
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
}
