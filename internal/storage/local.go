package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	_ ObjectStore = (*LocalStore)(nil)
	_ Presigner   = (*LocalStore)(nil)
)

// LocalStore serves objects from a directory tree. Keys map to paths below
// RootDir and a key ending in "/" is a folder. Only "/" is supported as the
// listing delimiter.
type LocalStore struct {
	RootDir string
}

func NewLocalStore(rootDir string) (*LocalStore, error) {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(absRoot, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{RootDir: absRoot}, nil
}

func (l *LocalStore) ListChildren(_ context.Context, prefix, delimiter string) (*Listing, error) {
	if delimiter != "/" {
		return nil, newError("list", "", prefix, fmt.Errorf("unsupported delimiter %q", delimiter))
	}

	// "CS/In" lists the entries of "CS" whose names start with "In".
	dir, fragment := "", prefix
	if i := strings.LastIndex(prefix, "/"); i >= 0 {
		dir, fragment = prefix[:i+1], prefix[i+1:]
	}
	fullPath, err := l.resolve(dir)
	if err != nil {
		return nil, newError("list", "", prefix, err)
	}

	listing := &Listing{CommonPrefixes: []string{}, Objects: []Object{}}
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return listing, nil
		}
		return nil, newError("list", "", prefix, err)
	}

	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), fragment) {
			continue
		}
		key := dir + entry.Name()
		if entry.IsDir() {
			listing.CommonPrefixes = append(listing.CommonPrefixes, key+"/")
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, newError("list", "", key, err)
		}
		listing.Objects = append(listing.Objects, Object{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime().UTC(),
		})
	}
	return listing, nil
}

func (l *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" || strings.HasSuffix(key, "/") {
		return nil, newError("get", "", key, ErrInvalidKey)
	}
	fullPath, err := l.resolve(key)
	if err != nil {
		return nil, newError("get", "", key, err)
	}
	content, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, newError("get", "", key, err)
	}
	return content, nil
}

func (l *LocalStore) Put(_ context.Context, key string, body []byte) error {
	if key == "" {
		return newError("put", "", key, ErrInvalidKey)
	}
	fullPath, err := l.resolve(key)
	if err != nil {
		return newError("put", "", key, err)
	}
	if strings.HasSuffix(key, "/") {
		if err := os.MkdirAll(fullPath, 0o755); err != nil {
			return newError("put", "", key, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return newError("put", "", key, err)
	}
	if err := os.WriteFile(fullPath, body, 0o644); err != nil {
		return newError("put", "", key, err)
	}
	return nil
}

// PresignGet returns a link to the raw file route; local files need no signature.
func (l *LocalStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if key == "" {
		return "", newError("presign", "", key, ErrInvalidKey)
	}
	return "/files?path=" + url.QueryEscape(key), nil
}

// UploadRoute is the devserver path that accepts the PUT requests handed out
// by LocalStore.PresignPut. The object key travels in the "path" query
// parameter.
const UploadRoute = "/files/upload"

// PresignPut returns a link to UploadRoute. The content type is not enforced.
func (l *LocalStore) PresignPut(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	if key == "" || strings.HasSuffix(key, "/") {
		return "", newError("presign", "", key, ErrInvalidKey)
	}
	if _, err := l.resolve(key); err != nil {
		return "", newError("presign", "", key, err)
	}
	return UploadRoute + "?path=" + url.QueryEscape(key), nil
}

// resolve maps a key to a path under RootDir, refusing keys that escape it.
func (l *LocalStore) resolve(key string) (string, error) {
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return "", ErrInvalidKey
		}
	}
	return filepath.Join(l.RootDir, filepath.FromSlash(key)), nil
}
