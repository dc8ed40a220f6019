package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that the requested object does not exist
	ErrNotFound = errors.New("object not found")

	// ErrInvalidKey indicates a key the backend refuses to address
	ErrInvalidKey = errors.New("invalid object key")

	// ErrPresignUnavailable is returned when the store was built without a presign client
	ErrPresignUnavailable = errors.New("presigning not available")
)

// Error wraps a backend failure with the operation, bucket and key it concerned.
type Error struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Bucket != "" && e.Key != "":
		return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	case e.Bucket != "":
		return fmt.Sprintf("%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	case e.Key != "":
		return fmt.Sprintf("%s object %s: %v", e.Op, e.Key, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, bucket, key string, err error) *Error {
	return &Error{Op: op, Bucket: bucket, Key: key, Err: err}
}

// IsNotFound reports whether err, or anything it wraps, is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
