// Package storage keeps uploaded image bytes on local disk or in S3.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

var (
	ErrNotFound    = errors.New("object not found")
	ErrInvalidName = errors.New("invalid object name")
)

type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

type Storage interface {
	Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) error
	Get(ctx context.Context, name string) (*Object, error)
	// Delete succeeds when the object is already gone.
	Delete(ctx context.Context, name string) error
}

// ValidName rejects names that could escape the storage root.
func ValidName(name string) bool {
	return name != "" &&
		name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) &&
		!strings.Contains(name, "..")
}
