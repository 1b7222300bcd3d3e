// Package storage keeps post images in an object store. Rows only hold the key.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by Open and Remove for an unknown key.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the binary store behind Post.Image.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}
