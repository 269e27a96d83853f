// Package storage holds the object storage drivers used for profile images.
package storage

import (
	"context"
	"io"
)

// PutInput describes an object to store.
type PutInput struct {
	Key         string
	ContentType string
	Size        int64
}

// PutResult identifies a stored object.
type PutResult struct {
	Key string
}

// Storage uploads blobs by key and resolves their retrieval URLs.
type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
