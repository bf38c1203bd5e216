// Package storage holds the blob store used for news images.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrEmptyKey = errors.New("blob key must not be empty")

// Object describes a stored blob.
type Object struct {
	Key string
	URL string
}

// BlobStore is an opaque object store. Delete must be idempotent.
type BlobStore interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (*Object, error)
	Delete(ctx context.Context, key string) error
}
