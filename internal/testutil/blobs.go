package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dom/news-api/internal/storage"
)

var ErrInjectedFailure = errors.New("injected blob store failure")

// FakeBlobStore is an in-memory storage.BlobStore. Individual keys can be
// told to fail on delete.
type FakeBlobStore struct {
	mu          sync.Mutex
	objects     map[string][]byte
	failDeletes map[string]bool
	failPuts    bool
	deleted     []string
}

func NewFakeBlobStore() *FakeBlobStore {
	return &FakeBlobStore{
		objects:     make(map[string][]byte),
		failDeletes: make(map[string]bool),
	}
}

func (f *FakeBlobStore) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (*storage.Object, error) {
	if key == "" {
		return nil, storage.ErrEmptyKey
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPuts {
		return nil, ErrInjectedFailure
	}
	f.objects[key] = data
	return &storage.Object{Key: key, URL: fmt.Sprintf("https://blobs.test/%s", key)}, nil
}

func (f *FakeBlobStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDeletes[key] {
		return ErrInjectedFailure
	}
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

// Seed stores an object directly, bypassing Put.
func (f *FakeBlobStore) Seed(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
}

func (f *FakeBlobStore) FailDeletesFor(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failDeletes[key] = true
}

func (f *FakeBlobStore) FailPuts() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPuts = true
}

func (f *FakeBlobStore) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *FakeBlobStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *FakeBlobStore) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}
