package storage

import "context"

// Store persists a blob under a key and returns the public URL it will be
// served from.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}
