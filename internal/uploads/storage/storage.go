package storage

import (
	"context"
	"io"
)

// Store persists an object under key and returns the address clients use
// to fetch it.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}
