package ports

import (
	"context"

	"tankgo/internal/domain/offline"
)

// ResponseCache is one named namespace of stored responses.
type ResponseCache interface {
	Name() string
	Match(ctx context.Context, key offline.RequestKey) (offline.Response, bool, error)
	Put(ctx context.Context, key offline.RequestKey, resp offline.Response) error
	// PutAll writes every entry or none.
	PutAll(ctx context.Context, entries []CachedEntry) error
}

type CachedEntry struct {
	Key      offline.RequestKey
	Response offline.Response
}

// ResponseStore owns every namespace. Failures are wrapped with offline.ErrCacheUnavailable.
type ResponseStore interface {
	// Open returns the namespace, creating it when missing.
	Open(ctx context.Context, name string) (ResponseCache, error)
	// Match looks the key up across all namespaces in creation order.
	Match(ctx context.Context, key offline.RequestKey) (offline.Response, bool, error)
	Has(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, name string) (bool, error)
	// Keys lists namespace names in creation order.
	Keys(ctx context.Context) ([]string, error)
}
