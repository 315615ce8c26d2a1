package ports

import (
	"context"

	"tankgo/internal/domain/offline"
)

// Fetcher performs a real network request. Transport failures are *offline.NetworkError;
// any HTTP status, including 4xx and 5xx, is a response.
type Fetcher interface {
	Fetch(ctx context.Context, req offline.Request) (offline.Response, error)
}
