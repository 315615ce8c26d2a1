package remote

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"tankgo/internal/domain/offline"
	"tankgo/internal/errs"
	"tankgo/internal/ports"
)

// HTTPFetcher performs real network requests for the interception layer. Its client must not
// route through the interception transport itself.
type HTTPFetcher struct {
	client *http.Client
	now    func() time.Time
}

var _ ports.Fetcher = (*HTTPFetcher)(nil)

func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPFetcher{client: client, now: time.Now}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, req offline.Request) (offline.Response, error) {
	if ctx == nil {
		return offline.Response{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return offline.Response{}, errs.Wrap(err, "check context")
	}

	httpReq, err := req.HTTPRequest()
	if err != nil {
		return offline.Response{}, errs.Wrap(err, "build request")
	}

	resp, err := f.client.Do(httpReq.WithContext(ctx))
	if err != nil {
		return offline.Response{}, &offline.NetworkError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return offline.Response{}, &offline.NetworkError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	return offline.Response{
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		Source:   offline.SourceNetwork,
		StoredAt: f.now().UTC(),
	}, nil
}
