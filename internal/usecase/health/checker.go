package health

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"tankgo/internal/bootstrap/logging"
	"tankgo/internal/errs"
)

const DefaultTimeout = 3 * time.Second

type Status string

const (
	StatusUp   Status = "UP"
	StatusDown Status = "DOWN"
)

type Target struct {
	Name string
	URL  string
}

type Result struct {
	Name     string        `json:"name"`
	URL      string        `json:"url"`
	Status   Status        `json:"status"`
	Code     int           `json:"code,omitempty"`
	Latency  time.Duration `json:"latency"`
	ErrorMsg string        `json:"error,omitempty"`
}

// Checker probes every target concurrently. A target is UP when it answers with a status
// below 500 before the timeout.
type Checker struct {
	client  *http.Client
	timeout time.Duration
}

func NewChecker(client *http.Client, timeout time.Duration) *Checker {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{client: client, timeout: timeout}
}

// Check returns one result per target in input order.
func (c *Checker) Check(ctx context.Context, targets []Target) ([]Result, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	logCtx := logging.WithComponent(ctx, "usecase.health")

	results := make([]Result, len(targets))
	g, groupCtx := errgroup.WithContext(logCtx)
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			results[i] = c.probe(groupCtx, target)
			return nil
		})
	}
	_ = g.Wait()

	for _, result := range results {
		if result.Status == StatusDown {
			logging.Warn(logCtx, "service down", slog.String("service", result.Name), slog.String("error", result.ErrorMsg))
		}
	}
	return results, nil
}

func (c *Checker) probe(ctx context.Context, target Target) Result {
	result := Result{Name: target.Name, URL: target.URL, Status: StatusDown}

	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, target.URL, nil)
	if err != nil {
		result.ErrorMsg = err.Error()
		return result
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	result.Latency = time.Since(start)
	if err != nil {
		result.ErrorMsg = err.Error()
		return result
	}
	_ = resp.Body.Close()

	result.Code = resp.StatusCode
	if resp.StatusCode < http.StatusInternalServerError {
		result.Status = StatusUp
	} else {
		result.ErrorMsg = resp.Status
	}
	return result
}

// AllUp reports whether every result is UP.
func AllUp(results []Result) bool {
	for _, result := range results {
		if result.Status != StatusUp {
			return false
		}
	}
	return true
}
