package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"tankgo/internal/domain/offline"
	"tankgo/internal/errs"
)

const (
	ControlMessagePath = "/__sw/message"
	ControlSyncPath    = "/__sw/sync"
	ControlStatusPath  = "/__sw/status"
)

// ControlClient posts control messages to a running proxy.
type ControlClient struct {
	http    *http.Client
	baseURL string
}

func NewControlClient(client *http.Client, proxyURL string) *ControlClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &ControlClient{http: client, baseURL: strings.TrimRight(strings.TrimSpace(proxyURL), "/")}
}

// Send posts cmd and returns the raw reply body.
func (c *ControlClient) Send(ctx context.Context, cmd offline.Command) (json.RawMessage, error) {
	payload, err := offline.EncodeCommand(cmd)
	if err != nil {
		return nil, err
	}
	return c.call(ctx, http.MethodPost, c.baseURL+ControlMessagePath, payload)
}

func (c *ControlClient) SkipWaiting(ctx context.Context) error {
	_, err := c.Send(ctx, offline.SkipWaiting{})
	return err
}

func (c *ControlClient) CacheFavorites(ctx context.Context, stationIDs []string) error {
	_, err := c.Send(ctx, offline.CacheFavorites{StationIDs: stationIDs})
	return err
}

func (c *ControlClient) Sync(ctx context.Context, tag string) error {
	_, err := c.call(ctx, http.MethodPost, c.baseURL+ControlSyncPath+"?tag="+url.QueryEscape(tag), nil)
	return err
}

func (c *ControlClient) Status(ctx context.Context) (json.RawMessage, error) {
	return c.call(ctx, http.MethodGet, c.baseURL+ControlStatusPath, nil)
}

func (c *ControlClient) call(ctx context.Context, method string, target string, payload []byte) (json.RawMessage, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if c.baseURL == "" {
		return nil, errors.New("proxy url is required")
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, errs.Wrap(err, "build control request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &offline.NetworkError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	read, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &offline.NetworkError{Method: method, URL: target, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var reply struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(read, &reply) == nil && reply.Error != "" {
			return nil, fmt.Errorf("control %s: %s", resp.Status, reply.Error)
		}
		return nil, fmt.Errorf("control %s", resp.Status)
	}
	return json.RawMessage(read), nil
}
