package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"tankgo/internal/domain/stations"
	"tankgo/internal/errs"
)

// Endpoints names the remote routes relative to BaseURL.
type Endpoints struct {
	BaseURL       string
	FavoritesPath string
	StationsPath  string
	AuthPath      string
}

func (e Endpoints) resolve(path string, segments ...string) (string, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(e.BaseURL), "/"))
	if err != nil {
		return "", errs.Wrap(err, "parse remote base url")
	}
	if !base.IsAbs() {
		return "", errors.New("remote base url must be absolute")
	}
	joined := base.JoinPath(path)
	for _, segment := range segments {
		escaped, err := stations.PathSegment(segment)
		if err != nil {
			return "", err
		}
		joined = joined.JoinPath(escaped)
	}
	return joined.String(), nil
}

type apiClient struct {
	http      *http.Client
	endpoints Endpoints
}

type rawResponse struct {
	status int
	body   []byte
}

// do returns transport failures as the raw error so callers can classify them.
func (c apiClient) do(ctx context.Context, method string, target string, token string, payload any) (rawResponse, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return rawResponse{}, errs.Wrap(err, "encode request body")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return rawResponse{}, errs.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return rawResponse{}, err
	}
	defer resp.Body.Close()

	read, err := io.ReadAll(resp.Body)
	if err != nil {
		return rawResponse{}, err
	}
	return rawResponse{status: resp.StatusCode, body: read}, nil
}

func (r rawResponse) ok() bool {
	return r.status >= 200 && r.status <= 299
}
