package offline

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Mode mirrors the fetch request mode; only navigate changes strategy behavior.
type Mode string

const (
	ModeNavigate   Mode = "navigate"
	ModeSameOrigin Mode = "same-origin"
	ModeCORS       Mode = "cors"
	ModeNoCORS     Mode = "no-cors"
)

type Source string

const (
	SourceNetwork   Source = "network"
	SourceCache     Source = "cache"
	SourceSynthetic Source = "synthetic"
)

type Request struct {
	Method string
	URL    *url.URL
	Mode   Mode
	Header http.Header
	Body   []byte
}

// NewRequest parses rawURL, which must be absolute.
func NewRequest(method string, rawURL string) (Request, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return Request{}, err
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return Request{}, errors.New("request url must be absolute")
	}
	return Request{
		Method: normalizeMethod(method),
		URL:    parsed,
		Mode:   ModeCORS,
		Header: http.Header{},
	}, nil
}

func (r Request) IsNavigation() bool {
	return r.Mode == ModeNavigate
}

// Cacheable reports whether a response to r may be written to a namespace.
// The platform cache only accepts GET entries.
func (r Request) Cacheable() bool {
	return normalizeMethod(r.Method) == http.MethodGet
}

type Response struct {
	Status   int
	Header   http.Header
	Body     []byte
	Source   Source
	StoredAt time.Time
}

func (r Response) OK() bool {
	return r.Status >= 200 && r.Status <= 299
}

func (r Response) Clone() Response {
	out := r
	out.Header = r.Header.Clone()
	if r.Body != nil {
		out.Body = make([]byte, len(r.Body))
		copy(out.Body, r.Body)
	}
	return out
}

// RequestKey identifies a cached entry. Vary is an opaque credential fingerprint so that two
// users never share an authenticated API response.
type RequestKey struct {
	Method string
	URL    string
	Vary   string
}

func (k RequestKey) String() string {
	if k.Vary == "" {
		return k.Method + " " + k.URL
	}
	return k.Method + " " + k.URL + " vary=" + k.Vary
}

func KeyFor(req Request) RequestKey {
	key := RequestKey{
		Method: normalizeMethod(req.Method),
		URL:    canonicalURL(req.URL),
	}
	if auth := strings.TrimSpace(req.Header.Get("Authorization")); auth != "" {
		sum := sha256.Sum256([]byte(auth))
		key.Vary = hex.EncodeToString(sum[:8])
	}
	return key
}

// KeyForURL is the key of an unauthenticated GET, as used by pre-warm and the offline document.
func KeyForURL(u *url.URL) RequestKey {
	return RequestKey{Method: http.MethodGet, URL: canonicalURL(u)}
}

func canonicalURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	clone := *u
	clone.Fragment = ""
	clone.RawFragment = ""
	clone.Scheme = strings.ToLower(clone.Scheme)
	clone.Host = strings.ToLower(clone.Host)
	if clone.Path == "" {
		clone.Path = "/"
	}
	return clone.String()
}

func normalizeMethod(method string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(method))
	if trimmed == "" {
		return http.MethodGet
	}
	return trimmed
}
