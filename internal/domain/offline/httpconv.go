package offline

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// FromHTTPRequest reads r (including its body) into a Request. The mode comes from
// Sec-Fetch-Mode when the client sent one.
func FromHTTPRequest(r *http.Request) (Request, error) {
	if r == nil || r.URL == nil {
		return Request{}, errors.New("request is required")
	}
	u := *r.URL
	if u.Host == "" {
		u.Host = r.Host
	}
	if u.Scheme == "" {
		u.Scheme = "http"
		if r.TLS != nil {
			u.Scheme = "https"
		}
	}

	var body []byte
	if r.Body != nil && r.Body != http.NoBody {
		read, err := io.ReadAll(r.Body)
		if err != nil {
			return Request{}, err
		}
		_ = r.Body.Close()
		body = read
	}

	mode := ModeCORS
	switch Mode(strings.ToLower(strings.TrimSpace(r.Header.Get("Sec-Fetch-Mode")))) {
	case ModeNavigate:
		mode = ModeNavigate
	case ModeSameOrigin:
		mode = ModeSameOrigin
	case ModeNoCORS:
		mode = ModeNoCORS
	}

	return Request{
		Method: normalizeMethod(r.Method),
		URL:    &u,
		Mode:   mode,
		Header: r.Header.Clone(),
		Body:   body,
	}, nil
}

// HTTPRequest builds an outgoing request carrying the same method, URL, headers and body.
func (r Request) HTTPRequest() (*http.Request, error) {
	if r.URL == nil {
		return nil, errors.New("request url is required")
	}
	var body io.Reader
	if len(r.Body) > 0 {
		body = bytes.NewReader(r.Body)
	}
	out, err := http.NewRequest(normalizeMethod(r.Method), r.URL.String(), body)
	if err != nil {
		return nil, err
	}
	if r.Header != nil {
		out.Header = r.Header.Clone()
	}
	return out, nil
}

// HTTPResponse renders resp for the original request req.
func (r Response) HTTPResponse(req *http.Request) *http.Response {
	header := r.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	body := r.Body
	if body == nil {
		body = []byte{}
	}
	header.Set("Content-Length", strconv.Itoa(len(body)))
	return &http.Response{
		Status:        strconv.Itoa(r.Status) + " " + http.StatusText(r.Status),
		StatusCode:    r.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
