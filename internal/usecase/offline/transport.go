package offline

import (
	"net/http"

	domainoffline "tankgo/internal/domain/offline"
	"tankgo/internal/errs"
)

// Transport is an http.RoundTripper that sends every request through the host, so an
// application's http.Client gets the same interception as proxied browser traffic.
type Transport struct {
	Host *Host
}

var _ http.RoundTripper = (*Transport)(nil)

func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	req, err := domainoffline.FromHTTPRequest(r)
	if err != nil {
		return nil, errs.Wrap(err, "read request")
	}
	resp, err := t.Host.Handle(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return resp.HTTPResponse(r), nil
}

// Client returns an http.Client using t.
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}
