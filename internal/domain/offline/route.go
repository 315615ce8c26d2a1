package offline

import (
	"net/url"
	"strings"
)

type Strategy int

const (
	StrategyPassThrough Strategy = iota
	StrategyNetworkFirst
	StrategyCacheFirst
)

func (s Strategy) String() string {
	switch s {
	case StrategyNetworkFirst:
		return "network-first"
	case StrategyCacheFirst:
		return "cache-first"
	default:
		return "pass-through"
	}
}

// Router picks a strategy per request. API paths are matched on any origin because the
// application talks to its API on a separate host.
type Router struct {
	Origin    *url.URL
	APIPrefix string
}

func (r Router) Route(req Request) Strategy {
	if req.URL == nil {
		return StrategyPassThrough
	}
	prefix := r.APIPrefix
	if prefix == "" {
		prefix = "/api/"
	}
	if strings.HasPrefix(req.URL.Path, prefix) {
		return StrategyNetworkFirst
	}
	if r.sameOrigin(req.URL) {
		return StrategyCacheFirst
	}
	return StrategyPassThrough
}

func (r Router) sameOrigin(u *url.URL) bool {
	if r.Origin == nil || u == nil {
		return false
	}
	return strings.EqualFold(r.Origin.Scheme, u.Scheme) && strings.EqualFold(r.Origin.Host, u.Host)
}
