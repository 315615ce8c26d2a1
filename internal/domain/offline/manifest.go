package offline

import (
	"errors"
	"net/url"
	"strings"
)

const DefaultOfflineDocument = "/index.html"

// DefaultPrecache is the app shell installed into the static namespace.
var DefaultPrecache = []string{
	"/",
	"/index.html",
	"/manifest.webmanifest",
	"/pwa-192x192.png",
	"/pwa-512x512.png",
	"/logo.png",
}

// NormalizePrecache trims entries, drops blanks and duplicates, and rejects entries that
// are not origin-relative paths.
func NormalizePrecache(entries []string) ([]string, error) {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if !strings.HasPrefix(entry, "/") || strings.HasPrefix(entry, "//") {
			return nil, errors.New("precache entry must be an origin-relative path: " + entry)
		}
		if _, ok := seen[entry]; ok {
			continue
		}
		seen[entry] = struct{}{}
		out = append(out, entry)
	}
	return out, nil
}

// Resolve turns an origin-relative path into an absolute URL on origin.
func Resolve(origin *url.URL, path string) *url.URL {
	ref, err := url.Parse(path)
	if err != nil {
		ref = &url.URL{Path: path}
	}
	return origin.ResolveReference(ref)
}
