package offline

import (
	"fmt"
	"regexp"
	"strings"
)

var versionPattern = regexp.MustCompile(`^v[0-9A-Za-z._-]+$`)

// Namespaces holds the two current cache names of one worker version.
type Namespaces struct {
	Static string
	API    string
}

// NamespacesFor derives "<prefix>-<version>" and "<prefix>-api-<version>".
func NamespacesFor(prefix string, version string) (Namespaces, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return Namespaces{}, fmt.Errorf("%w: cache prefix is required", ErrInvalidVersion)
	}
	normalized, err := NormalizeVersion(version)
	if err != nil {
		return Namespaces{}, err
	}
	return Namespaces{
		Static: prefix + "-" + normalized,
		API:    prefix + "-api-" + normalized,
	}, nil
}

// NormalizeVersion accepts "v1" or a bare "1".
func NormalizeVersion(version string) (string, error) {
	trimmed := strings.TrimSpace(version)
	if trimmed == "" {
		return "", fmt.Errorf("%w: version is required", ErrInvalidVersion)
	}
	if !strings.HasPrefix(trimmed, "v") {
		trimmed = "v" + trimmed
	}
	if !versionPattern.MatchString(trimmed) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	return trimmed, nil
}

func (n Namespaces) IsCurrent(name string) bool {
	return name == n.Static || name == n.API
}

// Stale returns existing names that are not current, keeping input order.
func (n Namespaces) Stale(existing []string) []string {
	stale := make([]string, 0, len(existing))
	for _, name := range existing {
		if !n.IsCurrent(name) {
			stale = append(stale, name)
		}
	}
	return stale
}
