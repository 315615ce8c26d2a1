package offline

import (
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	domainoffline "tankgo/internal/domain/offline"
	"tankgo/internal/errs"
)

// Manifest is the precache manifest file shipped next to the app shell.
type Manifest struct {
	Version         string   `toml:"version"`
	OfflineDocument string   `toml:"offline_document"`
	Precache        []string `toml:"precache"`
}

func LoadManifest(path string) (Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, errs.Wrapf(err, "read manifest %q", path)
	}
	return ParseManifest(raw)
}

func ParseManifest(raw []byte) (Manifest, error) {
	var manifest Manifest
	if err := toml.Unmarshal(raw, &manifest); err != nil {
		return Manifest{}, errs.Wrap(err, "decode manifest")
	}
	if strings.TrimSpace(manifest.Version) != "" {
		if _, err := domainoffline.NormalizeVersion(manifest.Version); err != nil {
			return Manifest{}, err
		}
	}
	precache, err := domainoffline.NormalizePrecache(manifest.Precache)
	if err != nil {
		return Manifest{}, err
	}
	manifest.Precache = precache
	return manifest, nil
}

// Apply overrides cfg with every field the manifest sets.
func (m Manifest) Apply(cfg Config) Config {
	if strings.TrimSpace(m.Version) != "" {
		cfg.Version = m.Version
	}
	if strings.TrimSpace(m.OfflineDocument) != "" {
		cfg.OfflineDocument = m.OfflineDocument
	}
	if len(m.Precache) > 0 {
		cfg.Precache = m.Precache
	}
	return cfg
}
