package registry

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// Asset is one registered file reference. It is immutable once created.
type Asset struct {
	path      string
	name      string
	container string
}

// NewAsset creates an asset owned by container. An empty name defaults to path.
func NewAsset(path, name, container string) *Asset {
	if name == "" {
		name = path
	}
	return &Asset{path: path, name: name, container: container}
}

// Path is relative to the owning container's base path and base URL.
func (a *Asset) Path() string      { return a.path }
func (a *Asset) Name() string      { return a.name }
func (a *Asset) Container() string { return a.container }

// FullURL joins baseURL, normally the owning container's, with the asset path.
func (a *Asset) FullURL(baseURL string) string {
	return joinURL(baseURL, a.path)
}

func (a *Asset) String() string {
	return a.container + ":" + a.name
}

func (a *Asset) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Path      string `json:"path"`
		Name      string `json:"name"`
		Container string `json:"container"`
	}{a.path, a.name, a.container})
}

// joinURL inserts exactly one slash between base and p.
func joinURL(base, p string) string {
	if base == "" {
		return p
	}
	if p == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}

func joinPath(base, p string) string {
	if base == "" {
		return p
	}
	return filepath.Join(base, filepath.FromSlash(p))
}
