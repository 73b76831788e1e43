// Package manifest reads asset manifests: a YAML document declaring the
// containers of a registry, in order, and the assets to register in them.
//
//	containers:
//	  scripts:
//	    url: /js
//	    path: public/js
//	    print_pattern: '<script src="{{URL}}"></script>'
//	    file_regex: '/\.js$/'
//	assets:
//	  - path: app.js
//	  - path: vendor/jquery.min.js
//	    name: jquery
//	  - glob: "widgets/**/*.js"
//	    container: scripts
//
// Container order is the order of the YAML mapping.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gurisko/assetreg/pkg/registry"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidManifest indicates the document is malformed
	ErrInvalidManifest = errors.New("invalid manifest")
	// ErrNoMatches indicates a glob entry matched no files
	ErrNoMatches = errors.New("glob matched no files")
)

var containerFields = map[string]bool{
	"url":           true,
	"path":          true,
	"print_pattern": true,
	"file_regex":    true,
	"versioned":     true,
}

// Entry is one asset line. Exactly one of Path and Glob is set.
type Entry struct {
	Path      string `yaml:"path,omitempty" json:"path,omitempty"`
	Name      string `yaml:"name,omitempty" json:"name,omitempty"`
	Container string `yaml:"container,omitempty" json:"container,omitempty"`
	Glob      string `yaml:"glob,omitempty" json:"glob,omitempty"` // Relative to the container's base path
}

// Manifest is a parsed manifest document
type Manifest struct {
	Config registry.Config
	Assets []Entry
}

type document struct {
	Containers yaml.Node `yaml:"containers"`
	Assets     []Entry   `yaml:"assets"`
}

// Load reads and parses the manifest at path from the OS filesystem.
func Load(path string) (*Manifest, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs reads and parses the manifest at path from fs.
func LoadFs(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a manifest document.
func Parse(data []byte) (*Manifest, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	containers, err := decodeContainers(&doc.Containers)
	if err != nil {
		return nil, err
	}
	for i, e := range doc.Assets {
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("%w: assets[%d]: %v", ErrInvalidManifest, i, err)
		}
	}

	return &Manifest{
		Config: registry.Config{Containers: containers},
		Assets: doc.Assets,
	}, nil
}

// decodeContainers walks the mapping node pairwise so declaration order survives.
func decodeContainers(node *yaml.Node) ([]registry.ContainerConfig, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: containers must be a mapping", ErrInvalidManifest, node.Line)
	}

	out := make([]registry.ContainerConfig, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind == yaml.MappingNode {
			for j := 0; j+1 < len(val.Content); j += 2 {
				if f := val.Content[j].Value; !containerFields[f] {
					return nil, fmt.Errorf("%w: line %d: container %q: unknown field %q",
						ErrInvalidManifest, val.Content[j].Line, key.Value, f)
				}
			}
		}

		var cc registry.ContainerConfig
		if err := val.Decode(&cc); err != nil {
			return nil, fmt.Errorf("%w: container %q: %v", ErrInvalidManifest, key.Value, err)
		}
		cc.Name = key.Value
		out = append(out, cc)
	}
	return out, nil
}

func (e Entry) validate() error {
	switch {
	case e.Path == "" && e.Glob == "":
		return errors.New("one of path or glob is required")
	case e.Path != "" && e.Glob != "":
		return errors.New("path and glob are mutually exclusive")
	case e.Glob != "" && e.Container == "":
		return errors.New("glob requires container")
	case e.Glob != "" && e.Name != "":
		return errors.New("glob entries cannot set name")
	case e.Glob != "" && !doublestar.ValidatePattern(e.Glob):
		return fmt.Errorf("bad glob pattern %q", e.Glob)
	}
	return nil
}

// Build creates a registry from the manifest and registers its assets.
// fs backs both the registry and glob expansion.
func (m *Manifest) Build(fs afero.Fs, opts ...registry.Option) (*registry.Registry, error) {
	opts = append([]registry.Option{registry.WithFs(fs)}, opts...)
	reg, err := registry.New(m.Config, opts...)
	if err != nil {
		return nil, err
	}
	if err := m.Apply(reg, fs); err != nil {
		return nil, err
	}
	return reg, nil
}

// Apply registers every asset entry with reg, in order. Glob entries are
// expanded against the container's base path on fs and added in lexical
// order under their slash-separated relative paths.
func (m *Manifest) Apply(reg *registry.Registry, fs afero.Fs) error {
	for i, e := range m.Assets {
		ref := registry.Any
		if e.Container != "" {
			ref = registry.In(e.Container)
		}

		if e.Glob == "" {
			if _, err := reg.Add(e.Path, e.Name, ref); err != nil {
				return fmt.Errorf("assets[%d] %s: %w", i, e.Path, err)
			}
			continue
		}

		matches, err := expand(reg, fs, e)
		if err != nil {
			return fmt.Errorf("assets[%d] %s: %w", i, e.Glob, err)
		}
		for _, p := range matches {
			if _, err := reg.Add(p, "", ref); err != nil {
				return fmt.Errorf("assets[%d] %s: %w", i, p, err)
			}
		}
	}
	return nil
}

func expand(reg *registry.Registry, fs afero.Fs, e Entry) ([]string, error) {
	base := ""
	found := false
	for _, c := range reg.Containers() {
		if c.Name == e.Container {
			base, found = c.Path, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", registry.ErrContainerNotExist, e.Container)
	}
	if base == "" {
		return nil, fmt.Errorf("%w: container %q has no base path to glob in", ErrInvalidManifest, e.Container)
	}

	fsys := afero.NewIOFS(afero.NewBasePathFs(fs, base))
	matches, err := doublestar.Glob(fsys, e.Glob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s under %s", ErrNoMatches, e.Glob, base)
	}
	slices.Sort(matches)
	return matches, nil
}
