package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/afero"
)

// Registry owns a set of containers keyed by name and implements lookup,
// uniqueness and rendering across them.
type Registry struct {
	mu         sync.RWMutex
	containers map[string]*Container
	order      []string
	fs         afero.Fs
	log        *slog.Logger
}

// Option configures a Registry
type Option func(*Registry)

// WithFs sets the filesystem used for base path checks and versioning.
// Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(r *Registry) { r.fs = fs }
}

// WithLogger sets the logger for mutations and pattern warnings.
// Defaults to discarding everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// New creates a Registry holding the containers of cfg, registered in order.
func New(cfg Config, opts ...Option) (*Registry, error) {
	r := &Registry{
		containers: make(map[string]*Container),
		fs:         afero.NewOsFs(),
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, cc := range cfg.Containers {
		if err := r.addContainerNoLock(cc); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// AddContainer registers a new container after all existing ones.
func (r *Registry) AddContainer(cfg ContainerConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.addContainerNoLock(cfg)
}

// addContainerNoLock registers without locking (caller must hold lock)
func (r *Registry) addContainerNoLock(cfg ContainerConfig) error {
	if _, exists := r.containers[cfg.Name]; exists {
		return fmt.Errorf("%w: %q", ErrContainerNotUnique, cfg.Name)
	}

	c := NewContainer(cfg)
	if err := c.PatternError(); err != nil {
		r.log.Warn("file pattern does not compile; auto-detection disabled",
			"container", cfg.Name, "file_regex", cfg.FileRegex, "error", err)
	}

	r.containers[cfg.Name] = c
	r.order = append(r.order, cfg.Name)
	r.log.Debug("container added", "container", cfg.Name, "url", cfg.URL, "path", cfg.Path)
	return nil
}

// RemoveContainer drops a container together with its assets.
func (r *Registry) RemoveContainer(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.containers[name]; !ok {
		return fmt.Errorf("%w: %q", ErrContainerNotExist, name)
	}
	delete(r.containers, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	r.log.Debug("container removed", "container", name)
	return nil
}

// ContainerNames returns container names in registration order
func (r *Registry) ContainerNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Containers returns a snapshot of every container in registration order
func (r *Registry) Containers() []ContainerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ContainerInfo, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.containers[name].info())
	}
	return out
}

// SetBaseURL updates the base URL of one container or, with Any, all of them.
func (r *Registry) SetBaseURL(ref ContainerRef, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, err := r.targetsNoLock(ref)
	if err != nil {
		return err
	}
	for _, c := range set {
		c.SetBaseURL(url)
	}
	r.log.Debug("base url set", "container", ref.String(), "url", url)
	return nil
}

// SetBasePath updates the base path of one container or, with Any, all of them.
// A non-empty path must be an existing directory; it is checked once before
// any container changes. An empty path is accepted without a check.
func (r *Registry) SetBasePath(ref ContainerRef, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, err := r.targetsNoLock(ref)
	if err != nil {
		return err
	}
	if path != "" {
		if ok, err := afero.IsDir(r.fs, path); err != nil || !ok {
			return fmt.Errorf("%w: path=%s", ErrInvalidPath, path)
		}
	}
	for _, c := range set {
		c.SetBasePath(path)
	}
	r.log.Debug("base path set", "container", ref.String(), "path", path)
	return nil
}

// SetVersioning turns cache-busting on or off for one container or all of them.
func (r *Registry) SetVersioning(ref ContainerRef, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, err := r.targetsNoLock(ref)
	if err != nil {
		return err
	}
	for _, c := range set {
		c.SetVersioned(on)
	}
	r.log.Debug("versioning set", "container", ref.String(), "versioned", on)
	return nil
}

// IsUsingVersioning reports whether the named container appends modification times.
func (r *Registry) IsUsingVersioning(name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.containers[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrContainerNotExist, name)
	}
	return c.Versioned(), nil
}

// targetsNoLock expands ref into the containers it covers, in registration order.
func (r *Registry) targetsNoLock(ref ContainerRef) ([]*Container, error) {
	if !ref.IsAny() {
		c, ok := r.containers[ref.Name()]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrContainerNotExist, ref.Name())
		}
		return []*Container{c}, nil
	}
	out := make([]*Container, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.containers[name])
	}
	return out, nil
}
