package registry

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a single asset. Lookup is by name first, then by path.
//
// With Any the container is determined from name; when no pattern matches,
// every container is searched instead of failing. A non-empty custom
// template replaces the container's print pattern.
func (r *Registry) Print(name string, ref ContainerRef, custom string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, err := r.lookupNoLock(name, ref)
	if err != nil {
		return "", err
	}
	return r.renderNoLock(a, custom)
}

// PrintAll renders every asset of one container, or of all containers, in order.
func (r *Registry) PrintAll(ref ContainerRef) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, err := r.targetsNoLock(ref)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, c := range set {
		for _, a := range c.assets {
			out, err := r.renderNoLock(a, "")
			if err != nil {
				return "", err
			}
			b.WriteString(out)
		}
	}
	return b.String(), nil
}

func (r *Registry) lookupNoLock(name string, ref ContainerRef) (*Asset, error) {
	scope := ref
	if scope.IsAny() {
		if determined, ok := r.determineNoLock(name); ok {
			scope = In(determined)
		}
	}

	var set []*Container
	if scope.IsAny() {
		set, _ = r.targetsNoLock(Any)
	} else if c, ok := r.containers[scope.Name()]; ok {
		set = []*Container{c}
	}

	for _, c := range set {
		if a, ok := c.Find(byName(name)); ok {
			return a, nil
		}
	}
	for _, c := range set {
		if a, ok := c.Find(byPath(name)); ok {
			return a, nil
		}
	}

	if scope.IsAny() {
		return nil, fmt.Errorf("%w: %q in any container", ErrAssetNotFound, name)
	}
	return nil, fmt.Errorf("%w: %q in container %q", ErrAssetNotFound, name, scope.Name())
}

func (r *Registry) renderNoLock(a *Asset, custom string) (string, error) {
	c, ok := r.containers[a.Container()]
	if !ok {
		return "", fmt.Errorf("%w: container %q of asset %q is gone", ErrPrintPatternMissing, a.Container(), a.Name())
	}

	tmpl := custom
	if tmpl == "" {
		tmpl = c.PrintPattern()
	}

	path := joinPath(c.BasePath(), a.Path())
	url := a.FullURL(c.BaseURL())
	if c.Versioned() {
		mtime, err := r.modTimeNoLock(path)
		if err != nil {
			return "", err
		}
		url += "?" + strconv.FormatInt(mtime, 10)
	}

	return strings.NewReplacer(
		"{{PATH}}", path,
		"{{URL}}", url,
		"{{URI}}", url,
		"{{NAME}}", a.Name(),
	).Replace(tmpl) + "\n", nil
}

// modTimeNoLock returns the modification time of path in Unix seconds.
// Any stat failure counts as a missing file.
func (r *Registry) modTimeNoLock(path string) (int64, error) {
	fi, err := r.fs.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: path=%s: %v", ErrInvalidAssetPath, path, err)
	}
	return fi.ModTime().Unix(), nil
}
