package registry

import "fmt"

// DetermineContainer returns the first container, in registration order,
// whose file pattern matches fileName.
func (r *Registry) DetermineContainer(fileName string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.determineNoLock(fileName)
}

func (r *Registry) determineNoLock(fileName string) (string, bool) {
	for _, name := range r.order {
		if r.containers[name].Matches(fileName) {
			return name, true
		}
	}
	return "", false
}

// resolveNoLock picks the single container an add or remove applies to.
// With Any, subject is matched against the file patterns.
func (r *Registry) resolveNoLock(ref ContainerRef, subject string) (*Container, error) {
	name := ref.Name()
	if ref.IsAny() {
		var ok bool
		if name, ok = r.determineNoLock(subject); !ok {
			return nil, fmt.Errorf("%w: %q", ErrContainerNotDeterminable, subject)
		}
	}
	c, ok := r.containers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrContainerNotExist, name)
	}
	return c, nil
}

// Add registers the asset at path. An empty name defaults to path. With Any
// the container is determined from path.
func (r *Registry) Add(path, name string, ref ContainerRef) (*Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		name = path
	}
	c, err := r.resolveNoLock(ref, path)
	if err != nil {
		return nil, err
	}
	if _, dup := c.Find(byName(name)); dup {
		return nil, fmt.Errorf("%w: %q in container %q", ErrAssetNameNotUnique, name, c.Name())
	}

	a := NewAsset(path, name, c.Name())
	c.Add(a)
	r.log.Debug("asset added", "container", c.Name(), "path", path, "name", name)
	return a, nil
}

// Remove deletes the asset whose path, or failing that whose name, equals
// nameOrPath. With Any the container is determined from nameOrPath whether it
// is a name or a path. Finding nothing is not an error.
func (r *Registry) Remove(nameOrPath string, ref ContainerRef) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.resolveNoLock(ref, nameOrPath)
	if err != nil {
		return false, err
	}
	a, ok := c.Find(byPath(nameOrPath))
	if !ok {
		if a, ok = c.Find(byName(nameOrPath)); !ok {
			return false, nil
		}
	}

	removed := c.Remove(a)
	if removed {
		r.log.Debug("asset removed", "container", c.Name(), "path", a.Path(), "name", a.Name())
	}
	return removed, nil
}

// Assets returns the assets of one container, or of all containers
// concatenated in registration order.
func (r *Registry) Assets(ref ContainerRef) ([]*Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, err := r.targetsNoLock(ref)
	if err != nil {
		return nil, err
	}
	var out []*Asset
	for _, c := range set {
		out = append(out, c.assets...)
	}
	return out, nil
}
