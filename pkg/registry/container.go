package registry

// Container is an ordered bucket of assets sharing URL and path conventions
// and a print pattern. It does not enforce name uniqueness and is not safe
// for concurrent use; Registry does both.
type Container struct {
	name         string
	baseURL      string
	basePath     string
	printPattern string
	fileRegex    string
	versioned    bool

	match      func(string) bool
	patternErr error
	assets     []*Asset
}

// NewContainer builds an empty container from cfg. A file pattern that does
// not compile leaves the container without auto-detection; see PatternError.
func NewContainer(cfg ContainerConfig) *Container {
	c := &Container{
		name:         cfg.Name,
		baseURL:      cfg.URL,
		basePath:     cfg.Path,
		printPattern: cfg.PrintPattern,
		fileRegex:    cfg.FileRegex,
		versioned:    cfg.Versioned,
	}
	c.match, c.patternErr = compileMatcher(cfg.FileRegex)
	return c
}

func (c *Container) Name() string         { return c.name }
func (c *Container) BaseURL() string      { return c.baseURL }
func (c *Container) BasePath() string     { return c.basePath }
func (c *Container) PrintPattern() string { return c.printPattern }
func (c *Container) FileRegex() string    { return c.fileRegex }
func (c *Container) Versioned() bool      { return c.versioned }
func (c *Container) Len() int             { return len(c.assets) }

// PatternError reports why the file pattern could not be compiled, if it could not.
func (c *Container) PatternError() error { return c.patternErr }

func (c *Container) SetBaseURL(url string)   { c.baseURL = url }
func (c *Container) SetBasePath(path string) { c.basePath = path }
func (c *Container) SetVersioned(on bool)    { c.versioned = on }

// Matches reports whether fileName matches the container's file pattern.
// Containers without a usable pattern never match.
func (c *Container) Matches(fileName string) bool {
	return c.match != nil && c.match(fileName)
}

// Add appends a. It always succeeds.
func (c *Container) Add(a *Asset) bool {
	c.assets = append(c.assets, a)
	return true
}

// Remove drops the first stored entry that is a itself (pointer identity).
func (c *Container) Remove(a *Asset) bool {
	for i, cur := range c.assets {
		if cur == a {
			c.assets = append(c.assets[:i:i], c.assets[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the first asset, in insertion order, satisfying pred.
func (c *Container) Find(pred func(*Asset) bool) (*Asset, bool) {
	for _, a := range c.assets {
		if pred(a) {
			return a, true
		}
	}
	return nil, false
}

// Assets returns a copy of the asset list in insertion order.
func (c *Container) Assets() []*Asset {
	out := make([]*Asset, len(c.assets))
	copy(out, c.assets)
	return out
}

func (c *Container) info() ContainerInfo {
	return ContainerInfo{
		Name:         c.name,
		URL:          c.baseURL,
		Path:         c.basePath,
		PrintPattern: c.printPattern,
		FileRegex:    c.fileRegex,
		Versioned:    c.versioned,
		Assets:       len(c.assets),
	}
}

func byName(name string) func(*Asset) bool {
	return func(a *Asset) bool { return a.name == name }
}

func byPath(path string) func(*Asset) bool {
	return func(a *Asset) bool { return a.path == path }
}
