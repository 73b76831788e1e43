package registry

// ContainerConfig describes one container in the initial snapshot or in AddContainer
type ContainerConfig struct {
	Name         string `yaml:"-" json:"name" mapstructure:"-"`
	URL          string `yaml:"url" json:"url" mapstructure:"url"`                               // Base URL prepended to asset paths
	Path         string `yaml:"path" json:"path" mapstructure:"path"`                            // Base filesystem path
	PrintPattern string `yaml:"print_pattern" json:"print_pattern" mapstructure:"print_pattern"` // Template with {{PATH}} {{URL}} {{URI}} {{NAME}}
	FileRegex    string `yaml:"file_regex" json:"file_regex,omitempty" mapstructure:"file_regex"` // Empty means never auto-selected
	Versioned    bool   `yaml:"versioned" json:"versioned" mapstructure:"versioned"`             // Append ?<mtime> to URLs
}

// Config is the initial snapshot a Registry is built from.
// Containers are registered in slice order.
type Config struct {
	Containers []ContainerConfig `yaml:"containers" json:"containers"`
}

// ContainerInfo is a point-in-time view of one container
type ContainerInfo struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Path         string `json:"path"`
	PrintPattern string `json:"print_pattern"`
	FileRegex    string `json:"file_regex,omitempty"`
	Versioned    bool   `json:"versioned"`
	Assets       int    `json:"assets"`
}
