package registry

// ContainerRef addresses either one named container or any container.
// The zero value is Any.
type ContainerRef struct {
	name     string
	specific bool
}

// Any resolves automatically or applies to every container, depending on the operation.
var Any = ContainerRef{}

// In references the container registered under name.
func In(name string) ContainerRef {
	return ContainerRef{name: name, specific: true}
}

func (r ContainerRef) IsAny() bool { return !r.specific }

// Name returns the referenced container name, or "" for Any.
func (r ContainerRef) Name() string { return r.name }

func (r ContainerRef) String() string {
	if !r.specific {
		return "*"
	}
	return r.name
}
