package registry

import "errors"

var (
	// ErrContainerNotExist indicates the referenced container is not registered
	ErrContainerNotExist = errors.New("container does not exist")
	// ErrContainerNotUnique indicates a container with the same name is already registered
	ErrContainerNotUnique = errors.New("container already exists")
	// ErrContainerNotDeterminable indicates no container file pattern matched
	ErrContainerNotDeterminable = errors.New("container could not be determined")
	// ErrAssetNotFound indicates no asset matched in the searched containers
	ErrAssetNotFound = errors.New("asset not found")
	// ErrAssetNameNotUnique indicates the container already holds an asset with that name
	ErrAssetNameNotUnique = errors.New("asset name not unique")
	// ErrInvalidPath indicates a base path is not an existing directory
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidAssetPath indicates a versioned asset has no backing file
	ErrInvalidAssetPath = errors.New("invalid asset path")
	// ErrPrintPatternMissing indicates the asset's owning container vanished before rendering.
	// Reaching it means the registry's bookkeeping is broken.
	ErrPrintPatternMissing = errors.New("print pattern missing")
)
