//go:build unix

package daemon

import (
	"net/http"

	"github.com/gurisko/assetreg/pkg/registry"
)

type ListContainersResponse struct {
	Containers []registry.ContainerInfo `json:"containers"`
}

// UpdateContainerRequest carries the settings to change; nil fields are left alone.
type UpdateContainerRequest struct {
	BaseURL   *string `json:"base_url,omitempty"`
	BasePath  *string `json:"base_path,omitempty"`
	Versioned *bool   `json:"versioned,omitempty"`
}

type VersioningResponse struct {
	Container string `json:"container"`
	Versioned bool   `json:"versioned"`
}

func (d *Daemon) handleListContainers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, ListContainersResponse{Containers: d.registry.Containers()}, http.StatusOK)
}

func (d *Daemon) handleAddContainer(w http.ResponseWriter, r *http.Request) {
	var req registry.ContainerConfig
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}

	if err := d.registry.AddContainer(req); err != nil {
		writeRegistryError(w, err)
		return
	}
	w.Header().Set("Location", "/api/containers/"+req.Name)
	writeJSON(w, d.containerInfo(req.Name), http.StatusCreated)
}

func (d *Daemon) handleRemoveContainer(w http.ResponseWriter, r *http.Request) {
	if err := d.registry.RemoveContainer(r.PathValue("name")); err != nil {
		writeRegistryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateContainer applies base_path first so an invalid path leaves
// every setting untouched.
func (d *Daemon) handleUpdateContainer(w http.ResponseWriter, r *http.Request) {
	var req UpdateContainerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.BaseURL == nil && req.BasePath == nil && req.Versioned == nil {
		writeError(w, "nothing to update", http.StatusBadRequest)
		return
	}

	ref := refFrom(r.PathValue("name"))
	if req.BasePath != nil {
		if err := d.registry.SetBasePath(ref, *req.BasePath); err != nil {
			writeRegistryError(w, err)
			return
		}
	}
	if req.BaseURL != nil {
		if err := d.registry.SetBaseURL(ref, *req.BaseURL); err != nil {
			writeRegistryError(w, err)
			return
		}
	}
	if req.Versioned != nil {
		if err := d.registry.SetVersioning(ref, *req.Versioned); err != nil {
			writeRegistryError(w, err)
			return
		}
	}

	containers := d.registry.Containers()
	if !ref.IsAny() {
		containers = []registry.ContainerInfo{d.containerInfo(ref.Name())}
	}
	writeJSON(w, ListContainersResponse{Containers: containers}, http.StatusOK)
}

func (d *Daemon) handleVersioning(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	on, err := d.registry.IsUsingVersioning(name)
	if err != nil {
		writeRegistryError(w, err)
		return
	}
	writeJSON(w, VersioningResponse{Container: name, Versioned: on}, http.StatusOK)
}

func (d *Daemon) containerInfo(name string) registry.ContainerInfo {
	for _, c := range d.registry.Containers() {
		if c.Name == name {
			return c
		}
	}
	return registry.ContainerInfo{Name: name}
}
