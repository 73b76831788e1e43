//go:build unix

package daemon

import (
	"net/http"

	"github.com/gurisko/assetreg/pkg/registry"
)

type AddAssetRequest struct {
	Path      string `json:"path"`
	Name      string `json:"name,omitempty"`
	Container string `json:"container,omitempty"`
}

type AssetResponse struct {
	Asset *registry.Asset `json:"asset"`
}

type ListAssetsResponse struct {
	Assets []*registry.Asset `json:"assets"`
	Count  int               `json:"count"`
}

type RemoveAssetResponse struct {
	Removed bool `json:"removed"`
}

type DetermineResponse struct {
	File      string `json:"file"`
	Container string `json:"container"`
}

func (d *Daemon) handleListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := d.registry.Assets(refFrom(r.URL.Query().Get("container")))
	if err != nil {
		writeRegistryError(w, err)
		return
	}
	if assets == nil {
		assets = []*registry.Asset{}
	}
	writeJSON(w, ListAssetsResponse{Assets: assets, Count: len(assets)}, http.StatusOK)
}

func (d *Daemon) handleAddAsset(w http.ResponseWriter, r *http.Request) {
	var req AddAssetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		writeError(w, "path is required", http.StatusBadRequest)
		return
	}

	a, err := d.registry.Add(req.Path, req.Name, refFrom(req.Container))
	if err != nil {
		writeRegistryError(w, err)
		return
	}
	writeJSON(w, AssetResponse{Asset: a}, http.StatusCreated)
}

func (d *Daemon) handleRemoveAsset(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		writeError(w, "name query parameter is required", http.StatusBadRequest)
		return
	}

	removed, err := d.registry.Remove(name, refFrom(q.Get("container")))
	if err != nil {
		writeRegistryError(w, err)
		return
	}
	writeJSON(w, RemoveAssetResponse{Removed: removed}, http.StatusOK)
}

func (d *Daemon) handleDetermine(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	if file == "" {
		writeError(w, "file query parameter is required", http.StatusBadRequest)
		return
	}
	name, ok := d.registry.DetermineContainer(file)
	if !ok {
		writeError(w, registry.ErrContainerNotDeterminable.Error()+": "+file, http.StatusNotFound)
		return
	}
	writeJSON(w, DetermineResponse{File: file, Container: name}, http.StatusOK)
}
