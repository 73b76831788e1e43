//go:build unix

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gurisko/assetreg/internal/apiclient"
)

func client() *apiclient.Client {
	return apiclient.New(cfg.Socket)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// assetView mirrors the JSON form of registry.Asset
type assetView struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Container string `json:"container"`
}

// containerNotFound turns a 404 for a named container into a hint; other
// errors pass through.
func containerNotFound(err error, name string) error {
	if apiclient.IsNotFound(err) {
		return fmt.Errorf("no container %q; see `assetreg containers list` (%w)", name, err)
	}
	return err
}
