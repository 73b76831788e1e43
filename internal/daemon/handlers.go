//go:build unix

package daemon

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gurisko/assetreg/internal/limits"
	"github.com/gurisko/assetreg/pkg/registry"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// refFrom maps an API container value to a reference; "" and "*" mean any.
func refFrom(name string) registry.ContainerRef {
	if name == "" || name == "*" {
		return registry.Any
	}
	return registry.In(name)
}

// statusFor maps registry errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrContainerNotExist), errors.Is(err, registry.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrContainerNotUnique), errors.Is(err, registry.ErrAssetNameNotUnique):
		return http.StatusConflict
	case errors.Is(err, registry.ErrContainerNotDeterminable),
		errors.Is(err, registry.ErrInvalidPath),
		errors.Is(err, registry.ErrInvalidAssetPath):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a capped JSON body, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limits.JSON))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, data any, status int) {
	buf, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, ErrorResponse{Error: message}, status)
}

func writeRegistryError(w http.ResponseWriter, err error) {
	writeError(w, err.Error(), statusFor(err))
}
