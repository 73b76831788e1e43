//go:build unix

package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gurisko/assetreg/internal/limits"
)

type HealthResponse struct {
	Status     string  `json:"status"`
	Uptime     float64 `json:"uptime"`
	Instance   string  `json:"instance"`
	Containers int     `json:"containers"`
}

type StatusInfo struct {
	Running      bool
	PID          int
	SocketPath   string
	Instance     string
	Containers   int
	Uptime       time.Duration
	ErrorMessage string // set when the process exists but the socket does not answer as it
}

// GetStatus reports on the daemon named by the pidfile. A daemon counts as
// running only when its socket answers with the pidfile's instance id.
func (d *Daemon) GetStatus() (*StatusInfo, error) {
	info := &StatusInfo{SocketPath: d.socketPath}

	rec, err := readPIDRecord(d.pidFile)
	if err != nil {
		return info, nil
	}
	info.PID = rec.PID
	if !processAlive(rec.PID) {
		return info, nil
	}

	health, err := d.probe()
	switch {
	case err != nil:
		info.ErrorMessage = err.Error()
	case health.Instance != rec.Instance:
		info.ErrorMessage = fmt.Sprintf("socket answered as instance %s, pidfile names %s", health.Instance, rec.Instance)
	default:
		info.Running = true
		info.Instance = health.Instance
		info.Containers = health.Containers
		info.Uptime = time.Duration(health.Uptime * float64(time.Second))
	}
	return info, nil
}

func (d *Daemon) IsRunning() bool {
	info, _ := d.GetStatus()
	return info.Running
}

// probe asks the socket for /health.
func (d *Daemon) probe() (*HealthResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://unix/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health returned HTTP %d", resp.StatusCode)
	}
	var health HealthResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, limits.JSON)).Decode(&health); err != nil {
		return nil, err
	}
	return &health, nil
}
