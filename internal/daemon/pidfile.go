//go:build unix

package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

var errMalformedPIDFile = errors.New("malformed pidfile")

// pidRecord identifies a running daemon. The instance id survives PID reuse:
// a process with the right PID but a different instance is someone else.
type pidRecord struct {
	PID      int
	Instance string
}

func (r pidRecord) String() string {
	return strconv.Itoa(r.PID) + " " + r.Instance + "\n"
}

func readPIDRecord(path string) (pidRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pidRecord{}, err
	}
	fields := strings.Fields(string(data))
	if len(fields) != 2 {
		return pidRecord{}, fmt.Errorf("%w: %s", errMalformedPIDFile, path)
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil || pid <= 0 {
		return pidRecord{}, fmt.Errorf("%w: %s: bad pid %q", errMalformedPIDFile, path, fields[0])
	}
	return pidRecord{PID: pid, Instance: fields[1]}, nil
}

// claimPIDFile creates path holding rec. A leftover file is replaced when it
// is malformed or names a dead process.
func claimPIDFile(path string, rec pidRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create pidfile directory: %w", err)
	}

	for {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			_, werr := f.WriteString(rec.String())
			return errors.Join(werr, f.Close())
		}
		if !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("failed to create pidfile: %w", err)
		}

		old, rerr := readPIDRecord(path)
		if rerr == nil && processAlive(old.PID) {
			return fmt.Errorf("daemon already running (PID: %d)", old.PID)
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("cannot replace stale pidfile: %w", err)
		}
	}
}

// processAlive probes pid with signal 0.
func processAlive(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
