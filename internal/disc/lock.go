package disc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// ErrDeviceBusy reports that another process holds the device lock.
var ErrDeviceBusy = errors.New("device is in use by another cddarip process")

// LockDevice takes an exclusive advisory lock for id under stateDir. The
// caller releases it with Unlock.
func LockDevice(stateDir, id string) (*flock.Flock, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	lock := flock.New(filepath.Join(stateDir, lockName(id)))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDeviceBusy, id)
	}
	return lock, nil
}

func lockName(id string) string {
	name := strings.Trim(strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(id), "_")
	if name == "" {
		name = "medium"
	}
	return name + ".lock"
}
