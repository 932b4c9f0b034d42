package relocate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"handyman/internal/services"
)

// lockNamespace seeds the name-based UUIDs that identify a source/destination pair.
var lockNamespace = uuid.MustParse("6f1c2a7e-3b54-4d0e-9a8c-2f6b1d9e4c31")

// LockPath returns the lock file guarding runs from source to dest.
func LockPath(lockDir, source, dest string) string {
	id := uuid.NewSHA1(lockNamespace, []byte(source+"\x00"+dest))
	return filepath.Join(lockDir, id.String()+".lock")
}

// acquireLock takes the advisory lock for a pair. A lock held by another
// process or another run in this process yields ErrBusy.
func acquireLock(lockDir, source, dest string) (*flock.Flock, error) {
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "relocate", "create lock directory", lockDir, err)
	}
	path := LockPath(lockDir, source, dest)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "relocate", "acquire lock", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrBusy, "relocate", "acquire lock",
			fmt.Sprintf("another run is already relocating %s -> %s", source, dest), nil)
	}
	return lock, nil
}
