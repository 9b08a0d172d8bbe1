package store

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"flatwatch/internal/domain"
)

var ErrLocked = errors.New("another run holds the state lock")

// Lock takes an exclusive lock on statePath+".lock" without waiting. The
// returned func releases it.
func Lock(statePath string) (unlock func() error, err error) {
	if err := os.MkdirAll(filepath.Dir(statePath), 0o755); err != nil {
		return nil, persistErr("lock", err)
	}
	fl := flock.New(statePath + ".lock")

	ok, err := fl.TryLock()
	if err != nil {
		return nil, persistErr("lock "+fl.Path(), err)
	}
	if !ok {
		return nil, domain.Fail(stagePersist, domain.ErrPersistence, ErrLocked)
	}
	return fl.Unlock, nil
}
