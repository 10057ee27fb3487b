package store

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 50 * time.Millisecond

// Lock is an advisory lock on <db>.lock. Comparisons hold it shared while they
// read and write vectors; clearing the cache needs it exclusively.
type Lock struct {
	fl *flock.Flock
}

// LockPath returns the lock file guarding the database at path.
func LockPath(path string) string {
	return path + ".lock"
}

// LockShared waits until no exclusive holder remains, then takes a shared lock.
// In-memory databases need no lock and get a nil *Lock.
func LockShared(ctx context.Context, path string) (*Lock, error) {
	if path == ":memory:" {
		return nil, nil
	}
	fl := flock.New(LockPath(path))
	ok, err := fl.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("locking cache: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("locking cache: %w", ctx.Err())
	}
	return &Lock{fl: fl}, nil
}

// TryLockExclusive takes an exclusive lock without waiting. ok is false when
// another process holds the lock.
func TryLockExclusive(path string) (l *Lock, ok bool, err error) {
	if path == ":memory:" {
		return nil, true, nil
	}
	fl := flock.New(LockPath(path))
	ok, err = fl.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("locking cache: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return &Lock{fl: fl}, true, nil
}

// Release drops the lock. It is safe on a nil *Lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	return l.fl.Unlock()
}
