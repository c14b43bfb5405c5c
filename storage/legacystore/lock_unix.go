//go:build unix

package legacystore

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockExclusive takes an advisory exclusive lock on f for the duration of a
// write, released by the returned func. Best-effort: a lock failure is
// reported but never blocks the write itself, since legacystore targets
// single-process local config files rather than a lock-coordinated service.
func lockExclusive(f *os.File) (func(), error) {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return func() {}, err
	}
	return func() { _ = unix.Flock(int(f.Fd()), unix.LOCK_UN) }, nil
}
