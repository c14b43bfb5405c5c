//go:build !unix

package legacystore

import "os"

// lockExclusive is a no-op on non-unix platforms, where golang.org/x/sys/unix
// is unavailable.
func lockExclusive(f *os.File) (func(), error) {
	return func() {}, nil
}
