package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// withMountDir points the package-level mountDir flag at a fresh temp
// directory for the duration of one test.
func withMountDir(t *testing.T) {
	t.Helper()
	prev := mountDir
	mountDir = t.TempDir()
	t.Cleanup(func() { mountDir = prev })
}

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	fn()
	require.NoError(t, w.Close())
	os.Stdout = orig

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String()
}

// captureStderr is captureStdout's counterpart for os.Stderr, used by
// commands (like runGet's not-found path) that report via printError.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stderr
	os.Stderr = w
	fn()
	require.NoError(t, w.Close())
	os.Stderr = orig

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String()
}

func TestSetThenGetRoundTrips(t *testing.T) {
	withMountDir(t)

	require.NoError(t, runSet("user/sw/app/color", "blue"))

	out := captureStdout(t, func() {
		require.NoError(t, runGet("user/sw/app/color"))
	})
	require.Equal(t, "blue\n", out)
}

func TestLsListsKeysUnderNamespace(t *testing.T) {
	withMountDir(t)

	require.NoError(t, runSet("spec/app/a", "1"))
	require.NoError(t, runSet("spec/app/b", "2"))

	out := captureStdout(t, func() {
		require.NoError(t, runLs("spec"))
	})
	require.Contains(t, out, "spec/app/a")
	require.Contains(t, out, "spec/app/b")
}

func TestMountListsNamespaces(t *testing.T) {
	withMountDir(t)

	out := captureStdout(t, func() {
		require.NoError(t, runMount())
	})
	require.Contains(t, out, "user\t")
	require.Contains(t, out, "spec\t")
}

func TestImportRoundTripsExport(t *testing.T) {
	withMountDir(t)

	require.NoError(t, runSet("spec/app/a", "1"))
	require.NoError(t, runSet("user/sw/app/color", "blue"))

	dump := captureStdout(t, func() {
		require.NoError(t, runExport())
	})

	// Importing into a second, empty mount directory must reproduce the
	// same exported lines.
	dumpFile := t.TempDir() + "/dump.txt"
	require.NoError(t, os.WriteFile(dumpFile, []byte(dump), 0o644))

	withMountDir(t)
	require.NoError(t, runImport(dumpFile))

	out := captureStdout(t, func() {
		require.NoError(t, runExport())
	})
	require.Contains(t, out, "spec/app/a=1")
	require.Contains(t, out, "user/sw/app/color=blue")
}

func TestRmRemovesKey(t *testing.T) {
	withMountDir(t)

	// spec is file-backed (tomlstore); proc is process-local memstore and
	// would never persist across the separate openHandle() calls each
	// runXxx makes, by design.
	require.NoError(t, runSet("spec/app/flag", "on"))
	require.NoError(t, runRm("spec/app/flag"))

	out := captureStderr(t, func() {
		require.NoError(t, runGet("spec/app/flag"))
	})
	require.Contains(t, out, "key not found")
}
