// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// FakeBinary writes an executable shell stub named name into directory
// and returns its absolute path. The stub exits successfully without
// doing anything; it exists so that stat and executable-bit checks on
// a "binary" pass during tests.
func FakeBinary(t *testing.T, directory string, name string) string {
	t.Helper()

	path := filepath.Join(directory, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatalf("writing fake binary %s: %v", path, err)
	}
	return path
}

// NonExecutable writes a plain (mode 0644) file named name into
// directory and returns its absolute path. Use it to test the rejection
// of binaries that exist but lack the executable bit.
func NonExecutable(t *testing.T, directory string, name string) string {
	t.Helper()

	path := filepath.Join(directory, name)
	if err := os.WriteFile(path, []byte("not a program\n"), 0644); err != nil {
		t.Fatalf("writing non-executable file %s: %v", path, err)
	}
	return path
}
