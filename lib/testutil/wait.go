// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"testing"
	"time"
)

// RequireReceive waits up to timeout for a value on channel and
// returns it, failing the test if nothing arrives. Tests that wait on
// process exits or background goroutines use it so a hang fails with a
// named wait instead of tripping the whole test binary's deadline.
func RequireReceive[T any](t *testing.T, channel <-chan T, timeout time.Duration, what string) T {
	t.Helper()

	select {
	case value := <-channel:
		return value
	case <-time.After(timeout):
		t.Fatalf("timed out after %v waiting for %s", timeout, what)
		return *new(T) // not reached; Fatalf stops the test
	}
}
