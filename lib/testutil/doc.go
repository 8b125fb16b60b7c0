// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Runway packages.
//
// [FakeBinary] writes a small executable shell stub into a directory.
// Tests that exercise binary resolution or exec argument handling use
// it instead of depending on real binaries being installed on the test
// machine.
//
// [RequireReceive] bounds a channel receive with a timeout, for tests
// that wait on process exits or background goroutines.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no Runway-internal dependencies.
package testutil
