// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for Runway
// binaries. It centralizes the one legitimate raw I/O pattern that
// exists before the structured logger: fatal error reporting to stderr
// from main() when run() fails.
package process
