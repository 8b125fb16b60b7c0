// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for Runway
// binaries. Values are injected at build time via -ldflags:
//
//	go build -ldflags "-X github.com/runway-project/runway/lib/version.GitCommit=$(git rev-parse --short HEAD)"
package version
