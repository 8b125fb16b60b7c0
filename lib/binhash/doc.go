// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash computes content digests of executable files. The
// launcher records the digest of the process manager binary before
// handing control to it, so operators can later tell exactly which
// build of the manager a long-running deployment was started with.
//
// Digests are BLAKE3-256, hex encoded. BLAKE3 is used rather than
// SHA-256 because manager binaries can be large and the digest is
// computed on the launch path, where startup latency is visible.
package binhash
