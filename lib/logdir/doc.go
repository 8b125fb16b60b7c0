// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

// Package logdir prepares the log directory the process manager writes
// into. The launcher guarantees the directory exists before the
// manager starts, and shifts logs left over from a previous run into
// numbered gzip archives so a fresh deployment starts with empty log
// files while keeping a bounded history.
package logdir
