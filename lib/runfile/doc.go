// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

// Package runfile provides the atomic launch-record file written by the
// launcher immediately before it replaces itself with the process
// manager.
//
// Because exec() replaces the process image without changing the PID,
// the launcher PID stored in the record is the process manager's PID
// after a successful launch. A later launcher run can therefore read
// the record and probe that PID to tell whether a previous deployment
// is still running.
//
// The record is written atomically (temporary file, fsync, rename) so
// readers never see a partial write, and encoded with the deterministic
// CBOR codec used for all Runway state files.
package runfile
