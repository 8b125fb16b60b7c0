// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

package runfile

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/runway-project/runway/lib/codec"
)

// Record captures one launch: what binary was exec'd, for which
// application, by which process, and when.
type Record struct {
	// Component identifies the launching tool (e.g. "runway-launch").
	// Used for logging and diagnostics.
	Component string `cbor:"component"`

	// ManagerBinary is the absolute path of the process manager binary
	// that was exec'd.
	ManagerBinary string `cbor:"manager_binary"`

	// ManagerDigest is the hex BLAKE3 digest of ManagerBinary at
	// launch time. Empty when hashing failed (hashing is best-effort
	// provenance, not a launch precondition).
	ManagerDigest string `cbor:"manager_digest,omitempty"`

	// App is the application entry-point reference handed to the
	// manager ("module:attribute").
	App string `cbor:"app"`

	// LauncherPID is the PID of the launcher at the time of exec().
	// After a successful exec this is the manager's PID: exec replaces
	// the process image but keeps the PID.
	LauncherPID int `cbor:"launcher_pid"`

	// Timestamp is when the launch was initiated.
	Timestamp time.Time `cbor:"timestamp"`
}

// Write atomically writes a launch record. The record is written to a
// temporary file in the same directory, fsynced, and renamed into
// place, so readers never see a partial write. The file is created
// with mode 0600; the parent directory must already exist.
func Write(path string, record Record) error {
	data, err := codec.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling launch record: %w", err)
	}

	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating temporary launch record: %w", err)
	}

	// Write, sync, close, in that order. On any failure, remove the
	// temporary file and report the first error.
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary launch record: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary launch record: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary launch record: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming launch record into place: %w", err)
	}

	// Sync the parent directory so the rename survives power loss
	// between the rename and the OS flushing directory metadata.
	parentDirectory, err := os.Open(filepath.Dir(path))
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}

	return nil
}

// Read reads and parses a launch record. When the file does not exist,
// the returned error satisfies errors.Is(err, os.ErrNotExist).
func Read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}

	var record Record
	if err := codec.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("parsing launch record %s: %w", path, err)
	}
	return record, nil
}

// Check reads a launch record and verifies it was written recently
// enough to be relevant. Returns the record and true when the file
// exists and its Timestamp is within maxAge of now. Returns a zero
// Record and false when the file does not exist or is older than
// maxAge.
//
// Any other error (permission denied, corrupt data) is returned as-is
// so the caller can distinguish "no record" from "record exists but
// unreadable".
func Check(path string, maxAge time.Duration) (Record, bool, error) {
	record, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}

	if time.Since(record.Timestamp) > maxAge {
		return Record{}, false, nil
	}

	return record, true, nil
}

// Alive reports whether a process with the given PID exists. It probes
// with signal 0, which performs permission and existence checks without
// delivering a signal. EPERM counts as alive: the process exists, we
// just cannot signal it.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	// os.FindProcess on Unix always succeeds; the probe is the signal.
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return err == syscall.EPERM
}

// Clear removes a launch record. Idempotent: returns nil when the file
// does not exist.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing launch record: %w", err)
	}
	return nil
}
