// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/runway-project/runway/lib/binhash"
	"github.com/runway-project/runway/lib/config"
	"github.com/runway-project/runway/lib/runfile"
)

// launchRecordName is the launch record file name inside the state
// directory.
const launchRecordName = "launch.cbor"

// launchRecordMaxAge bounds how old a previous launch record can be
// and still matter. PIDs are recycled, so probing one recorded far
// enough in the past says nothing about the deployment that wrote it;
// records past this age are cleared without probing.
const launchRecordMaxAge = 30 * 24 * time.Hour

// execFunction is replaced in tests; exec(2) cannot be observed from
// inside the process it replaces.
var execFunction = syscall.Exec

// resolveManager resolves the process manager binary to an absolute
// path and verifies it is executable. Failing here, before the status
// line and the exec attempt, gives a precise error instead of a bare
// ENOENT from the kernel.
func resolveManager(cfg *config.Config) (string, error) {
	binary, err := cfg.BinaryPath(cfg.App.ManagerBinary)
	if err != nil {
		return "", fmt.Errorf("process manager: %w", err)
	}

	info, err := os.Stat(binary)
	if err != nil {
		return "", fmt.Errorf("process manager: %w", err)
	}
	if info.Mode()&0111 == 0 {
		return "", fmt.Errorf("process manager %s is not executable", binary)
	}
	return binary, nil
}

// launch records the hand-off and replaces the current process image
// with the manager. On success this function never returns: the
// manager inherits our PID and our exit code is its exit code. The
// error return is only reachable when exec itself fails.
func launch(cfg *config.Config, binary string, args []string, logger *slog.Logger) error {
	recordPath := filepath.Join(cfg.Paths.State, launchRecordName)

	checkPreviousLaunch(recordPath, logger)

	// The digest is best-effort provenance, not a launch precondition.
	digest := ""
	if d, err := binhash.HashFile(binary); err == nil {
		digest = d.String()
	} else {
		logger.Warn("hashing manager binary", "binary", binary, "error", err)
	}

	record := runfile.Record{
		Component:     "runway-launch",
		ManagerBinary: binary,
		ManagerDigest: digest,
		App:           cfg.App.EntryPoint,
		LauncherPID:   os.Getpid(),
		Timestamp:     time.Now(),
	}
	if err := runfile.Write(recordPath, record); err != nil {
		// Same stance as the digest: provenance must not block the
		// launch.
		logger.Warn("writing launch record", "path", recordPath, "error", err)
	}

	logger.Info("handing off to process manager",
		"binary", binary,
		"digest", digest,
		"app", cfg.App.EntryPoint,
		"args", args,
	)

	argv := append([]string{binary}, args...)
	err := execFunction(binary, argv, os.Environ())

	// Only reached when exec failed. The process was NOT replaced, so
	// the record describes a launch that never happened.
	if clearErr := runfile.Clear(recordPath); clearErr != nil {
		logger.Error("clearing launch record after failed exec",
			"path", recordPath, "error", clearErr)
	}
	return fmt.Errorf("exec %s: %w", binary, err)
}

// checkPreviousLaunch inspects the launch record from a previous run.
// A recent record whose PID is still alive means a manager from an
// earlier deployment may still be running; that is worth a warning,
// but not a refusal. Dead and expired records are cleaned up silently.
func checkPreviousLaunch(recordPath string, logger *slog.Logger) {
	record, current, err := runfile.Check(recordPath, launchRecordMaxAge)
	if err != nil {
		logger.Warn("reading previous launch record", "path", recordPath, "error", err)
		return
	}
	if !current {
		// Missing, or old enough that the PID may name some unrelated
		// process by now. Clear is a no-op for a missing file.
		if err := runfile.Clear(recordPath); err != nil {
			logger.Warn("clearing expired launch record", "path", recordPath, "error", err)
		}
		return
	}

	if runfile.Alive(record.LauncherPID) {
		logger.Warn("previous launch may still be running",
			"pid", record.LauncherPID,
			"binary", record.ManagerBinary,
			"app", record.App,
			"launched_at", record.Timestamp,
		)
		return
	}

	if err := runfile.Clear(recordPath); err != nil {
		logger.Warn("clearing stale launch record", "path", recordPath, "error", err)
	}
}
