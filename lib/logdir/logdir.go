// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

package logdir

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Ensure creates the log directory at path if it does not exist,
// creating parent segments as needed. Succeeds silently when the
// directory already exists. When path exists but is not a directory,
// the error says so explicitly rather than surfacing a bare EEXIST.
func Ensure(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("log path %s exists but is not a directory", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("checking log directory %s: %w", path, err)
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("creating log directory %s: %w", path, err)
	}
	return nil
}

// Rotate shifts the log file at path into numbered gzip archives:
// path.1.gz becomes path.2.gz and so on up to backups, the oldest
// archive is dropped, and the current file is compressed into
// path.1.gz and removed. A missing or empty current file is a no-op.
// With backups <= 0 rotation is disabled entirely.
func Rotate(path string, backups int) error {
	if backups <= 0 {
		return nil
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking log file %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil
	}

	// Drop the oldest archive, then shift the rest up by one.
	os.Remove(archiveName(path, backups))
	for index := backups - 1; index >= 1; index-- {
		from := archiveName(path, index)
		to := archiveName(path, index+1)
		if err := os.Rename(from, to); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("shifting log archive %s: %w", from, err)
		}
	}

	if err := compress(path, archiveName(path, 1)); err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing rotated log file %s: %w", path, err)
	}
	return nil
}

// archiveName returns the numbered archive path for a log file
// ("logs/access.log" → "logs/access.log.3.gz").
func archiveName(path string, index int) string {
	return fmt.Sprintf("%s.%d.gz", path, index)
}

// compress gzips source into destination. The destination is removed
// on any failure so a partial archive never shadows the real log.
func compress(source string, destination string) error {
	input, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", source, err)
	}
	defer input.Close()

	output, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating log archive %s: %w", destination, err)
	}

	writer := gzip.NewWriter(output)
	if _, err := io.Copy(writer, input); err != nil {
		writer.Close()
		output.Close()
		os.Remove(destination)
		return fmt.Errorf("compressing %s: %w", source, err)
	}
	if err := writer.Close(); err != nil {
		output.Close()
		os.Remove(destination)
		return fmt.Errorf("finalizing log archive %s: %w", destination, err)
	}
	if err := output.Close(); err != nil {
		os.Remove(destination)
		return fmt.Errorf("closing log archive %s: %w", destination, err)
	}
	return nil
}
