// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// DigestSize is the length in bytes of a binary digest.
const DigestSize = 32

// Digest is a BLAKE3-256 digest of a file's contents.
type Digest [DigestSize]byte

// HashFile computes the BLAKE3 digest of the file at path. The file is
// streamed through the hash function (via io.Copy) so memory usage is
// constant regardless of file size.
func HashFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}

	var digest Digest
	hasher.Sum(digest[:0])
	return digest, nil
}

// String returns the hex encoding of the digest. This is the canonical
// format used in launch records and log output.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Parse parses a hex-encoded digest string. Returns an error if the
// string is not a valid 64-character hex encoding of 32 bytes.
func Parse(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing binary digest: %w", err)
	}
	if len(decoded) != DigestSize {
		return digest, fmt.Errorf("binary digest is %d bytes, want %d", len(decoded), DigestSize)
	}
	copy(digest[:], decoded)
	return digest, nil
}
