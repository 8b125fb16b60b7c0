// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding used for Runway state files.
//
// Encoding follows Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same logical record always produces identical bytes, which keeps
// state files diffable and makes "did anything change" comparisons a
// byte equality check.
//
// Decoding accepts standard CBOR and silently ignores unknown fields,
// so a newer launcher can read records written by an older one and
// vice versa.
package codec
