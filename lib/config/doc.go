// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for Runway.
//
// Configuration is loaded from a single YAML file specified by:
//   - the RUNWAY_CONFIG environment variable, or
//   - the --config flag passed to the command.
//
// When neither is given, built-in defaults apply. The defaults are a
// complete, working configuration for the common deployment shape
// (gunicorn serving wsgi:application, logs in ./logs), so the launcher
// can be invoked with no arguments at all.
//
// The config file may contain environment-specific sections
// (development, staging, production) that override base values when
// the environment matches. Environment variables never override file
// values; the only expansion performed is ${VAR} and ${VAR:-default}
// in paths, for portability.
package config
