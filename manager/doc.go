// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

// Package manager models the configuration of the external WSGI
// process manager and builds its command line.
//
// The manager itself (worker forking, request handling, graceful
// reload) is an opaque external collaborator; Runway only decides how
// it is started. Settings describe the server socket, worker pool,
// logging, process identity, and request limits. A settings file can
// come from YAML, or the built-in defaults apply.
//
// Two launch modes exist:
//
//   - Passthrough: a native manager config file is handed over
//     verbatim via --config, and no settings are synthesized.
//   - Synthesized: Settings are translated into individual manager
//     command-line flags by ArgsBuilder.
//
// In both modes the application entry-point reference
// ("module:attribute") is the final positional argument.
package manager
