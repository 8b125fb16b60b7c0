// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

package manager

import (
	"fmt"
	"strconv"
)

// LaunchOptions holds the inputs for building a manager command line.
type LaunchOptions struct {
	// Settings is the resolved manager configuration. Required unless
	// NativeConfig is set.
	Settings *Settings

	// EntryPoint is the application reference ("module:attribute").
	// Always the final positional argument.
	EntryPoint string

	// NativeConfig is a manager-native configuration file. When set,
	// it is passed through via --config and Settings are not
	// synthesized into flags.
	NativeConfig string

	// ExtraArgs are appended verbatim before the entry point.
	ExtraArgs []string
}

// ArgsBuilder builds the process manager's command-line arguments.
type ArgsBuilder struct {
	args []string
}

// NewArgsBuilder creates a new builder.
func NewArgsBuilder() *ArgsBuilder {
	return &ArgsBuilder{args: []string{}}
}

// Build constructs the manager arguments from options. The returned
// slice does not include the binary itself (argv[0]).
func (b *ArgsBuilder) Build(opts *LaunchOptions) ([]string, error) {
	if opts.EntryPoint == "" {
		return nil, fmt.Errorf("entry point is required")
	}

	b.args = []string{}

	if opts.NativeConfig != "" {
		// Passthrough mode: the native file is authoritative, nothing
		// is synthesized alongside it.
		b.args = append(b.args, "--config", opts.NativeConfig)
	} else {
		if opts.Settings == nil {
			return nil, fmt.Errorf("settings are required without a native config file")
		}
		if err := opts.Settings.Validate(); err != nil {
			return nil, fmt.Errorf("manager settings: %w", err)
		}

		b.addServer(opts.Settings.Server)
		b.addWorkers(opts.Settings.Workers)
		b.addLogging(opts.Settings.Logging)
		b.addProcess(opts.Settings.Process)
		b.addLimits(opts.Settings.Limits)
		if opts.Settings.Preload {
			b.args = append(b.args, "--preload")
		}
	}

	b.args = append(b.args, opts.ExtraArgs...)
	b.args = append(b.args, opts.EntryPoint)

	return b.args, nil
}

func (b *ArgsBuilder) addServer(server ServerSettings) {
	b.args = append(b.args,
		"--bind", server.Bind(),
		"--backlog", strconv.Itoa(server.Backlog),
	)
}

func (b *ArgsBuilder) addWorkers(workers WorkerSettings) {
	b.args = append(b.args,
		"--workers", strconv.Itoa(workers.EffectiveCount()),
		"--worker-class", workers.Class,
		"--worker-connections", strconv.Itoa(workers.Connections),
		"--timeout", strconv.Itoa(workers.TimeoutSeconds),
		"--keep-alive", strconv.Itoa(workers.KeepaliveSeconds),
	)
	if workers.MaxRequests > 0 {
		b.args = append(b.args,
			"--max-requests", strconv.Itoa(workers.MaxRequests),
			"--max-requests-jitter", strconv.Itoa(workers.MaxRequestsJitter),
		)
	}
}

func (b *ArgsBuilder) addLogging(logging LoggingSettings) {
	if logging.AccessLog != "" {
		b.args = append(b.args, "--access-logfile", logging.AccessLog)
	}
	if logging.ErrorLog != "" {
		b.args = append(b.args, "--error-logfile", logging.ErrorLog)
	}
	if logging.Level != "" {
		b.args = append(b.args, "--log-level", logging.Level)
	}
	if logging.AccessFormat != "" {
		b.args = append(b.args, "--access-logformat", logging.AccessFormat)
	}
}

func (b *ArgsBuilder) addProcess(process ProcessSettings) {
	if process.Name != "" {
		b.args = append(b.args, "--name", process.Name)
	}
	if process.PIDFile != "" {
		b.args = append(b.args, "--pid", process.PIDFile)
	}
}

func (b *ArgsBuilder) addLimits(limits LimitSettings) {
	b.args = append(b.args,
		"--limit-request-line", strconv.Itoa(limits.RequestLine),
		"--limit-request-fields", strconv.Itoa(limits.RequestFields),
		"--limit-request-field_size", strconv.Itoa(limits.RequestFieldSize),
	)
}
