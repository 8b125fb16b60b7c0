// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

package manager

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Settings defines how the process manager is configured.
type Settings struct {
	Server  ServerSettings  `yaml:"server"`
	Workers WorkerSettings  `yaml:"workers"`
	Logging LoggingSettings `yaml:"logging"`
	Process ProcessSettings `yaml:"process"`
	Limits  LimitSettings   `yaml:"limits"`

	// Preload loads application code before worker processes are
	// forked, so workers share the parent's memory pages.
	Preload bool `yaml:"preload"`
}

// ServerSettings configures the listening socket.
type ServerSettings struct {
	// Host is the interface to bind.
	Host string `yaml:"host"`

	// Port is the listening port. When empty, the PORT environment
	// variable is consulted, falling back to DefaultPort. This keeps
	// platform-injected ports working without any configuration.
	Port string `yaml:"port"`

	// Backlog is the pending-connection queue size.
	Backlog int `yaml:"backlog"`
}

// DefaultPort is the listening port used when neither the settings
// file nor the PORT environment variable specifies one.
const DefaultPort = "4900"

// Bind returns the "host:port" bind address, resolving the port
// against the PORT environment variable when unset.
func (s ServerSettings) Bind() string {
	port := s.Port
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = DefaultPort
	}
	return fmt.Sprintf("%s:%s", s.Host, port)
}

// WorkerSettings configures the manager's worker pool.
type WorkerSettings struct {
	// Count is the number of worker processes. Zero means automatic:
	// 2*CPUs+1, capped at MaxAutoWorkers.
	Count int `yaml:"count"`

	// Class is the worker type (sync, gthread, gevent, ...).
	Class string `yaml:"class"`

	// Connections is the worker connection limit.
	Connections int `yaml:"connections"`

	// TimeoutSeconds kills and restarts silent workers.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// KeepaliveSeconds is how long to hold keep-alive connections.
	KeepaliveSeconds int `yaml:"keepalive_seconds"`

	// MaxRequests restarts a worker after serving this many requests,
	// bounding the damage of slow memory leaks. Zero disables.
	MaxRequests int `yaml:"max_requests"`

	// MaxRequestsJitter randomizes MaxRequests per worker so the pool
	// does not restart in lockstep.
	MaxRequestsJitter int `yaml:"max_requests_jitter"`
}

// MaxAutoWorkers caps the automatic worker count. Beyond this the
// application is typically bottlenecked elsewhere, and more workers
// just multiply memory usage.
const MaxAutoWorkers = 8

// AutoWorkerCount returns the automatic worker count for a machine
// with the given number of CPUs: 2*cpus+1, capped at MaxAutoWorkers.
func AutoWorkerCount(cpus int) int {
	count := 2*cpus + 1
	if count > MaxAutoWorkers {
		return MaxAutoWorkers
	}
	return count
}

// EffectiveCount returns the configured worker count, or the automatic
// count for this machine when the configured count is zero.
func (w WorkerSettings) EffectiveCount() int {
	if w.Count > 0 {
		return w.Count
	}
	return AutoWorkerCount(runtime.NumCPU())
}

// LoggingSettings configures the manager's log output.
type LoggingSettings struct {
	// AccessLog is the access log path. "-" means stdout.
	AccessLog string `yaml:"access_log"`

	// ErrorLog is the error log path. "-" means stderr.
	ErrorLog string `yaml:"error_log"`

	// Level is the error log verbosity.
	Level string `yaml:"level"`

	// AccessFormat is the access log line format, in the manager's
	// own placeholder syntax and passed through verbatim.
	AccessFormat string `yaml:"access_format"`
}

// ProcessSettings configures the manager's process identity.
type ProcessSettings struct {
	// Name is the process title shown in process listings.
	Name string `yaml:"name"`

	// PIDFile is where the manager writes its master PID.
	PIDFile string `yaml:"pid_file"`
}

// LimitSettings bounds request parsing, guarding against oversized
// request lines and header floods.
type LimitSettings struct {
	RequestLine      int `yaml:"request_line"`
	RequestFields    int `yaml:"request_fields"`
	RequestFieldSize int `yaml:"request_field_size"`
}

// DefaultSettings returns the production defaults.
func DefaultSettings() *Settings {
	return &Settings{
		Server: ServerSettings{
			Host:    "0.0.0.0",
			Port:    "",
			Backlog: 2048,
		},
		Workers: WorkerSettings{
			Count:             0,
			Class:             "sync",
			Connections:       1000,
			TimeoutSeconds:    120,
			KeepaliveSeconds:  2,
			MaxRequests:       1000,
			MaxRequestsJitter: 100,
		},
		Logging: LoggingSettings{
			AccessLog:    "logs/access.log",
			ErrorLog:     "logs/error.log",
			Level:        "info",
			AccessFormat: `%(h)s %(l)s %(u)s %(t)s "%(r)s" %(s)s %(b)s "%(f)s" "%(a)s" %(D)s`,
		},
		Process: ProcessSettings{
			Name:    "runway-app",
			PIDFile: "/tmp/runway.pid",
		},
		Limits: LimitSettings{
			RequestLine:      4094,
			RequestFields:    100,
			RequestFieldSize: 8190,
		},
		Preload: true,
	}
}

// Load reads a settings file, merging it over the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing manager settings %s: %w", path, err)
	}
	return settings, nil
}

// workerClasses are the worker types the manager accepts.
var workerClasses = map[string]bool{
	"sync":     true,
	"gthread":  true,
	"gevent":   true,
	"eventlet": true,
	"tornado":  true,
}

// logLevels are the error log verbosities the manager accepts.
var logLevels = map[string]bool{
	"debug":    true,
	"info":     true,
	"warning":  true,
	"error":    true,
	"critical": true,
}

// Validate checks the settings for errors.
func (s *Settings) Validate() error {
	var errs []error

	if s.Server.Host == "" {
		errs = append(errs, fmt.Errorf("server.host is required"))
	}
	if s.Server.Backlog <= 0 {
		errs = append(errs, fmt.Errorf("server.backlog must be positive"))
	}

	if s.Workers.Count < 0 {
		errs = append(errs, fmt.Errorf("workers.count must not be negative"))
	}
	if !workerClasses[s.Workers.Class] {
		errs = append(errs, fmt.Errorf("workers.class %q is not a known worker class", s.Workers.Class))
	}
	if s.Workers.Connections <= 0 {
		errs = append(errs, fmt.Errorf("workers.connections must be positive"))
	}
	if s.Workers.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("workers.timeout_seconds must be positive"))
	}
	if s.Workers.KeepaliveSeconds < 0 {
		errs = append(errs, fmt.Errorf("workers.keepalive_seconds must not be negative"))
	}
	if s.Workers.MaxRequests < 0 {
		errs = append(errs, fmt.Errorf("workers.max_requests must not be negative"))
	}
	if s.Workers.MaxRequestsJitter < 0 {
		errs = append(errs, fmt.Errorf("workers.max_requests_jitter must not be negative"))
	}

	if !logLevels[s.Logging.Level] {
		errs = append(errs, fmt.Errorf("logging.level %q is not a known log level", s.Logging.Level))
	}

	if s.Limits.RequestLine <= 0 {
		errs = append(errs, fmt.Errorf("limits.request_line must be positive"))
	}
	if s.Limits.RequestFields <= 0 {
		errs = append(errs, fmt.Errorf("limits.request_fields must be positive"))
	}
	if s.Limits.RequestFieldSize <= 0 {
		errs = append(errs, fmt.Errorf("limits.request_field_size must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
