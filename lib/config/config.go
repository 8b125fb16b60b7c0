// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// EnvConfigPath is the environment variable naming the config file.
const EnvConfigPath = "RUNWAY_CONFIG"

// Config is the master configuration for Runway.
type Config struct {
	// Environment identifies the deployment type (development,
	// staging, production).
	Environment Environment `yaml:"environment"`

	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// App configures the launched application and its process manager.
	App AppConfig `yaml:"app"`

	// Per-environment overrides, applied after the base config is
	// loaded when the environment matches.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Paths *PathsConfig `yaml:"paths,omitempty"`
	App   *AppConfig   `yaml:"app,omitempty"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Root is the base directory for Runway data.
	Root string `yaml:"root"`

	// Bin is an optional directory of hermetic binaries. When set,
	// manager binary resolution looks here before falling back to
	// PATH, making deployments independent of the invoking user's
	// PATH.
	Bin string `yaml:"bin"`

	// Logs is the directory the process manager writes its logs
	// into. Relative paths are resolved against the working directory
	// of the launch, which is the deployment convention.
	Logs string `yaml:"logs"`

	// State is where launch records are stored.
	State string `yaml:"state"`
}

// AppConfig configures the launched application and its process manager.
type AppConfig struct {
	// ModeVariable is the environment variable naming the runtime
	// mode of the downstream application.
	ModeVariable string `yaml:"mode_variable"`

	// Mode is the value assigned to ModeVariable. The assignment is
	// unconditional: a caller-supplied value is overridden so every
	// launch runs the application in the configured mode.
	Mode string `yaml:"mode"`

	// SecretVariable is the environment variable carrying the
	// application secret key.
	SecretVariable string `yaml:"secret_variable"`

	// SecretPlaceholder is the value applied to SecretVariable only
	// when the caller has not set it. It is a deliberately obvious
	// placeholder, not a usable production secret.
	SecretPlaceholder string `yaml:"secret_placeholder"`

	// EntryPoint is the application entry-point reference handed to
	// the process manager, in "module:attribute" form.
	EntryPoint string `yaml:"entry_point"`

	// ManagerBinary is the name (or absolute path) of the process
	// manager binary.
	ManagerBinary string `yaml:"manager_binary"`

	// ManagerConfig is a native configuration file passed through to
	// the manager verbatim (--config). When set, Runway does not
	// synthesize manager settings.
	ManagerConfig string `yaml:"manager_config"`

	// SettingsFile is a Runway manager-settings YAML file (see the
	// manager package). Used to synthesize the manager command line
	// when ManagerConfig is empty.
	SettingsFile string `yaml:"settings_file"`

	// LogBackups bounds how many rotated log archives are kept per
	// log file. Zero disables startup log rotation.
	LogBackups int `yaml:"log_backups"`
}

// Default returns the default configuration. The defaults are a
// complete working configuration reproducing the conventional
// deployment: gunicorn, wsgi:application, ./logs, production mode.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".cache", "runway")

	return &Config{
		Environment: Production,
		Paths: PathsConfig{
			Root:  defaultRoot,
			Bin:   "",
			Logs:  "logs",
			State: filepath.Join(defaultRoot, "state"),
		},
		App: AppConfig{
			ModeVariable:      "FLASK_ENV",
			Mode:              "production",
			SecretVariable:    "SECRET_KEY",
			SecretPlaceholder: "your-production-secret-key-change-this",
			EntryPoint:        "wsgi:application",
			ManagerBinary:     "gunicorn",
			ManagerConfig:     "",
			SettingsFile:      "",
			LogBackups:        10,
		},
	}
}

// Load loads configuration from the file named by RUNWAY_CONFIG. When
// the variable is not set, the built-in defaults are returned: the
// launcher is designed to be invocable with no configuration at all.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvConfigPath)
	if configPath == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. The file is
// merged over the defaults, then environment-section overrides are
// applied, then ${VAR} expansion runs on paths.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// applyEnvironmentOverrides applies the section matching the
// configured environment. String fields override when non-empty;
// LogBackups overrides when positive.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.Paths != nil {
		if overrides.Paths.Root != "" {
			c.Paths.Root = overrides.Paths.Root
		}
		if overrides.Paths.Bin != "" {
			c.Paths.Bin = overrides.Paths.Bin
		}
		if overrides.Paths.Logs != "" {
			c.Paths.Logs = overrides.Paths.Logs
		}
		if overrides.Paths.State != "" {
			c.Paths.State = overrides.Paths.State
		}
	}

	if overrides.App != nil {
		if overrides.App.ModeVariable != "" {
			c.App.ModeVariable = overrides.App.ModeVariable
		}
		if overrides.App.Mode != "" {
			c.App.Mode = overrides.App.Mode
		}
		if overrides.App.SecretVariable != "" {
			c.App.SecretVariable = overrides.App.SecretVariable
		}
		if overrides.App.SecretPlaceholder != "" {
			c.App.SecretPlaceholder = overrides.App.SecretPlaceholder
		}
		if overrides.App.EntryPoint != "" {
			c.App.EntryPoint = overrides.App.EntryPoint
		}
		if overrides.App.ManagerBinary != "" {
			c.App.ManagerBinary = overrides.App.ManagerBinary
		}
		if overrides.App.ManagerConfig != "" {
			c.App.ManagerConfig = overrides.App.ManagerConfig
		}
		if overrides.App.SettingsFile != "" {
			c.App.SettingsFile = overrides.App.SettingsFile
		}
		if overrides.App.LogBackups > 0 {
			c.App.LogBackups = overrides.App.LogBackups
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"RUNWAY_ROOT": c.Paths.Root,
		"HOME":        os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["RUNWAY_ROOT"] = c.Paths.Root // Update for dependent paths.

	c.Paths.Bin = expandVars(c.Paths.Bin, vars)
	c.Paths.Logs = expandVars(c.Paths.Logs, vars)
	c.Paths.State = expandVars(c.Paths.State, vars)
	c.App.ManagerConfig = expandVars(c.App.ManagerConfig, vars)
	c.App.SettingsFile = expandVars(c.App.SettingsFile, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// environmentVariableName matches valid environment variable names.
var environmentVariableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// entryPointPattern matches "module:attribute" references, with dotted
// module paths allowed ("project.wsgi:application").
var entryPointPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*:[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Paths.Logs == "" {
		errs = append(errs, fmt.Errorf("paths.logs is required"))
	}
	if c.Paths.State == "" {
		errs = append(errs, fmt.Errorf("paths.state is required"))
	}

	if !environmentVariableName.MatchString(c.App.ModeVariable) {
		errs = append(errs, fmt.Errorf("app.mode_variable %q is not a valid environment variable name", c.App.ModeVariable))
	}
	if c.App.Mode == "" {
		errs = append(errs, fmt.Errorf("app.mode is required"))
	}
	if !environmentVariableName.MatchString(c.App.SecretVariable) {
		errs = append(errs, fmt.Errorf("app.secret_variable %q is not a valid environment variable name", c.App.SecretVariable))
	}
	if !entryPointPattern.MatchString(c.App.EntryPoint) {
		errs = append(errs, fmt.Errorf("app.entry_point %q is not a module:attribute reference", c.App.EntryPoint))
	}
	if c.App.ManagerBinary == "" {
		errs = append(errs, fmt.Errorf("app.manager_binary is required"))
	}
	if c.App.LogBackups < 0 {
		errs = append(errs, fmt.Errorf("app.log_backups must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates the root, bin, and state directories if they do
// not exist. The log directory is deliberately not created here; the
// launcher prepares it through the logdir package, which also rotates
// leftover logs.
func (c *Config) EnsurePaths() error {
	paths := []string{
		c.Paths.Root,
		c.Paths.Bin,
		c.Paths.State,
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}

	return nil
}

// BinaryPath resolves the full path to a binary. Absolute paths are
// validated as-is. Otherwise Paths.Bin is consulted first, then PATH.
// This gives hermetic resolution when Bin is configured.
func (c *Config) BinaryPath(name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		return name, nil
	}

	if c.Paths.Bin != "" {
		binPath := filepath.Join(c.Paths.Bin, name)
		if _, err := os.Stat(binPath); err == nil {
			return binPath, nil
		}
	}

	path, err := exec.LookPath(name)
	if err != nil {
		if c.Paths.Bin != "" {
			return "", fmt.Errorf("%s not found in %s or PATH", name, c.Paths.Bin)
		}
		return "", fmt.Errorf("%s not found in PATH", name)
	}
	return path, nil
}
