// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/runway-project/runway/lib/testutil"
)

// writeLaunchConfig writes a minimal runway config into its own temp
// directory and returns the config path plus a fake manager binary
// living next to it.
func writeLaunchConfig(t *testing.T) (configPath string, binaryPath string) {
	t.Helper()

	base := t.TempDir()
	binaryPath = testutil.FakeBinary(t, base, "gunicorn")

	configPath = filepath.Join(base, "runway.yaml")
	content := fmt.Sprintf(`
paths:
  root: %[1]s
  state: %[1]s/state
  logs: %[1]s/logs
app:
  entry_point: "configured.wsgi:app"
  manager_binary: %[2]s
`, base, binaryPath)
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return configPath, binaryPath
}

func TestResolveLaunchRejectsSettingsWithNativeConfig(t *testing.T) {
	_, err := resolveLaunch(&cliOptions{
		settingsPath:     "manager.yaml",
		nativeConfigPath: "gunicorn.conf.py",
	})
	if err == nil {
		t.Fatal("resolveLaunch should reject --settings together with --manager-config")
	}
	if !strings.Contains(err.Error(), "mutually exclusive") {
		t.Errorf("error %q does not explain the exclusion", err)
	}
}

func TestResolveLaunchFlagOverridesConfig(t *testing.T) {
	configPath, _ := writeLaunchConfig(t)
	override := testutil.FakeBinary(t, t.TempDir(), "uwsgi")

	plan, err := resolveLaunch(&cliOptions{
		configPath:    configPath,
		entryPoint:    "override.wsgi:app",
		managerBinary: override,
	})
	if err != nil {
		t.Fatalf("resolveLaunch: %v", err)
	}

	if plan.cfg.App.EntryPoint != "override.wsgi:app" {
		t.Errorf("entry point = %q, want the flag to win over the file", plan.cfg.App.EntryPoint)
	}
	if plan.binary != override {
		t.Errorf("binary = %q, want the flag override %q", plan.binary, override)
	}
	if plan.args[len(plan.args)-1] != "override.wsgi:app" {
		t.Errorf("last argument = %q, want the overridden entry point", plan.args[len(plan.args)-1])
	}
}

func TestResolveLaunchNativeConfigPassthrough(t *testing.T) {
	configPath, _ := writeLaunchConfig(t)

	plan, err := resolveLaunch(&cliOptions{
		configPath:       configPath,
		nativeConfigPath: "gunicorn.conf.py",
	})
	if err != nil {
		t.Fatalf("resolveLaunch: %v", err)
	}

	want := []string{"--config", "gunicorn.conf.py", "configured.wsgi:app"}
	if !slices.Equal(plan.args, want) {
		t.Errorf("args = %v, want %v", plan.args, want)
	}
}

func TestResolveLaunchSettingsFile(t *testing.T) {
	configPath, _ := writeLaunchConfig(t)

	settingsPath := filepath.Join(t.TempDir(), "manager.yaml")
	content := `
server:
  port: "9100"
`
	if err := os.WriteFile(settingsPath, []byte(content), 0644); err != nil {
		t.Fatalf("writing settings: %v", err)
	}

	plan, err := resolveLaunch(&cliOptions{
		configPath:   configPath,
		settingsPath: settingsPath,
	})
	if err != nil {
		t.Fatalf("resolveLaunch: %v", err)
	}

	index := slices.Index(plan.args, "--bind")
	if index < 0 || index+1 >= len(plan.args) {
		t.Fatal("args missing --bind value")
	}
	if plan.args[index+1] != "0.0.0.0:9100" {
		t.Errorf("--bind = %q, want the settings file port", plan.args[index+1])
	}
	if slices.Contains(plan.args, "--config") {
		t.Error("synthesized mode must not pass --config")
	}
}

func TestResolveLaunchRejectsInvalidOverride(t *testing.T) {
	configPath, _ := writeLaunchConfig(t)

	if _, err := resolveLaunch(&cliOptions{
		configPath: configPath,
		entryPoint: "no-colon",
	}); err == nil {
		t.Fatal("resolveLaunch should reject an invalid entry-point override")
	}
}

func TestResolveLaunchMissingManagerBinary(t *testing.T) {
	configPath, binary := writeLaunchConfig(t)
	if err := os.Remove(binary); err != nil {
		t.Fatalf("removing fake binary: %v", err)
	}

	if _, err := resolveLaunch(&cliOptions{configPath: configPath}); err == nil {
		t.Fatal("resolveLaunch should fail when the manager binary is absent")
	}
}

func TestLaunchPlanDescribe(t *testing.T) {
	plan := &launchPlan{
		binary: "/usr/bin/gunicorn",
		args:   []string{"--config", "gunicorn.conf.py", "wsgi:application"},
	}

	report := plan.describe([]string{"FLASK_ENV", "SECRET_KEY"})

	if !strings.Contains(report, "would exec: /usr/bin/gunicorn") {
		t.Errorf("report %q does not name the binary", report)
	}
	if !strings.Contains(report, "gunicorn.conf.py") {
		t.Errorf("report %q does not show the arguments", report)
	}
	if !strings.Contains(report, "FLASK_ENV") || !strings.Contains(report, "SECRET_KEY") {
		t.Errorf("report %q does not list the applied variables", report)
	}
}
