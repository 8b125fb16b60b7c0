// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/runway-project/runway/lib/config"
)

func TestApplyEnvironment_ModeIsAssignedUnconditionally(t *testing.T) {
	app := config.Default().App
	t.Setenv(app.ModeVariable, "development")

	applied, err := applyEnvironment(&app, "")
	if err != nil {
		t.Fatalf("applyEnvironment: %v", err)
	}

	if got := os.Getenv(app.ModeVariable); got != "production" {
		t.Errorf("%s = %q, want caller value overridden with production", app.ModeVariable, got)
	}
	if !slices.Contains(applied, app.ModeVariable) {
		t.Errorf("applied = %v, want it to include %s", applied, app.ModeVariable)
	}
}

func TestApplyEnvironment_SecretDefaultsWhenUnset(t *testing.T) {
	app := config.Default().App
	t.Setenv(app.SecretVariable, "placeholder-for-cleanup")
	os.Unsetenv(app.SecretVariable)

	applied, err := applyEnvironment(&app, "")
	if err != nil {
		t.Fatalf("applyEnvironment: %v", err)
	}

	if got := os.Getenv(app.SecretVariable); got != app.SecretPlaceholder {
		t.Errorf("%s = %q, want the placeholder", app.SecretVariable, got)
	}
	if !slices.Contains(applied, app.SecretVariable) {
		t.Errorf("applied = %v, want it to include %s", applied, app.SecretVariable)
	}
}

func TestApplyEnvironment_SecretFromCallerWins(t *testing.T) {
	app := config.Default().App
	t.Setenv(app.SecretVariable, "caller-chosen-key")

	applied, err := applyEnvironment(&app, "")
	if err != nil {
		t.Fatalf("applyEnvironment: %v", err)
	}

	if got := os.Getenv(app.SecretVariable); got != "caller-chosen-key" {
		t.Errorf("%s = %q, want caller value untouched", app.SecretVariable, got)
	}
	if slices.Contains(applied, app.SecretVariable) {
		t.Errorf("applied = %v, must not include a variable the caller set", applied)
	}
}

func TestApplyEnvironment_SecretFromFile(t *testing.T) {
	app := config.Default().App
	t.Setenv(app.SecretVariable, "placeholder-for-cleanup")
	os.Unsetenv(app.SecretVariable)

	secretPath := filepath.Join(t.TempDir(), "secret-key")
	if err := os.WriteFile(secretPath, []byte("file-sourced-key\n"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := applyEnvironment(&app, secretPath); err != nil {
		t.Fatalf("applyEnvironment: %v", err)
	}

	if got := os.Getenv(app.SecretVariable); got != "file-sourced-key" {
		t.Errorf("%s = %q, want trimmed file content", app.SecretVariable, got)
	}
}

func TestApplyEnvironment_SecretFileBeatenByCaller(t *testing.T) {
	app := config.Default().App
	t.Setenv(app.SecretVariable, "caller-chosen-key")

	secretPath := filepath.Join(t.TempDir(), "secret-key")
	if err := os.WriteFile(secretPath, []byte("file-sourced-key"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := applyEnvironment(&app, secretPath); err != nil {
		t.Fatalf("applyEnvironment: %v", err)
	}

	if got := os.Getenv(app.SecretVariable); got != "caller-chosen-key" {
		t.Errorf("%s = %q, want caller value to win over the file", app.SecretVariable, got)
	}
}

func TestApplyEnvironment_MissingSecretFileIsFatal(t *testing.T) {
	app := config.Default().App
	t.Setenv(app.SecretVariable, "placeholder-for-cleanup")
	os.Unsetenv(app.SecretVariable)

	missing := filepath.Join(t.TempDir(), "absent")
	if _, err := applyEnvironment(&app, missing); err == nil {
		t.Fatal("applyEnvironment should fail for a missing secret file")
	}
}

func TestApplyEnvironment_Idempotent(t *testing.T) {
	app := config.Default().App
	t.Setenv(app.SecretVariable, "placeholder-for-cleanup")
	os.Unsetenv(app.SecretVariable)

	if _, err := applyEnvironment(&app, ""); err != nil {
		t.Fatalf("first applyEnvironment: %v", err)
	}
	firstMode := os.Getenv(app.ModeVariable)
	firstSecret := os.Getenv(app.SecretVariable)

	applied, err := applyEnvironment(&app, "")
	if err != nil {
		t.Fatalf("second applyEnvironment: %v", err)
	}

	if os.Getenv(app.ModeVariable) != firstMode {
		t.Error("mode changed between runs")
	}
	if os.Getenv(app.SecretVariable) != firstSecret {
		t.Error("secret changed between runs")
	}
	// The second run sees the secret already set (by the first run),
	// so it only re-applies the mode.
	if slices.Contains(applied, app.SecretVariable) {
		t.Errorf("applied = %v, second run should not touch the secret", applied)
	}
}
