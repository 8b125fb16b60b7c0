// Copyright 2026 The Runway Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/runway-project/runway/lib/config"
	"github.com/runway-project/runway/lib/secret"
)

// applyEnvironment establishes the environment contract for the child
// process. Returns the names of the variables it set.
//
// The mode variable is assigned, not defaulted: a caller-supplied
// value is overridden so every launch runs the application in the
// configured mode. The secret variable gets the opposite treatment: a
// caller-supplied value always wins, then a secret file when given,
// then the configured placeholder.
func applyEnvironment(app *config.AppConfig, secretKeyFile string) ([]string, error) {
	var applied []string

	if err := os.Setenv(app.ModeVariable, app.Mode); err != nil {
		return nil, fmt.Errorf("setting %s: %w", app.ModeVariable, err)
	}
	applied = append(applied, app.ModeVariable)

	if _, present := os.LookupEnv(app.SecretVariable); !present {
		value := app.SecretPlaceholder
		if secretKeyFile != "" {
			buffer, err := secret.ReadFromPath(secretKeyFile)
			if err != nil {
				return nil, fmt.Errorf("reading secret key: %w", err)
			}
			// The value has to cross into the child's environment as
			// a plain string; the locked buffer only bounds how long
			// our own copy lives.
			value = buffer.String()
			buffer.Close()
		}
		if err := os.Setenv(app.SecretVariable, value); err != nil {
			return nil, fmt.Errorf("setting %s: %w", app.SecretVariable, err)
		}
		applied = append(applied, app.SecretVariable)
	}

	return applied, nil
}
