// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/zentra-tui/internal/config"
	"github.com/jeranaias/zentra-tui/internal/util"
	"github.com/jeranaias/zentra-tui/internal/validate"
)

// identityPath is where the signed-in user ID is stored.
func identityPath() string {
	return filepath.Join(config.Dir(), "identity")
}

// loadIdentity returns the current user ID: ZENTRA_USER_ID first, then the
// identity file. Empty when nobody is signed in.
func loadIdentity() string {
	if id := os.Getenv("ZENTRA_USER_ID"); id != "" {
		return id
	}
	data, err := os.ReadFile(identityPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// saveIdentity validates and stores a user ID.
func saveIdentity(id string) error {
	if err := validate.UserID(id); err != nil {
		return err
	}
	if err := os.MkdirAll(config.Dir(), 0o700); err != nil {
		return fmt.Errorf("create zentra dir: %w", err)
	}
	return util.AtomicWriteFile(identityPath(), []byte(id+"\n"), 0o600)
}

// clearIdentity forgets the stored user ID. Missing is fine.
func clearIdentity() error {
	err := os.Remove(identityPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
