// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := Default().Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := make(chan *Config, 4)
	w, err := Watch(path, func(cfg *Config) { loaded <- cfg })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	cfg := Default()
	cfg.Language.Code = "nl"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	select {
	case got := <-loaded:
		if got.Language.Code != "nl" {
			t.Errorf("reloaded language = %q, want nl", got.Language.Code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after config change")
	}
}

func TestWatchSkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := Default().Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := make(chan *Config, 4)
	w, err := Watch(path, func(cfg *Config) { loaded <- cfg })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("not toml {{{"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-loaded:
		t.Errorf("invalid config delivered: %+v", got)
	case <-time.After(time.Second):
		// Reload was skipped, as it should be.
	}
}
