// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than limit", "hello", 10, "hello"},
		{"exact limit", "hello", 5, "hello"},
		{"truncated", "hello world", 8, "hello..."},
		{"unicode safe", "héllo wörld", 8, "héllo..."},
		{"tiny limit", "hello", 2, "he"},
		{"zero limit", "hello", 0, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateRunes(tc.input, tc.maxLen)
			if got != tc.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, expected %q", tc.input, tc.maxLen, got, tc.want)
			}
		})
	}
}

func TestWrapText(t *testing.T) {
	got := WrapText("the quick brown fox jumps", 10)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 10 {
			t.Errorf("line %q exceeds wrap width", line)
		}
	}
	if !strings.Contains(got, "the quick") {
		t.Errorf("unexpected wrap result: %q", got)
	}

	// Long unbroken word must be hard-split, not overflow.
	long := WrapText("abcdefghijklmnop", 5)
	for _, line := range strings.Split(long, "\n") {
		if len(line) > 5 {
			t.Errorf("hard-split line %q exceeds wrap width", line)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight = %q, expected %q", got, "ab   ")
	}
	if got := PadRight("abcdef", 5); got != "abcdef" {
		t.Errorf("PadRight should not truncate, got %q", got)
	}
}

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "file.json")

	if err := AtomicWriteFile(path, []byte("first"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("content = %q, expected %q", data, "first")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("permissions = %o, expected 0600", info.Mode().Perm())
	}

	// Overwrite must replace, not append.
	if err := AtomicWriteFile(path, []byte("second"), 0600); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("content after overwrite = %q, expected %q", data, "second")
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}
