// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jeranaias/zentra-tui/internal/model"
	"github.com/jeranaias/zentra-tui/internal/util"
)

// ExportMarkdown writes a conversation as a readable transcript.
func (s *Store) ExportMarkdown(id, dest string) error {
	conv, err := s.Load(id)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", conv.Title)
	fmt.Fprintf(&b, "Started %s\n\n", conv.CreatedAt.Format("2006-01-02 15:04"))
	for _, m := range conv.Messages {
		switch m.Role {
		case model.RoleUser:
			b.WriteString("**You:**\n\n")
		case model.RoleCompanion:
			b.WriteString("**Cael:**\n\n")
		default:
			b.WriteString("*System:*\n\n")
		}
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}
	return util.AtomicWriteFile(dest, []byte(b.String()), 0o600)
}

// ExportJSON writes the raw conversation document.
func (s *Store) ExportJSON(id, dest string) error {
	conv, err := s.Load(id)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}
	return util.AtomicWriteFile(dest, data, 0o600)
}
