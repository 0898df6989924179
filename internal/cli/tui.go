// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/zentra-tui/internal/config"
	"github.com/jeranaias/zentra-tui/internal/model"
	"github.com/jeranaias/zentra-tui/internal/ui/chat"
)

// runTUI opens the full-screen chat.
func (a *app) runTUI() error {
	renderer := &chat.ProgramRenderer{}
	client, err := a.newClient(renderer)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}

	m := chat.New(a.cfg, client, a.sess, store, model.NewConversation())
	p := tea.NewProgram(m, tea.WithAltScreen())
	renderer.Attach(p)

	// Reload settings edited from another terminal while the chat runs.
	// No watcher is not fatal; the session just won't pick up edits.
	if w, err := config.Watch(configPathOrDefault(a.opts.ConfigPath), func(cfg *config.Config) {
		p.Send(chat.ConfigReloadedMsg{Cfg: cfg})
	}); err == nil {
		defer w.Close()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface failed: %w", err)
	}
	return nil
}
