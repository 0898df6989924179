// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/zentra-tui/internal/companion"
)

// ProgramRenderer bridges the delivery client to a running Bubble Tea
// program. The program does not exist yet when the client is built, so the
// renderer starts detached and is attached once tea.NewProgram has run.
// Messages rendered before attachment are dropped; nothing is delivered
// before the program starts.
type ProgramRenderer struct {
	mu sync.Mutex
	p  *tea.Program
}

// Attach points the renderer at the running program.
func (r *ProgramRenderer) Attach(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *ProgramRenderer) send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// RenderMessage implements companion.Renderer.
func (r *ProgramRenderer) RenderMessage(sender companion.Sender, text string) {
	r.send(MessageRenderedMsg{Sender: sender, Text: text})
}

// SetTyping implements companion.Renderer.
func (r *ProgramRenderer) SetTyping(active bool) {
	r.send(TypingMsg{Active: active})
}
