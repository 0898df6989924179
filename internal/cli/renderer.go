// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/zentra-tui/internal/companion"
	"github.com/jeranaias/zentra-tui/internal/util"
)

// consoleRenderer writes delivery output straight to a terminal or pipe.
// Used by ask and the line-based chat; the TUI has its own renderer.
type consoleRenderer struct {
	out   io.Writer
	name  string
	color bool
	md    *glamour.TermRenderer
}

func newConsoleRenderer(out io.Writer, name string, markdown bool) *consoleRenderer {
	r := &consoleRenderer{
		out:   out,
		name:  name,
		color: isTTY() && colorEnabled(),
	}
	if markdown && isTTY() {
		if md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(terminalWidth()),
		); err == nil {
			r.md = md
		}
	}
	return r
}

// RenderMessage implements companion.Renderer.
func (r *consoleRenderer) RenderMessage(sender companion.Sender, text string) {
	label := string(sender)
	switch sender {
	case companion.SenderCompanion:
		label = r.name
	case companion.SenderUser:
		label = "you"
	}
	if r.color {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
		label = style.Render(label)
	}

	body := text
	if sender == companion.SenderCompanion && r.md != nil {
		if rendered, err := r.md.Render(text); err == nil {
			body = rendered
		}
	}
	fmt.Fprintf(r.out, "%s: %s\n", label, body)
}

// SetTyping implements companion.Renderer. Console output has no live
// indicator; the placeholder messages cover the waiting.
func (r *consoleRenderer) SetTyping(active bool) {}

// browserNavigator opens redirect targets in the system browser.
type browserNavigator struct {
	out io.Writer
}

// Navigate implements companion.Navigator.
func (n browserNavigator) Navigate(url string) {
	fmt.Fprintf(n.out, "Opening %s\n", url)
	if err := util.OpenBrowser(url); err != nil {
		fmt.Fprintf(n.out, "Could not open a browser; please visit %s\n", url)
	}
}
