// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/jeranaias/zentra-tui/internal/model"
	"github.com/jeranaias/zentra-tui/internal/util"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Starting zentra..."
	}

	var b strings.Builder
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.typingLine())
	b.WriteString("\n")
	b.WriteString(m.inputLine())
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render("enter send - ctrl+n new - pgup/pgdn scroll - ctrl+c quit"))
	return b.String()
}

func (m Model) statusLine() string {
	if m.state == StateRedirecting {
		secs := float64(m.redirectLeft.Milliseconds()) / 1000
		return m.theme.RedirectBanner.Render(fmt.Sprintf(
			"Opening %s in %.1fs", m.redirectURL, secs))
	}
	style := m.theme.StatusBar
	if m.statusIsErr {
		style = m.theme.StatusError
	}
	return style.Width(m.width).Render(m.status)
}

func (m Model) typingLine() string {
	if m.typing || m.state == StateDelivering {
		return m.spin.View() + m.theme.SystemText.Render(m.cfg.Companion.Name+" is typing")
	}
	return ""
}

func (m Model) inputLine() string {
	if m.state != StateReady {
		return m.theme.SystemText.Render("  (waiting for " + m.cfg.Companion.Name + ")")
	}
	return m.input.View()
}

// refreshViewport rebuilds the transcript and scrolls to the newest message.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for i, msg := range m.conv.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessage(msg model.Message) string {
	stamp := m.theme.Timestamp.Render(msg.Timestamp.Local().Format("15:04"))
	width := m.viewport.Width - 2
	if width < 10 {
		width = 10
	}

	switch msg.Role {
	case model.RoleUser:
		return m.theme.UserLabel.Render("You") + " " + stamp + "\n" +
			m.theme.MessageText.Render(util.WrapText(msg.Content, width)) + "\n"

	case model.RoleCompanion:
		body := msg.Content
		if m.md != nil {
			if rendered, err := m.md.Render(body); err == nil {
				body = strings.TrimRight(rendered, "\n") + "\n"
			} else {
				body = util.WrapText(body, width)
			}
		} else {
			body = util.WrapText(body, width)
		}
		label := m.theme.CompanionLabel.Render(m.cfg.Companion.Name) + " " + stamp
		if msg.Attempts > 1 {
			label += " " + m.theme.Timestamp.Render(fmt.Sprintf("(after %d attempts)", msg.Attempts))
		}
		return label + "\n" + body

	default:
		return m.theme.SystemText.Render(util.WrapText(msg.Content, width)) + "\n"
	}
}
