// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/zentra-tui/internal/companion"
	"github.com/jeranaias/zentra-tui/internal/detect"
	"github.com/jeranaias/zentra-tui/internal/model"
	"github.com/jeranaias/zentra-tui/internal/ui/styles"
	"github.com/jeranaias/zentra-tui/internal/validate"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.typing || m.state == StateDelivering {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			cmds = append(cmds, cmd)
		}

	case MessageRenderedMsg:
		role := model.RoleCompanion
		switch msg.Sender {
		case companion.SenderUser:
			role = model.RoleUser
		case companion.SenderSystem:
			role = model.RoleSystem
		}
		m.conv.AddMessage(role, msg.Text)
		m.refreshViewport()

	case TypingMsg:
		m.typing = msg.Active
		if msg.Active {
			cmds = append(cmds, m.spin.Tick)
		}

	case deliveryDoneMsg:
		return m.handleDeliveryDone(msg)

	case healthMsg:
		if msg.err != nil {
			m.setStatus("Cannot reach "+m.cfg.Companion.Name+" right now", true)
		} else {
			m.setStatus("Connected to "+m.cfg.Companion.Name+" ("+msg.status+")", false)
		}

	case ConfigReloadedMsg:
		m.cfg = msg.Cfg
		m.theme = styles.ForName(msg.Cfg.UI.Theme)
		m.spin.Style = m.theme.Spinner
		m.input.PromptStyle = m.theme.InputPrompt
		m.refreshViewport()
		m.setStatus("Settings reloaded", false)

	case redirectTickMsg:
		if m.state != StateRedirecting {
			break
		}
		m.redirectLeft -= redirectTick
		if m.redirectLeft <= 0 {
			m.state = StateReady
			m.redirectURL = ""
			m.setStatus("Support resource opened in your browser", false)
			break
		}
		cmds = append(cmds, tea.Tick(redirectTick, func(time.Time) tea.Msg {
			return redirectTickMsg{}
		}))
	}

	if m.state == StateReady {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.save()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Send):
		if m.state != StateReady {
			return m, nil
		}
		return m.submit()

	case key.Matches(msg, m.keys.NewChat):
		if m.state != StateReady {
			return m, nil
		}
		m.save()
		m.conv = model.NewConversation()
		m.refreshViewport()
		m.setStatus("Started a new conversation", false)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	if m.state == StateReady {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit validates the input line and launches a delivery.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text, err := validate.Message(m.input.Value())
	if err != nil {
		if errors.Is(err, validate.ErrEmptyMessage) {
			return m, nil
		}
		m.setStatus(err.Error(), true)
		return m, nil
	}

	if err := m.lim.Allow(); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	if err := m.sess.BeginDelivery(); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	m.sess.Touch()

	m.conv.AddMessage(model.RoleUser, text)
	m.refreshViewport()
	m.input.Reset()
	m.state = StateDelivering
	m.setStatus("Delivering...", false)

	out := companion.OutboundMessage{
		Text:        text,
		Preferences: m.cfg.Companion.PreferenceMap(),
	}
	if mil := detect.Military(text); mil.Detected {
		out.Military = &mil
	}

	client := m.client
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		res, err := client.Deliver(context.Background(), out)
		return deliveryDoneMsg{result: res, err: err}
	})
}

func (m Model) handleDeliveryDone(msg deliveryDoneMsg) (tea.Model, tea.Cmd) {
	m.sess.EndDelivery()
	m.state = StateReady

	if msg.err != nil {
		m.setStatus(msg.err.Error(), true)
		m.save()
		return m, nil
	}

	// The reply text itself already arrived via MessageRenderedMsg; this
	// message carries the outcome and metadata.
	res := msg.result
	if last := m.conv.LastMessage(); last != nil && last.Role == model.RoleCompanion {
		last.SignalID = res.SignalID
		last.Strategy = res.Strategy
		last.Confidence = res.Confidence
		last.MemoryUsed = res.MemoryUsed
		last.Attempts = res.Attempts
	}
	m.save()

	switch res.Outcome {
	case companion.Redirect:
		m.state = StateRedirecting
		m.redirectURL = res.RedirectURL
		m.redirectLeft = time.Duration(m.cfg.Delivery.RedirectGraceMS) * time.Millisecond
		return m, tea.Tick(redirectTick, func(time.Time) tea.Msg {
			return redirectTickMsg{}
		})
	case companion.TerminalFailure:
		m.setStatus("Message could not be delivered", true)
	default:
		m.setStatus("Connected to "+m.cfg.Companion.Name, false)
	}
	return m, nil
}

// resize lays the view out for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	// Status bar, typing line, input, and help each take a row.
	vpHeight := height - 4
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.input.Width = width - 4

	if m.cfg.UI.Markdown {
		if md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width-2),
		); err == nil {
			m.md = md
		}
	}
	m.refreshViewport()
}
