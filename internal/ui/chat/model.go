// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the full-screen conversation view: a scrolling transcript,
// an input line, and a status bar, driven by Bubble Tea. Delivery runs off
// the UI loop and feeds messages back in as they happen, so placeholders
// and retries appear live.
package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/zentra-tui/internal/companion"
	"github.com/jeranaias/zentra-tui/internal/config"
	"github.com/jeranaias/zentra-tui/internal/model"
	"github.com/jeranaias/zentra-tui/internal/ratelimit"
	"github.com/jeranaias/zentra-tui/internal/session"
	"github.com/jeranaias/zentra-tui/internal/storage"
	"github.com/jeranaias/zentra-tui/internal/ui/styles"
)

// State is the view's delivery state.
type State int

const (
	// StateReady accepts input.
	StateReady State = iota

	// StateDelivering means a message is in flight; input is locked.
	StateDelivering

	// StateRedirecting shows the crisis banner while the grace period
	// counts down.
	StateRedirecting
)

// redirectTick is the countdown banner's refresh interval.
const redirectTick = 250 * time.Millisecond

// Model is the chat view.
type Model struct {
	cfg    *config.Config
	theme  styles.Theme
	keys   KeyMap
	client *companion.Client
	sess   *session.Context
	store  *storage.Store
	lim    *ratelimit.Limiter

	conv *model.Conversation

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model
	md       *glamour.TermRenderer

	state        State
	typing       bool
	redirectURL  string
	redirectLeft time.Duration
	status       string
	statusIsErr  bool

	width  int
	height int
	ready  bool
}

// New builds the chat view around an existing conversation. Pass a fresh
// conversation to start over.
func New(cfg *config.Config, client *companion.Client, sess *session.Context, store *storage.Store, conv *model.Conversation) Model {
	input := textinput.New()
	input.Placeholder = "Say what's on your mind..."
	input.CharLimit = 0
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	theme := styles.ForName(cfg.UI.Theme)
	spin.Style = theme.Spinner
	input.PromptStyle = theme.InputPrompt

	return Model{
		cfg:    cfg,
		theme:  theme,
		keys:   DefaultKeyMap(),
		client: client,
		sess:   sess,
		store:  store,
		lim:    ratelimit.New(cfg.Limits.PerMinute, cfg.Limits.PerHour),
		conv:   conv,
		input:  input,
		spin:   spin,
		state:  StateReady,
		status: "Connected to " + cfg.Companion.Name,
	}
}

// Conversation returns the live conversation, for saving on exit.
func (m Model) Conversation() *model.Conversation { return m.conv }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.checkHealth)
}

// checkHealth pings the backend once at startup so the status bar reflects
// reachability before the first message goes out.
func (m Model) checkHealth() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	status, err := m.client.Health(ctx)
	return healthMsg{status: status, err: err}
}

// setStatus replaces the status line.
func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusIsErr = isErr
}

// save persists the conversation, downgrading failures to a status notice
// so a disk problem never interrupts the conversation itself.
func (m *Model) save() {
	if m.store == nil || len(m.conv.Messages) == 0 {
		return
	}
	m.conv.Prune(m.cfg.Limits.MaxHistory)
	if err := m.store.Save(m.conv); err != nil {
		m.setStatus("Could not save conversation: "+err.Error(), true)
	}
}
