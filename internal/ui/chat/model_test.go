// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/zentra-tui/internal/companion"
	"github.com/jeranaias/zentra-tui/internal/config"
	"github.com/jeranaias/zentra-tui/internal/model"
	"github.com/jeranaias/zentra-tui/internal/session"
)

type noopRenderer struct{}

func (noopRenderer) RenderMessage(companion.Sender, string) {}
func (noopRenderer) SetTyping(bool)                         {}

func newTestModel(t *testing.T) Model {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"I'm here.","signal_id":"sig-1"}`))
	}))
	t.Cleanup(srv.Close)

	sess := session.New()
	sess.Resolve("user-0123456789")

	client, err := companion.New(companion.Config{
		Endpoint:   srv.URL,
		HTTPClient: srv.Client(),
		Renderer:   noopRenderer{},
		Identity:   sess,
	})
	if err != nil {
		t.Fatalf("companion.New: %v", err)
	}

	cfg := config.Default()
	cfg.UI.Markdown = false
	m := New(cfg, client, sess, nil, model.NewConversation())

	// Size the view so the viewport exists.
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func TestRenderedMessagesLandInConversation(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(MessageRenderedMsg{Sender: companion.SenderCompanion, Text: "hello there"})
	m = next.(Model)

	msgs := m.Conversation().Messages
	if len(msgs) != 1 || msgs[0].Role != model.RoleCompanion || msgs[0].Content != "hello there" {
		t.Errorf("conversation = %+v", msgs)
	}
}

func TestTypingIndicator(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(TypingMsg{Active: true})
	m = next.(Model)
	if !m.typing {
		t.Error("typing not set")
	}
	next, _ = m.Update(TypingMsg{Active: false})
	m = next.(Model)
	if m.typing {
		t.Error("typing not cleared")
	}
}

func TestSubmitLocksInputUntilDone(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("rough day")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if m.state != StateDelivering {
		t.Fatalf("state = %v, want delivering", m.state)
	}
	if !m.sess.Delivering() {
		t.Error("session not marked in flight")
	}
	if got := m.Conversation().LastMessage(); got == nil || got.Role != model.RoleUser {
		t.Error("user message not appended")
	}
	if cmd == nil {
		t.Fatal("no delivery command returned")
	}

	// A second enter while delivering is ignored.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if n := len(m.Conversation().Messages); n != 1 {
		t.Errorf("messages = %d after double submit, want 1", n)
	}
}

func TestDeliveryDoneAttachesMetadata(t *testing.T) {
	m := newTestModel(t)
	m.state = StateDelivering
	m.sess.BeginDelivery()
	m.Conversation().AddMessage(model.RoleUser, "hi")
	m.Conversation().AddMessage(model.RoleCompanion, "I'm here.")

	next, _ := m.Update(deliveryDoneMsg{result: &companion.DeliveryResult{
		Outcome:  companion.Success,
		Reply:    "I'm here.",
		Attempts: 2,
		SignalID: "sig-1",
	}})
	m = next.(Model)

	if m.state != StateReady {
		t.Errorf("state = %v, want ready", m.state)
	}
	if m.sess.Delivering() {
		t.Error("session still in flight")
	}
	last := m.Conversation().LastMessage()
	if last.SignalID != "sig-1" || last.Attempts != 2 {
		t.Errorf("metadata not attached: %+v", last)
	}
}

func TestRedirectCountdown(t *testing.T) {
	m := newTestModel(t)
	m.state = StateDelivering
	m.sess.BeginDelivery()

	next, cmd := m.Update(deliveryDoneMsg{result: &companion.DeliveryResult{
		Outcome:     companion.Redirect,
		RedirectURL: "https://988lifeline.org",
		Attempts:    1,
	}})
	m = next.(Model)

	if m.state != StateRedirecting {
		t.Fatalf("state = %v, want redirecting", m.state)
	}
	if cmd == nil {
		t.Fatal("no countdown tick scheduled")
	}
	want := time.Duration(m.cfg.Delivery.RedirectGraceMS) * time.Millisecond
	if m.redirectLeft != want {
		t.Errorf("countdown = %v, want %v", m.redirectLeft, want)
	}

	// Tick it down; the banner clears when the grace period elapses.
	for m.state == StateRedirecting {
		next, _ = m.Update(redirectTickMsg{})
		m = next.(Model)
	}
	if m.redirectURL != "" {
		t.Error("redirect URL not cleared after countdown")
	}
}
