// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model holds the conversation data structures shared by the UI,
// the delivery client, and storage.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/zentra-tui/internal/util"
)

// Message roles. These match the sender strings the delivery client renders
// with, so stored history and live history agree.
const (
	RoleUser      = "user"
	RoleCompanion = "assistant"
	RoleSystem    = "system"
)

// maxTitleLen caps conversation titles derived from the first message.
const maxTitleLen = 50

// Message is one entry in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Delivery metadata for companion messages. Zero for user messages.
	SignalID   string  `json:"signal_id,omitempty"`
	Strategy   string  `json:"strategy,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	MemoryUsed bool    `json:"memory_used,omitempty"`

	// Attempts is how many delivery attempts the message took. Only
	// meaningful on companion messages; 1 for a clean delivery.
	Attempts int `json:"attempts,omitempty"`
}

// Conversation is a full exchange with the companion.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// NewConversation returns an empty conversation with a fresh ID.
func NewConversation() *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		ID:        uuid.NewString(),
		Title:     "New conversation",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddMessage appends a message with the given role and content, filling in
// ID and timestamp, and returns a pointer to the stored message so callers
// can attach delivery metadata afterward.
func (c *Conversation) AddMessage(role, content string) *Message {
	msg := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = msg.Timestamp

	// The first user message names the conversation.
	if role == RoleUser && c.Title == "New conversation" {
		c.Title = titleFrom(content)
	}
	return &c.Messages[len(c.Messages)-1]
}

// LastMessage returns the newest message, or nil for an empty conversation.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// LastSignalID returns the signal ID of the newest companion message, so
// feedback and reply capture can reference the response the user saw.
// Empty when no companion message carries one.
func (c *Conversation) LastSignalID() string {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleCompanion && c.Messages[i].SignalID != "" {
			return c.Messages[i].SignalID
		}
	}
	return ""
}

// Prune drops the oldest messages until at most max remain. System messages
// are kept regardless; they carry state the conversation needs.
func (c *Conversation) Prune(max int) {
	if max <= 0 || len(c.Messages) <= max {
		return
	}
	kept := make([]Message, 0, max)
	drop := len(c.Messages) - max
	for _, m := range c.Messages {
		if drop > 0 && m.Role != RoleSystem {
			drop--
			continue
		}
		kept = append(kept, m)
	}
	c.Messages = kept
}

// titleFrom derives a display title from message content.
func titleFrom(content string) string {
	title := strings.Join(strings.Fields(content), " ")
	if title == "" {
		return "New conversation"
	}
	return util.TruncateRunes(title, maxTitleLen)
}
