// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/zentra-tui/internal/companion"
	"github.com/jeranaias/zentra-tui/internal/config"
)

// ConfigReloadedMsg delivers a fresh config after the file changed on disk.
type ConfigReloadedMsg struct {
	Cfg *config.Config
}

// MessageRenderedMsg carries one message from the delivery state machine
// into the Bubble Tea loop. Placeholders arrive through the same path as
// real replies.
type MessageRenderedMsg struct {
	Sender companion.Sender
	Text   string
}

// TypingMsg toggles the typing indicator.
type TypingMsg struct {
	Active bool
}

// deliveryDoneMsg reports the terminal outcome of a delivery.
type deliveryDoneMsg struct {
	result *companion.DeliveryResult
	err    error
}

// redirectTickMsg drives the redirect countdown banner.
type redirectTickMsg struct{}

// healthMsg is the result of the startup backend health check.
type healthMsg struct {
	status string
	err    error
}
