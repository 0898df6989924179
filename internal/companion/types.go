// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package companion

import "github.com/jeranaias/zentra-tui/internal/detect"

// ============================================================================
// Message senders
// ============================================================================

// Sender identifies which side of the conversation produced a rendered
// message. The values match the role strings the backend and the stored
// conversation format use.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderCompanion Sender = "assistant"
	SenderSystem    Sender = "system"
)

// ============================================================================
// Outbound message
// ============================================================================

// OutboundMessage is a user message prepared for delivery. Text must already
// be validated and sanitized; Deliver does not re-run validation.
type OutboundMessage struct {
	// Text is the sanitized user message.
	Text string

	// UserID identifies the authenticated user. When empty, Deliver asks
	// the client's Identity for the current user instead.
	UserID string

	// Preferences carries free-form companion preference hints. Optional.
	Preferences map[string]any

	// Military is a locally detected military context, attached so the
	// backend can tailor its response. Nil when nothing was detected.
	Military *detect.Context
}

// ============================================================================
// Delivery outcome
// ============================================================================

// Outcome is the terminal state of one delivery.
type Outcome int

const (
	// Success means a reply was received and rendered.
	Success Outcome = iota

	// Redirect means the backend escalated to a crisis resource and the
	// client will navigate there after a short grace period.
	Redirect

	// TerminalFailure means every attempt failed and the fixed apology
	// was rendered in place of a reply.
	TerminalFailure
)

// String returns the outcome name for logs.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Redirect:
		return "redirect"
	case TerminalFailure:
		return "terminal_failure"
	default:
		return "unknown"
	}
}

// DeliveryResult describes how a delivery resolved.
type DeliveryResult struct {
	Outcome Outcome

	// Reply is the companion text that was rendered. Set on Success; on
	// TerminalFailure it holds the apology text.
	Reply string

	// RedirectURL is the crisis resource destination. Set on Redirect.
	RedirectURL string

	// Attempts is the number of network attempts actually made.
	Attempts int

	// Metadata from a successful response. Zero values when absent.
	AIName     string
	Strategy   string
	Confidence float64
	MemoryUsed bool
	SignalID   string
}

// ============================================================================
// Wire format
// ============================================================================

// chatRequest is the POST body for the chat endpoint.
type chatRequest struct {
	Message         string          `json:"message"`
	UserID          string          `json:"user_id"`
	AIPreferences   map[string]any  `json:"ai_preferences,omitempty"`
	MilitaryContext *detect.Context `json:"military_context,omitempty"`
}

// chatResponse is the chat endpoint's JSON reply. A populated RedirectURL
// takes priority over everything else in the payload.
type chatResponse struct {
	Response    string  `json:"response"`
	RedirectURL string  `json:"redirect_url"`
	AIName      string  `json:"ai_name"`
	Strategy    string  `json:"strategy_used"`
	Confidence  float64 `json:"confidence"`
	MemoryUsed  bool    `json:"memory_used"`
	SignalID    string  `json:"signal_id"`
	Error       string  `json:"error"`
}

// feedbackRequest is the POST body for the feedback endpoint.
type feedbackRequest struct {
	UserID       string `json:"user_id"`
	SignalID     string `json:"signal_id"`
	FeedbackType string `json:"feedback_type"`
	Comment      string `json:"comment,omitempty"`
}

// captureReplyRequest is the POST body for the capture-reply endpoint.
type captureReplyRequest struct {
	UserID    string  `json:"user_id"`
	SignalID  string  `json:"signal_id"`
	ReplyText string  `json:"reply_text"`
	Resonance float64 `json:"resonance_score"`
}

// healthResponse is the health endpoint's JSON reply.
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
	Version string `json:"version,omitempty"`
}
