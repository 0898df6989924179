// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package companion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ============================================================================
// Response feedback
// ============================================================================

// Feedback types accepted by the backend.
const (
	FeedbackPerfect   = "perfect"
	FeedbackHelpful   = "helpful"
	FeedbackNotQuite  = "not_quite"
	FeedbackUnhelpful = "unhelpful"
)

var validFeedback = map[string]bool{
	FeedbackPerfect:   true,
	FeedbackHelpful:   true,
	FeedbackNotQuite:  true,
	FeedbackUnhelpful: true,
}

// SendFeedback records the user's rating of a companion response, identified
// by the signal ID returned with that response. Feedback never retries: a
// lost rating costs nothing, and the signal ID keeps a replay harmless.
func (c *Client) SendFeedback(ctx context.Context, signalID, feedbackType, comment string) error {
	if signalID == "" {
		return fmt.Errorf("feedback requires a signal ID")
	}
	feedbackType = strings.ToLower(strings.TrimSpace(feedbackType))
	if !validFeedback[feedbackType] {
		return fmt.Errorf("unknown feedback type %q (want perfect, helpful, not_quite, or unhelpful)", feedbackType)
	}
	userID, err := c.identity.CurrentUserID()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}

	_, err = c.postJSON(ctx, "/api/feedback", feedbackRequest{
		UserID:       userID,
		SignalID:     signalID,
		FeedbackType: feedbackType,
		Comment:      strings.TrimSpace(comment),
	})
	return err
}

// CaptureReply reports what the user actually said back to a companion
// response, along with a resonance score in [0, 1] estimating how well the
// response landed.
func (c *Client) CaptureReply(ctx context.Context, signalID, replyText string, resonance float64) error {
	if signalID == "" {
		return fmt.Errorf("capture-reply requires a signal ID")
	}
	if resonance < 0 || resonance > 1 {
		return fmt.Errorf("resonance score %v out of range [0, 1]", resonance)
	}
	userID, err := c.identity.CurrentUserID()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}

	_, err = c.postJSON(ctx, "/api/capture-reply", captureReplyRequest{
		UserID:    userID,
		SignalID:  signalID,
		ReplyText: strings.TrimSpace(replyText),
		Resonance: resonance,
	})
	return err
}

// ============================================================================
// Health
// ============================================================================

// Health pings the backend and returns its reported status string. Used by
// the status command; a delivery never depends on a prior health check.
func (c *Client) Health(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/health", nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("health check failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return "", &APIError{Status: httpResp.StatusCode}
	}
	var resp healthResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("malformed health response: %w", err)
	}
	if resp.Status == "" {
		resp.Status = "unknown"
	}
	return resp.Status, nil
}
