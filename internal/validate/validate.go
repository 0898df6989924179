// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package validate checks and sanitizes outbound chat input before it is
// handed to the delivery client. The rules mirror what the backend enforces
// so the client rejects bad input without burning a network round trip.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaxMessageLen is the maximum accepted message length in characters.
const MaxMessageLen = 10000

// Validation errors.
var (
	// ErrEmptyMessage indicates the message was empty after trimming.
	ErrEmptyMessage = errors.New("message cannot be empty")

	// ErrMessageTooLong indicates the message exceeds MaxMessageLen.
	ErrMessageTooLong = fmt.Errorf("message too long (max %d characters)", MaxMessageLen)

	// ErrInvalidUserID indicates the user ID does not match the expected format.
	ErrInvalidUserID = errors.New("invalid user ID format")
)

var (
	userIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	bangRuns        = regexp.MustCompile(`[!?]{4,}`)
	dotRuns         = regexp.MustCompile(`[.]{4,}`)
	htmlTags        = regexp.MustCompile(`<[^>]*>`)
	controlChars    = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
	capsRuns        = regexp.MustCompile(`[A-Z]{4,}`)
)

// Message validates and sanitizes a user-composed message.
// Returns the sanitized text, or an error when the input cannot be sent.
func Message(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	if len([]rune(text)) > MaxMessageLen {
		return "", ErrMessageTooLong
	}
	return sanitize(text), nil
}

// UserID validates an account identifier (Firebase-style UID):
// 10-128 characters from [a-zA-Z0-9_-].
func UserID(id string) error {
	if len(id) < 10 || len(id) > 128 {
		return ErrInvalidUserID
	}
	if !userIDPattern.MatchString(id) {
		return ErrInvalidUserID
	}
	return nil
}

// sanitize normalizes a message the same way the backend does:
// strip control characters and tags, collapse whitespace, and cap
// punctuation/capitalization runs.
func sanitize(text string) string {
	text = controlChars.ReplaceAllString(text, "")
	text = htmlTags.ReplaceAllString(text, "")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	text = bangRuns.ReplaceAllString(text, "!!!")
	text = dotRuns.ReplaceAllString(text, "...")
	text = capsRuns.ReplaceAllStringFunc(text, func(s string) string {
		return s[:3]
	})
	return strings.TrimSpace(text)
}
