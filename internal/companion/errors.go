// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package companion

import (
	"errors"
	"fmt"
)

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// ErrNotAuthenticated is returned when a delivery is started without a
	// resolved user identity. No network attempt is made.
	ErrNotAuthenticated = errors.New("not authenticated: sign in before sending messages")

	// ErrEmptyMessage is returned when the outbound text is empty after
	// trimming. No network attempt is made.
	ErrEmptyMessage = errors.New("message is empty")

	// errEmptyResponse marks a 2xx reply whose body carried neither a
	// response nor a redirect. Treated as a transient failure.
	errEmptyResponse = errors.New("backend returned an empty response")
)

// ============================================================================
// API errors
// ============================================================================

// APIError is a non-2xx reply from the backend. All status codes are retried
// the same way; the type exists so logs and status output can show what the
// backend actually said.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error: HTTP %d", e.Status)
	}
	return fmt.Sprintf("backend error: HTTP %d: %s", e.Status, e.Message)
}

// IsAPIError reports whether err is an APIError and returns it if so.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
