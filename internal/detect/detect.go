// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package detect recognizes military context in user-composed messages.
//
// Detection is a keyword pass over the outbound text, run before delivery.
// The result travels with the message as auxiliary context and supplies the
// contextual string used by the reply augmentation rule. Detection is
// deterministic, case-insensitive, and has no failure modes.
package detect

import (
	"strings"
)

// ContinuationMarker is the phrase that marks a contextual response as an
// invitation to keep talking. The "auto" augmentation policy prepends a
// contextual response only when it carries this marker.
const ContinuationMarker = "Would you like to talk about"

// Context is the result of a military-context pass over an outbound message.
type Context struct {
	// Detected reports whether any military signal matched.
	Detected bool `json:"detected"`

	// Response is the contextual string a matched signal produces.
	// Empty when Detected is false.
	Response string `json:"response"`

	// Country is a lowercase ISO-style hint ("us", "uk", ...) when the
	// matched vocabulary is country-specific, otherwise "unknown".
	Country string `json:"country"`
}

// signal is one entry in the detection table. Keywords are matched as
// lowercase substrings; the first matching signal wins, so the table is
// ordered most-specific first.
type signal struct {
	keywords []string
	country  string
	response string
}

var signals = []signal{
	{
		keywords: []string{"deployed", "deployment", "on tour", "overseas posting"},
		country:  "unknown",
		response: "Being away on deployment changes a lot, for you and the people at home. " + ContinuationMarker + " how it's been sitting with you?",
	},
	{
		keywords: []string{"ptsd", "flashback", "combat stress"},
		country:  "unknown",
		response: "What you carried back with you deserves care, not judgment.",
	},
	{
		keywords: []string{"royal navy", "royal air force", "british army", "royal marines"},
		country:  "uk",
		response: "Service life has clearly been part of your story. " + ContinuationMarker + " what that's been like?",
	},
	{
		keywords: []string{"marine corps", "air force", "national guard", "coast guard", "boot camp", "basic training", "fort bragg", "the va"},
		country:  "us",
		response: "Service life has clearly been part of your story. " + ContinuationMarker + " what that's been like?",
	},
	{
		keywords: []string{"veteran", "ex-military", "ex-service", "discharged", "my unit", "my squadron", "my regiment", "my platoon"},
		country:  "unknown",
		response: "Service life has clearly been part of your story. " + ContinuationMarker + " what that's been like?",
	},
	{
		keywords: []string{"enlisted", "in the army", "in the navy", "in the military", "serving overseas"},
		country:  "unknown",
		response: "Military life asks a lot of a person. " + ContinuationMarker + " that part of your life?",
	},
}

// Military runs the keyword pass over text and returns the detection result.
func Military(text string) Context {
	lower := strings.ToLower(text)

	for _, sig := range signals {
		for _, kw := range sig.keywords {
			if strings.Contains(lower, kw) {
				return Context{
					Detected: true,
					Response: sig.response,
					Country:  sig.country,
				}
			}
		}
	}

	return Context{Country: "unknown"}
}

// InvitesContinuation reports whether the contextual response carries the
// continuation marker phrase.
func (c Context) InvitesContinuation() bool {
	return strings.Contains(c.Response, ContinuationMarker)
}
