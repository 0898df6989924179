// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detect

import (
	"strings"
	"testing"
)

func TestMilitary(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantDetected bool
		wantCountry  string
	}{
		{"no signal", "I had a rough day at work today", false, "unknown"},
		{"deployment", "My partner just got deployed again", true, "unknown"},
		{"veteran", "I'm a veteran and the nights are hard", true, "unknown"},
		{"us branch", "Boot camp broke something in me", true, "us"},
		{"uk branch", "I was in the Royal Navy for twelve years", true, "uk"},
		{"case insensitive", "MY UNIT shipped out without me", true, "unknown"},
		{"ptsd", "the flashbacks keep coming back", true, "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Military(tc.text)
			if got.Detected != tc.wantDetected {
				t.Fatalf("Military(%q).Detected = %v, expected %v", tc.text, got.Detected, tc.wantDetected)
			}
			if got.Country != tc.wantCountry {
				t.Errorf("Military(%q).Country = %q, expected %q", tc.text, got.Country, tc.wantCountry)
			}
			if tc.wantDetected && got.Response == "" {
				t.Errorf("detected context must carry a response")
			}
			if !tc.wantDetected && got.Response != "" {
				t.Errorf("undetected context must not carry a response, got %q", got.Response)
			}
		})
	}
}

func TestMilitaryDeterministic(t *testing.T) {
	// A text matching multiple signals always resolves to the same one.
	text := "I'm a veteran, got deployed twice"
	first := Military(text)
	for i := 0; i < 10; i++ {
		if got := Military(text); got != first {
			t.Fatalf("detection is not deterministic: %+v vs %+v", got, first)
		}
	}
	// Deployment signal is more specific and listed first.
	if !strings.Contains(first.Response, "deployment") {
		t.Errorf("expected deployment signal to win, got %q", first.Response)
	}
}

func TestInvitesContinuation(t *testing.T) {
	withMarker := Military("my deployment ends in june")
	if !withMarker.InvitesContinuation() {
		t.Errorf("deployment response should invite continuation")
	}

	noMarker := Military("the combat stress is back")
	if noMarker.InvitesContinuation() {
		t.Errorf("ptsd response should not invite continuation: %q", noMarker.Response)
	}

	if (Context{}).InvitesContinuation() {
		t.Errorf("empty context should not invite continuation")
	}
}
