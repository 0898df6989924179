// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package companion

import (
	"strings"
	"testing"

	"github.com/jeranaias/zentra-tui/internal/detect"
)

func TestParseAugmentPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    AugmentPolicy
		wantErr bool
	}{
		{"", AugmentAuto, false},
		{"auto", AugmentAuto, false},
		{"never", AugmentNever, false},
		{"always", AugmentAlways, false},
		{"  Always ", AugmentAlways, false},
		{"sometimes", AugmentAuto, true},
	}
	for _, tt := range tests {
		got, err := ParseAugmentPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAugmentPolicy(%q) err = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseAugmentPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAugmentApply(t *testing.T) {
	inviting := &detect.Context{
		Detected: true,
		Response: "Thank you for your service. " + detect.ContinuationMarker + " your time overseas?",
		Country:  "us",
	}
	flat := &detect.Context{
		Detected: true,
		Response: "That sounds like a heavy thing to carry.",
		Country:  "unknown",
	}
	reply := "I'm here with you."

	tests := []struct {
		name     string
		policy   AugmentPolicy
		mil      *detect.Context
		prepends bool
	}{
		{"auto with inviting context", AugmentAuto, inviting, true},
		{"auto with flat context", AugmentAuto, flat, false},
		{"auto with no context", AugmentAuto, nil, false},
		{"never with inviting context", AugmentNever, inviting, false},
		{"always with flat context", AugmentAlways, flat, true},
		{"always with no context", AugmentAlways, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.Apply(reply, tt.mil)
			prepended := got != reply
			if prepended != tt.prepends {
				t.Errorf("prepended = %v, want %v (got %q)", prepended, tt.prepends, got)
			}
			if !strings.HasSuffix(got, reply) {
				t.Errorf("original reply not preserved: %q", got)
			}
			if tt.prepends && !strings.HasPrefix(got, tt.mil.Response) {
				t.Errorf("contextual string not at the front: %q", got)
			}
		})
	}

	t.Run("empty reply untouched", func(t *testing.T) {
		if got := AugmentAlways.Apply("", inviting); got != "" {
			t.Errorf("Apply on empty reply = %q", got)
		}
	})
}
