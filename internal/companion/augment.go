// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package companion

import (
	"fmt"
	"strings"

	"github.com/jeranaias/zentra-tui/internal/detect"
)

// AugmentPolicy controls whether a locally detected contextual string (the
// military-context response) is prepended to the companion's reply.
type AugmentPolicy int

const (
	// AugmentAuto prepends the contextual string only when it invites
	// the user to keep talking. This is the default.
	AugmentAuto AugmentPolicy = iota

	// AugmentNever leaves every reply untouched.
	AugmentNever

	// AugmentAlways prepends any non-empty contextual string.
	AugmentAlways
)

// ParseAugmentPolicy maps a config string to a policy. Unknown values are an
// error so a typo in the config file does not silently become auto.
func ParseAugmentPolicy(s string) (AugmentPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return AugmentAuto, nil
	case "never":
		return AugmentNever, nil
	case "always":
		return AugmentAlways, nil
	default:
		return AugmentAuto, fmt.Errorf("unknown augment policy %q (want auto, never, or always)", s)
	}
}

// String returns the config spelling of the policy.
func (p AugmentPolicy) String() string {
	switch p {
	case AugmentNever:
		return "never"
	case AugmentAlways:
		return "always"
	default:
		return "auto"
	}
}

// Apply returns reply with the contextual string prepended when the policy
// calls for it. Replies without a detected context pass through untouched.
func (p AugmentPolicy) Apply(reply string, mil *detect.Context) string {
	if reply == "" || mil == nil || mil.Response == "" {
		return reply
	}
	switch p {
	case AugmentNever:
		return reply
	case AugmentAlways:
		return mil.Response + "\n\n" + reply
	default:
		if mil.InvitesContinuation() {
			return mil.Response + "\n\n" + reply
		}
		return reply
	}
}
