// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TruncateRunes truncates s to maxLen runes, appending "..." if truncated.
// Rune-based truncation keeps multi-byte characters intact.
func TruncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// PadRight pads s with spaces to the given display width.
func PadRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// WrapText wraps text to the given display width, breaking on spaces.
// Words wider than the limit are split mid-word rather than overflowing.
func WrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(wrapLine(line, width))
	}
	return out.String()
}

func wrapLine(line string, width int) string {
	if runewidth.StringWidth(line) <= width {
		return line
	}

	var out strings.Builder
	var cur strings.Builder
	curWidth := 0

	flush := func() {
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		out.WriteString(cur.String())
		cur.Reset()
		curWidth = 0
	}

	for _, word := range strings.Fields(line) {
		wordWidth := runewidth.StringWidth(word)

		// Hard-split words wider than the wrap width.
		for wordWidth > width {
			if curWidth > 0 {
				flush()
			}
			runes := []rune(word)
			take := 0
			taken := 0
			for _, r := range runes {
				rw := runewidth.RuneWidth(r)
				if taken+rw > width {
					break
				}
				taken += rw
				take++
			}
			cur.WriteString(string(runes[:take]))
			curWidth = taken
			flush()
			word = string(runes[take:])
			wordWidth = runewidth.StringWidth(word)
		}
		if word == "" {
			continue
		}

		sep := 0
		if curWidth > 0 {
			sep = 1
		}
		if curWidth+sep+wordWidth > width {
			flush()
			sep = 0
		}
		if sep == 1 {
			cur.WriteString(" ")
			curWidth++
		}
		cur.WriteString(word)
		curWidth += wordWidth
	}
	if cur.Len() > 0 || out.Len() == 0 {
		flush()
	}
	return out.String()
}
