// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles defines the visual themes for the terminal interface.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles every style the chat view needs.
type Theme struct {
	Name string

	UserLabel      lipgloss.Style
	CompanionLabel lipgloss.Style
	SystemText     lipgloss.Style
	MessageText    lipgloss.Style
	Timestamp      lipgloss.Style
	Spinner        lipgloss.Style
	StatusBar      lipgloss.Style
	StatusError    lipgloss.Style
	InputPrompt    lipgloss.Style
	RedirectBanner lipgloss.Style
	Help           lipgloss.Style
}

// Dark is the default theme.
func Dark() Theme {
	return Theme{
		Name:           "dark",
		UserLabel:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		CompanionLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true),
		SystemText:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
		MessageText:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Timestamp:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Spinner:        lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
		StatusBar:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236")).Padding(0, 1),
		StatusError:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Background(lipgloss.Color("236")).Padding(0, 1),
		InputPrompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		RedirectBanner: lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("161")).Bold(true).Padding(0, 1),
		Help:           lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Light adjusts the palette for light terminal backgrounds.
func Light() Theme {
	t := Dark()
	t.Name = "light"
	t.UserLabel = t.UserLabel.Foreground(lipgloss.Color("26"))
	t.CompanionLabel = t.CompanionLabel.Foreground(lipgloss.Color("127"))
	t.SystemText = t.SystemText.Foreground(lipgloss.Color("243"))
	t.MessageText = t.MessageText.Foreground(lipgloss.Color("235"))
	t.Timestamp = t.Timestamp.Foreground(lipgloss.Color("246"))
	t.Spinner = t.Spinner.Foreground(lipgloss.Color("127"))
	t.StatusBar = t.StatusBar.Foreground(lipgloss.Color("235")).Background(lipgloss.Color("253"))
	t.StatusError = t.StatusError.Background(lipgloss.Color("253"))
	t.InputPrompt = t.InputPrompt.Foreground(lipgloss.Color("26"))
	t.Help = t.Help.Foreground(lipgloss.Color("245"))
	return t
}

// ForName maps a config theme name to a Theme, falling back to terminal
// background detection for anything unrecognized.
func ForName(name string) Theme {
	switch name {
	case "dark":
		return Dark()
	case "light":
		return Light()
	default:
		if termenv.HasDarkBackground() {
			return Dark()
		}
		return Light()
	}
}
