// Package ui provides terminal styling for bd2gh output.
// Uses the Ayu color theme with adaptive light/dark mode support.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorPass = lipgloss.AdaptiveColor{
		Light: "#86b300", // ayu light bright green
		Dark:  "#c2d94c", // ayu dark bright green
	}
	colorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49", // ayu light bright yellow
		Dark:  "#ffb454", // ayu dark bright yellow
	}
	colorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6", // ayu light bright blue
		Dark:  "#59c2ff", // ayu dark bright blue
	}
	colorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99", // ayu light muted
		Dark:  "#6c7680", // ayu dark muted
	}
)

var (
	PassStyle   = lipgloss.NewStyle().Foreground(colorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(colorWarn)
	MutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)

// Pass styles a completion line.
func Pass(s string) string { return PassStyle.Render(s) }

// Warn styles a skip/warning line.
func Warn(s string) string { return WarnStyle.Render(s) }

// Header styles the mode banner and summary heading.
func Header(s string) string { return HeaderStyle.Render(s) }

// Muted styles informational path lines.
func Muted(s string) string { return MutedStyle.Render(s) }
