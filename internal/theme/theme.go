package theme

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// Colors
var (
	Primary   = lipgloss.Color("#33A8FF")
	Secondary = lipgloss.Color("#163047")
	Muted     = lipgloss.Color("#6B7280")
	Success   = lipgloss.Color("#10B981")
	Warning   = lipgloss.Color("#F59E0B")
	Error     = lipgloss.Color("#EF4444")
)

// Shared styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	SectionStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// ActionColor maps what the reaper did to a resource to a theme color.
func ActionColor(action string) color.Color {
	switch strings.ToLower(action) {
	case "deleted", "stopped", "ok":
		return Success
	case "failed", "error":
		return Error
	case "dry-run", "would-delete", "would-stop", "skipped":
		return Warning
	default:
		return Muted
	}
}

// RenderAction renders an action word with a colored bullet.
func RenderAction(action string) string {
	c := ActionColor(action)
	bullet := lipgloss.NewStyle().Foreground(c).Render("●")
	return bullet + " " + action
}
