package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/aiactqa/internal/qa"
)

// Lipgloss styles (k9s-inspired color scheme, shared with the monitor views)
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("196")).
			PaddingLeft(1).
			MarginTop(1)

	sparklineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))
)

// bannerTitle names an error kind for the banner heading.
func bannerTitle(k qa.ErrorKind) string {
	switch k {
	case qa.KindServerError:
		return "Server error"
	case qa.KindUnreachable:
		return "Backend unreachable"
	default:
		return "Request failed"
	}
}

// bannerColor picks the accent for an error kind. Unreachable is yellow so it
// reads differently from a server-side failure.
func bannerColor(k qa.ErrorKind) lipgloss.Color {
	if k == qa.KindUnreachable {
		return lipgloss.Color("226")
	}
	return lipgloss.Color("196")
}

// clamp01 bounds a relevance for bars and charts. The printed score is not clamped.
func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
