package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/aiactqa/internal/qa"
)

// PrintOptions controls one-shot output.
type PrintOptions struct {
	ShowSources bool
	Width       int
}

// Print writes a rendered view as text. Color follows w's terminal
// capabilities, so pipes and files get plain text.
func Print(w io.Writer, v qa.View, opts PrintOptions) error {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	r := lipgloss.NewRenderer(w)
	section := r.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	label := r.NewStyle().Foreground(lipgloss.Color("45"))
	dim := r.NewStyle().Foreground(lipgloss.Color("245"))
	wrap := r.NewStyle().Width(opts.Width)

	var b strings.Builder
	switch {
	case v.Banner != nil:
		accent := r.NewStyle().Foreground(bannerColor(v.Banner.Kind)).Bold(true)
		b.WriteString(accent.Render(bannerTitle(v.Banner.Kind)+":") + " " + v.Banner.Message + "\n")
		if v.Banner.Hint != "" {
			b.WriteString(dim.Render(v.Banner.Hint) + "\n")
		}

	case v.Answer != nil:
		b.WriteString(wrap.Render(v.Answer.Text) + "\n")
		if opts.ShowSources && len(v.Answer.Passages) > 0 {
			b.WriteString("\n" + section.Render("Sources") + "\n")
			for _, p := range v.Answer.Passages {
				score := p.Score
				if !p.InRange {
					score += " out of range"
				}
				b.WriteString(label.Render(fmt.Sprintf("[%d] %s", p.Index, p.Source)) +
					dim.Render(fmt.Sprintf(" (score %s)", score)) + "\n")
				b.WriteString(r.NewStyle().Width(opts.Width).PaddingLeft(4).Render(p.Text) + "\n")
			}
		}

	case v.Loading:
		b.WriteString(dim.Render("Asking: "+v.Query) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
