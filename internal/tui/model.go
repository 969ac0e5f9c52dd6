// Package tui is the interactive query view: a question box, a loading
// indicator while the backend works, and the answer with paginated sources.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/aiactqa/internal/logging"
	"github.com/fyrsmithlabs/aiactqa/internal/qa"
)

const (
	defaultWidth    = 80
	defaultPageSize = 3
	sparklineHeight = 3
	maxSparkWidth   = 40
	barWidth        = 20
	maxQueryChars   = 2000
)

// Options configures the query view.
type Options struct {
	PageSize int
	Logger   *logging.Logger
}

// Model is the bubbletea model for one query session.
type Model struct {
	ctx     context.Context
	asker   qa.Asker
	session *qa.Session
	logger  *logging.Logger

	keys    keyMap
	input   textarea.Model
	spinner spinner.Model
	pager   paginator.Model
	meter   progress.Model
	help    help.Model

	width    int
	quitting bool
}

// answeredMsg carries the classified result of submission seq.
type answeredMsg struct {
	seq    uint64
	result qa.Result
}

// NewModel creates the query view. ctx bounds every ask the view issues.
func NewModel(ctx context.Context, asker qa.Asker, opts Options) Model {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	input := textarea.New()
	input.Placeholder = "Ask a question about the EU AI Act..."
	input.ShowLineNumbers = false
	input.CharLimit = maxQueryChars
	input.SetHeight(3)
	input.SetWidth(defaultWidth - 4)
	input.Focus()

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(labelStyle),
	)

	pager := paginator.New()
	pager.Type = paginator.Dots
	pager.PerPage = opts.PageSize
	pager.ActiveDot = valueStyle.Render("•")
	pager.InactiveDot = dimStyle.Render("•")

	meter := progress.New(
		progress.WithGradient("#ff5f5f", "#00ff87"),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)

	m := Model{
		ctx:     ctx,
		asker:   asker,
		session: qa.NewSession(),
		logger:  opts.Logger.Named("tui"),
		keys:    defaultKeyMap(),
		input:   input,
		spinner: spin,
		pager:   pager,
		meter:   meter,
		help:    help.New(),
		width:   defaultWidth,
	}
	m.syncKeys()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// askCmd runs one ask off the update loop.
func askCmd(ctx context.Context, asker qa.Asker, t qa.Ticket) tea.Cmd {
	return func() tea.Msg {
		return answeredMsg{seq: t.Seq, result: qa.Classify(asker.Ask(ctx, t.Query))}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.SetWidth(max(msg.Width-4, 20))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Submit):
			t, ok := m.session.Submit(m.input.Value())
			if !ok {
				return m, nil
			}
			m.logger.Info(m.ctx, "question submitted", zap.Uint64("seq", t.Seq), zap.Int("length", len(t.Query)))
			m.syncKeys()
			return m, tea.Batch(m.spinner.Tick, askCmd(m.ctx, m.asker, t))

		case key.Matches(msg, m.keys.Clear):
			m.input.Reset()
			return m, nil

		case key.Matches(msg, m.keys.NextPage):
			m.pager.NextPage()
			return m, nil

		case key.Matches(msg, m.keys.PrevPage):
			m.pager.PrevPage()
			return m, nil
		}

	case answeredMsg:
		if !m.session.Resolve(msg.seq, msg.result) {
			m.logger.Debug(m.ctx, "dropped stale answer", zap.Uint64("seq", msg.seq))
			return m, nil
		}
		if a, ok := msg.result.Answer(); ok {
			m.pager.Page = 0
			m.pager.TotalPages = 1
			m.pager.SetTotalPages(len(a.Passages))
			m.logger.Info(m.ctx, "answer received", zap.Uint64("seq", msg.seq), zap.Int("passages", len(a.Passages)))
		} else {
			e := msg.result.Err()
			m.logger.Warn(m.ctx, "question failed", zap.Uint64("seq", msg.seq),
				zap.Stringer("kind", e.Kind), zap.String("message", e.Message))
		}
		m.syncKeys()
		return m, nil

	case spinner.TickMsg:
		if !m.session.InFlight() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// syncKeys enables the bindings that apply to the current state.
func (m *Model) syncKeys() {
	m.keys.Submit.SetEnabled(!m.session.InFlight())
	_, answered := m.session.State().(qa.Succeeded)
	paging := answered && m.pager.TotalPages > 1
	m.keys.NextPage.SetEnabled(paging)
	m.keys.PrevPage.SetEnabled(paging)
}

// View renders the query view
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	v := qa.Render(m.session.State())

	var b strings.Builder
	b.WriteString(headerStyle.Render(" EU AI Act Q&A ") + "\n\n")
	b.WriteString(m.input.View() + "\n")

	switch {
	case v.Loading:
		b.WriteString("\n" + m.spinner.View() + " " + dimStyle.Render("Asking: "+v.Query) + "\n")
	case v.Banner != nil:
		b.WriteString(m.renderBanner(v.Banner) + "\n")
	case v.Answer != nil:
		b.WriteString(m.renderAnswer(v.Answer))
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) renderBanner(bn *qa.Banner) string {
	title := errorStyle.Foreground(bannerColor(bn.Kind)).Render("✗ " + bannerTitle(bn.Kind))
	body := title + "\n" + valueStyle.Render(bn.Message)
	if bn.Hint != "" {
		body += "\n" + dimStyle.Render(bn.Hint)
	}
	return bannerStyle.BorderForeground(bannerColor(bn.Kind)).Render(body)
}

func (m Model) renderAnswer(a *qa.AnswerView) string {
	textWidth := max(m.width-4, 20)

	var b strings.Builder
	b.WriteString(sectionStyle.Render("┃ Answer") + "\n")
	b.WriteString(lipgloss.NewStyle().Width(textWidth).Render(a.Text) + "\n")

	if len(a.Passages) == 0 {
		b.WriteString(dimStyle.Render("No supporting passages returned.") + "\n")
		return b.String()
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Bottom,
		sectionStyle.Render(fmt.Sprintf("┃ Sources (%d)", len(a.Passages))),
		"  ",
		relevanceSparkline(a.Passages),
	) + "\n")

	start, end := m.pager.GetSliceBounds(len(a.Passages))
	for _, p := range a.Passages[start:end] {
		b.WriteString(m.renderPassage(p, textWidth) + "\n")
	}
	if m.pager.TotalPages > 1 {
		b.WriteString("  " + m.pager.View() + "\n")
	}
	return b.String()
}

func (m Model) renderPassage(p qa.PassageView, width int) string {
	score := valueStyle.Render(p.Score)
	if !p.InRange {
		score = warningStyle.Render(p.Score + " (out of range)")
	}
	head := labelStyle.Render(fmt.Sprintf("[%d] ", p.Index)) + valueStyle.Render(p.Source) +
		"  " + m.meter.ViewAs(clamp01(p.Relevance)) + " " + score
	text := dimStyle.Width(max(width-4, 16)).Render(p.Text)
	return cardStyle.Render(head + "\n" + text)
}

// relevanceSparkline charts passage relevance in server order, one column each.
func relevanceSparkline(passages []qa.PassageView) string {
	spark := sparkline.New(min(max(len(passages), 1), maxSparkWidth), sparklineHeight)
	for _, p := range passages {
		spark.Push(clamp01(p.Relevance))
	}
	spark.Draw()
	return sparklineStyle.Render(spark.View())
}
