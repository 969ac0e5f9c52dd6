package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/aiactqa/internal/qa"
)

type fakeAsker struct {
	outcome qa.Outcome
	queries []string
}

func (f *fakeAsker) Ask(_ context.Context, q string) qa.Outcome {
	f.queries = append(f.queries, q)
	return f.outcome
}

const scenarioA = `{"answer":"High-risk systems are listed in Annex III.","chunks":[{"text":"Art. 6 defines...","metadata":{"source":"Art.6"},"distance":0.1}]}`

func newTestModel(t *testing.T, outcome qa.Outcome, pageSize int) (Model, *fakeAsker) {
	t.Helper()
	asker := &fakeAsker{outcome: outcome}
	return NewModel(context.Background(), asker, Options{PageSize: pageSize}), asker
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	require.True(t, ok)
	return mm, cmd
}

func submit(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(text)
	return update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
}

func answer(passages int) qa.Result {
	a := qa.Answer{Text: "answer text"}
	for i := 1; i <= passages; i++ {
		a.Passages = append(a.Passages, qa.Passage{
			Text:     fmt.Sprintf("passage-%d", i),
			Metadata: map[string]any{"source": fmt.Sprintf("Art.%d", i)},
			Distance: 0.1,
		})
	}
	return qa.Success(a)
}

func TestNewModel(t *testing.T) {
	m, _ := newTestModel(t, nil, 0)
	assert.Equal(t, qa.Idle{}, m.session.State())
	assert.Equal(t, defaultPageSize, m.pager.PerPage)
	assert.True(t, m.keys.Submit.Enabled())
	assert.False(t, m.keys.NextPage.Enabled())
	assert.False(t, m.quitting)
	assert.NotNil(t, m.Init())
}

func TestModel_BlankSubmitIgnored(t *testing.T) {
	m, asker := newTestModel(t, nil, 3)
	m, cmd := submit(t, m, "   \n ")
	assert.Nil(t, cmd)
	assert.Equal(t, qa.Idle{}, m.session.State())
	assert.Empty(t, asker.queries)
}

func TestModel_SubmitShowsLoading(t *testing.T) {
	m, _ := newTestModel(t, nil, 3)
	m, cmd := submit(t, m, "What is a high-risk AI system?")
	require.NotNil(t, cmd)

	assert.IsType(t, qa.Submitting{}, m.session.State())
	assert.False(t, m.keys.Submit.Enabled())

	view := m.View()
	assert.Contains(t, view, "Asking: What is a high-risk AI system?")
	assert.NotContains(t, view, "Server error")
	assert.NotContains(t, view, "┃ Answer")
}

func TestModel_SubmitDisabledWhileInFlight(t *testing.T) {
	m, _ := newTestModel(t, nil, 3)
	m, _ = submit(t, m, "first")
	before := m.session.State()

	m, cmd := submit(t, m, "second")
	assert.Nil(t, cmd)
	assert.Equal(t, before, m.session.State())
}

func TestModel_AskCmdClassifies(t *testing.T) {
	asker := &fakeAsker{outcome: qa.HTTPSuccess{Status: 200, Body: []byte(scenarioA)}}
	msg := askCmd(context.Background(), asker, qa.Ticket{Seq: 7, Query: "q"})()

	am, ok := msg.(answeredMsg)
	require.True(t, ok)
	assert.Equal(t, uint64(7), am.seq)
	assert.Equal(t, []string{"q"}, asker.queries)
	_, ok = am.result.Answer()
	assert.True(t, ok)
}

func TestModel_AnswerRendered(t *testing.T) {
	m, _ := newTestModel(t, nil, 3)
	m, _ = submit(t, m, "What is a high-risk AI system?")
	tk := m.session.State().(qa.Submitting)

	result := qa.Classify(qa.HTTPSuccess{Status: 200, Body: []byte(scenarioA)})
	m, _ = update(t, m, answeredMsg{seq: tk.Seq, result: result})

	assert.True(t, m.keys.Submit.Enabled())
	view := m.View()
	assert.Contains(t, view, "High-risk systems are listed in Annex III.")
	assert.Contains(t, view, "Art.6")
	assert.Contains(t, view, "0.90")
	assert.Contains(t, view, "Art. 6 defines...")
	assert.NotContains(t, view, "Asking:")
}

func TestModel_StaleAnswerDropped(t *testing.T) {
	m, _ := newTestModel(t, nil, 3)
	m, _ = submit(t, m, "first")
	first := m.session.State().(qa.Submitting)
	m, _ = update(t, m, answeredMsg{seq: first.Seq, result: qa.Failure(qa.KindServerError, "boom")})

	m, _ = submit(t, m, "second")
	m, _ = update(t, m, answeredMsg{seq: first.Seq, result: answer(1)})

	st, ok := m.session.State().(qa.Submitting)
	require.True(t, ok)
	assert.Equal(t, "second", st.Query)
}

func TestModel_ErrorBanner(t *testing.T) {
	tests := []struct {
		name   string
		result qa.Result
		want   []string
	}{
		{
			name:   "server error",
			result: qa.Classify(qa.HTTPFailure{Status: 500, Body: []byte(`{"detail":"index unavailable"}`)}),
			want:   []string{"Server error", "index unavailable"},
		},
		{
			name:   "unreachable",
			result: qa.Classify(qa.NoResponse{}),
			want:   []string{"Backend unreachable", qa.UnreachableMessage, qa.UnreachableHint},
		},
		{
			name:   "client fault",
			result: qa.Classify(qa.HTTPSuccess{Status: 200, Body: []byte(`{"answer":"x"}`)}),
			want:   []string{"Request failed", `missing field "chunks"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t, nil, 3)
			m, _ = submit(t, m, "q")
			seq := m.session.State().(qa.Submitting).Seq
			m, _ = update(t, m, answeredMsg{seq: seq, result: tt.result})

			view := m.View()
			for _, w := range tt.want {
				assert.Contains(t, view, w)
			}
			assert.NotContains(t, view, "┃ Answer")
			assert.NotContains(t, view, "Asking:")
		})
	}
}

func TestModel_Pagination(t *testing.T) {
	m, _ := newTestModel(t, nil, 2)
	m, _ = submit(t, m, "q")
	seq := m.session.State().(qa.Submitting).Seq
	m, _ = update(t, m, answeredMsg{seq: seq, result: answer(5)})

	assert.Equal(t, 3, m.pager.TotalPages)
	assert.True(t, m.keys.NextPage.Enabled())

	view := m.View()
	assert.Contains(t, view, "passage-1")
	assert.Contains(t, view, "passage-2")
	assert.NotContains(t, view, "passage-3")
	assert.Contains(t, view, "Sources (5)")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	view = m.View()
	assert.NotContains(t, view, "passage-1")
	assert.Contains(t, view, "passage-3")
	assert.Contains(t, view, "passage-4")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 2, m.pager.Page, "stays on last page")
	assert.Contains(t, m.View(), "passage-5")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 1, m.pager.Page)

	t.Run("new answer resets to first page", func(t *testing.T) {
		m, _ := submit(t, m, "again")
		seq := m.session.State().(qa.Submitting).Seq
		m, _ = update(t, m, answeredMsg{seq: seq, result: answer(1)})
		assert.Equal(t, 0, m.pager.Page)
		assert.Equal(t, 1, m.pager.TotalPages)
		assert.False(t, m.keys.NextPage.Enabled())
	})
}

func TestModel_NoPassages(t *testing.T) {
	m, _ := newTestModel(t, nil, 3)
	m, _ = submit(t, m, "q")
	seq := m.session.State().(qa.Submitting).Seq
	m, _ = update(t, m, answeredMsg{seq: seq, result: answer(0)})
	assert.Contains(t, m.View(), "No supporting passages returned.")
}

func TestModel_ClearAndQuit(t *testing.T) {
	m, _ := newTestModel(t, nil, 3)
	m.input.SetValue("draft")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.input.Value())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestModel_WindowSize(t *testing.T) {
	m, _ := newTestModel(t, nil, 3)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
}

func TestPrint(t *testing.T) {
	a, _ := qa.Classify(qa.HTTPSuccess{Status: 200, Body: []byte(scenarioA)}).Answer()
	ok := qa.Render(qa.Succeeded{Answer: a})

	t.Run("answer with sources", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Print(&buf, ok, PrintOptions{ShowSources: true}))
		out := buf.String()
		assert.Contains(t, out, "High-risk systems are listed in Annex III.")
		assert.Contains(t, out, "[1] Art.6")
		assert.Contains(t, out, "(score 0.90)")
		assert.Contains(t, out, "Art. 6 defines...")
		assert.NotContains(t, out, "\x1b[", "buffers get plain text")
	})

	t.Run("answer only", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Print(&buf, ok, PrintOptions{}))
		assert.NotContains(t, buf.String(), "Sources")
	})

	t.Run("banner", func(t *testing.T) {
		var buf bytes.Buffer
		v := qa.Render(qa.Failed{Err: qa.ErrorInfo{Kind: qa.KindUnreachable, Message: qa.UnreachableMessage}})
		require.NoError(t, Print(&buf, v, PrintOptions{}))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "Backend unreachable: no response from server", lines[0])
		assert.Equal(t, qa.UnreachableHint, strings.TrimSpace(lines[1]))
	})
}
