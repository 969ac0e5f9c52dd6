package qa

import "github.com/fyrsmithlabs/aiactqa/internal/sanitize"

// Phase names the state a View was rendered from.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnreachableHint is shown under the banner when the backend is unreachable.
const UnreachableHint = "Please check if the backend is running."

// View is the display model for one session state. At most one of
// Loading, Answer and Banner is set.
type View struct {
	Phase         Phase       `json:"phase"`
	SubmitEnabled bool        `json:"submit_enabled"`
	Loading       bool        `json:"loading"`
	Query         string      `json:"query,omitempty"`
	Answer        *AnswerView `json:"answer,omitempty"`
	Banner        *Banner     `json:"error,omitempty"`
}

// AnswerView is a successful answer ready to display.
type AnswerView struct {
	Text     string        `json:"text"`
	Passages []PassageView `json:"passages"`
}

// PassageView is one passage card.
type PassageView struct {
	Index     int     `json:"index"`
	Text      string  `json:"text"`
	Source    string  `json:"source"`
	Score     string  `json:"score"`
	Relevance float64 `json:"relevance"`
	InRange   bool    `json:"in_range"`
}

// Banner is the error shown in place of an answer.
type Banner struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Hint    string    `json:"hint,omitempty"`
}

// Render projects a state into its View. A nil state renders as Idle.
// Server-supplied text is stripped of terminal escape sequences.
func Render(s State) View {
	switch s := s.(type) {
	case Submitting:
		return View{Phase: PhaseSubmitting, Loading: true, Query: sanitize.Inline(s.Query)}
	case Succeeded:
		return View{Phase: PhaseSucceeded, SubmitEnabled: true, Answer: renderAnswer(s.Answer)}
	case Failed:
		b := &Banner{Kind: s.Err.Kind, Message: sanitize.Text(s.Err.Message)}
		if s.Err.Kind == KindUnreachable {
			b.Hint = UnreachableHint
		}
		return View{Phase: PhaseFailed, SubmitEnabled: true, Banner: b}
	default:
		return View{Phase: PhaseIdle, SubmitEnabled: true}
	}
}

func renderAnswer(a Answer) *AnswerView {
	passages := make([]PassageView, len(a.Passages))
	for i, p := range a.Passages {
		rel := p.Relevance()
		passages[i] = PassageView{
			Index:     i + 1,
			Text:      sanitize.Text(p.Text),
			Source:    sanitize.Inline(p.Source()),
			Score:     FormatScore(rel),
			Relevance: rel,
			InRange:   InRange(rel),
		}
	}
	return &AnswerView{Text: sanitize.Text(a.Text), Passages: passages}
}
