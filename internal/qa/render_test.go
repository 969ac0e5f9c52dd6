package qa

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatScore(t *testing.T) {
	tests := []struct {
		distance float64
		want     string
	}{
		{0.23, "0.77"},
		{1, "0.00"},
		{0, "1.00"},
		{0.1, "0.90"},
		{1.5, "-0.50"},
	}
	for _, tt := range tests {
		p := Passage{Distance: tt.distance}
		assert.Equal(t, tt.want, FormatScore(p.Relevance()), "distance %v", tt.distance)
	}
}

func TestPassage_Source(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]any
		want     string
	}{
		{"nil metadata", nil, UnknownSource},
		{"no source key", map[string]any{"page": 3}, UnknownSource},
		{"nil source", map[string]any{"source": nil}, UnknownSource},
		{"blank source", map[string]any{"source": "  "}, UnknownSource},
		{"string source", map[string]any{"source": "Art.6"}, "Art.6"},
		{"numeric source", map[string]any{"source": float64(12)}, "12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Passage{Metadata: tt.metadata}.Source())
		})
	}
}

// exactlyOne checks the display invariant: one of loading, answer or banner.
func exactlyOne(t *testing.T, v View) {
	t.Helper()
	n := 0
	if v.Loading {
		n++
	}
	if v.Answer != nil {
		n++
	}
	if v.Banner != nil {
		n++
	}
	assert.Equal(t, 1, n, "view %+v", v)
}

func TestRender(t *testing.T) {
	t.Run("nil and idle", func(t *testing.T) {
		for _, s := range []State{nil, Idle{}} {
			v := Render(s)
			assert.Equal(t, PhaseIdle, v.Phase)
			assert.True(t, v.SubmitEnabled)
			assert.False(t, v.Loading)
			assert.Nil(t, v.Answer)
			assert.Nil(t, v.Banner)
		}
	})

	t.Run("submitting", func(t *testing.T) {
		v := Render(Submitting{Query: "q", Seq: 1})
		assert.Equal(t, PhaseSubmitting, v.Phase)
		assert.False(t, v.SubmitEnabled)
		assert.Equal(t, "q", v.Query)
		exactlyOne(t, v)
		assert.True(t, v.Loading)
	})

	t.Run("succeeded keeps server order", func(t *testing.T) {
		v := Render(Succeeded{Answer: Answer{
			Text: "answer",
			Passages: []Passage{
				{Text: "second best", Metadata: map[string]any{"source": "Art.9"}, Distance: 0.4},
				{Text: "best", Distance: 0.1},
				{Text: "broken", Distance: -0.2},
			},
		}})
		assert.Equal(t, PhaseSucceeded, v.Phase)
		assert.True(t, v.SubmitEnabled)
		exactlyOne(t, v)
		require.NotNil(t, v.Answer)
		assert.Equal(t, "answer", v.Answer.Text)
		require.Len(t, v.Answer.Passages, 3)

		first := v.Answer.Passages[0]
		assert.Equal(t, 1, first.Index)
		assert.Equal(t, "second best", first.Text)
		assert.Equal(t, "Art.9", first.Source)
		assert.Equal(t, "0.60", first.Score)
		assert.InDelta(t, 0.6, first.Relevance, 1e-9)
		assert.True(t, first.InRange)
		assert.Equal(t, "best", v.Answer.Passages[1].Text)
		assert.Equal(t, UnknownSource, v.Answer.Passages[1].Source)
		assert.Equal(t, "1.20", v.Answer.Passages[2].Score)
		assert.False(t, v.Answer.Passages[2].InRange)
	})

	t.Run("failed", func(t *testing.T) {
		v := Render(Failed{Err: ErrorInfo{Kind: KindServerError, Message: "index unavailable"}})
		assert.Equal(t, PhaseFailed, v.Phase)
		assert.True(t, v.SubmitEnabled)
		exactlyOne(t, v)
		require.NotNil(t, v.Banner)
		assert.Equal(t, "index unavailable", v.Banner.Message)
		assert.Empty(t, v.Banner.Hint)
	})

	t.Run("unreachable carries hint", func(t *testing.T) {
		v := Render(Failed{Err: ErrorInfo{Kind: KindUnreachable, Message: UnreachableMessage}})
		require.NotNil(t, v.Banner)
		assert.Equal(t, UnreachableHint, v.Banner.Hint)
	})
}

func TestView_JSON(t *testing.T) {
	v := Render(Failed{Err: ErrorInfo{Kind: KindUnreachable, Message: UnreachableMessage}})
	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"phase": "failed",
		"submit_enabled": true,
		"loading": false,
		"error": {"kind": "unreachable", "message": "no response from server", "hint": "Please check if the backend is running."}
	}`, string(data))
}

func TestRender_StripsEscapes(t *testing.T) {
	v := Render(Succeeded{Answer: Answer{
		Text: "\x1b[2JHigh-risk\x1b[0m",
		Passages: []Passage{
			{Text: "Art. 6\r\n", Metadata: map[string]any{"source": "\x1b[31mArt.6\x1b[0m"}, Distance: 0.2},
		},
	}})
	require.NotNil(t, v.Answer)
	assert.Equal(t, "High-risk", v.Answer.Text)
	assert.Equal(t, "Art. 6\n", v.Answer.Passages[0].Text)
	assert.Equal(t, "Art.6", v.Answer.Passages[0].Source)

	v = Render(Failed{Err: ErrorInfo{Kind: KindServerError, Message: "\x1b]0;x\x07boom"}})
	require.NotNil(t, v.Banner)
	assert.Equal(t, "boom", v.Banner.Message)
}
