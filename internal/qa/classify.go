package qa

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// UnreachableMessage is the message for asks that got no response.
const UnreachableMessage = "no response from server"

// Wire shapes. Pointers distinguish a missing field from a zero value.
type wireAnswer struct {
	Answer *string      `json:"answer"`
	Chunks *[]wireChunk `json:"chunks"`
}

type wireChunk struct {
	Text     *string        `json:"text"`
	Metadata map[string]any `json:"metadata"`
	Distance *float64       `json:"distance"`
}

type wireError struct {
	Detail any `json:"detail"`
}

// Classify maps a transport outcome to a Result. It is pure and total:
// every outcome, including nil, yields exactly one Result.
func Classify(o Outcome) Result {
	switch o := o.(type) {
	case HTTPSuccess:
		a, err := decodeAnswer(o.Body)
		if err != nil {
			return Failure(KindClientFault, fmt.Sprintf("malformed response: %v", err))
		}
		return Success(a)
	case HTTPFailure:
		return Failure(KindServerError, failureMessage(o))
	case NoResponse:
		return Failure(KindUnreachable, UnreachableMessage)
	case SetupFault:
		msg := o.Message
		if msg == "" {
			msg = "request could not be sent"
		}
		return Failure(KindClientFault, msg)
	default:
		return Failure(KindClientFault, fmt.Sprintf("unrecognized outcome %T", o))
	}
}

func decodeAnswer(body []byte) (Answer, error) {
	var w wireAnswer
	if err := json.Unmarshal(body, &w); err != nil {
		return Answer{}, err
	}
	if w.Answer == nil {
		return Answer{}, errors.New(`missing field "answer"`)
	}
	if w.Chunks == nil {
		return Answer{}, errors.New(`missing field "chunks"`)
	}

	passages := make([]Passage, 0, len(*w.Chunks))
	for i, c := range *w.Chunks {
		if c.Text == nil {
			return Answer{}, fmt.Errorf(`chunk %d: missing field "text"`, i)
		}
		if c.Distance == nil {
			return Answer{}, fmt.Errorf(`chunk %d: missing field "distance"`, i)
		}
		passages = append(passages, Passage{
			Text:     *c.Text,
			Metadata: c.Metadata,
			Distance: *c.Distance,
		})
	}
	return Answer{Text: *w.Answer, Passages: passages}, nil
}

// failureMessage prefers the server's detail, then the status text.
func failureMessage(o HTTPFailure) string {
	var w wireError
	if err := json.Unmarshal(o.Body, &w); err == nil {
		if s, ok := w.Detail.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	if o.StatusText != "" {
		return o.StatusText
	}
	if t := http.StatusText(o.Status); t != "" {
		return t
	}
	return "Server error"
}
