// Package qa implements the question-answering lifecycle of the client:
// sending a question to the backend, classifying what came back, tracking the
// single in-flight submission, and projecting the outcome into a display model.
package qa

import (
	"fmt"
	"strings"
)

// UnknownSource is shown for passages whose metadata carries no source.
const UnknownSource = "Unknown"

// Passage is a retrieved text excerpt supporting an answer.
type Passage struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Distance float64        `json:"distance"`
}

// Relevance is 1 - Distance. Distance is not validated against [0,1].
func (p Passage) Relevance() float64 {
	return 1 - p.Distance
}

// Source returns metadata["source"], or UnknownSource when absent or empty.
func (p Passage) Source() string {
	v, ok := p.Metadata["source"]
	if !ok || v == nil {
		return UnknownSource
	}
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return UnknownSource
		}
		return s
	}
	return fmt.Sprint(v)
}

// Answer is the backend's reply. Passages keep the server's order.
type Answer struct {
	Text     string    `json:"text"`
	Passages []Passage `json:"passages"`
}

// ErrorKind classifies why a submission failed.
type ErrorKind int

const (
	// KindServerError means the backend answered with a non-2xx status.
	KindServerError ErrorKind = iota + 1
	// KindUnreachable means no response was received.
	KindUnreachable
	// KindClientFault means the request could not be built or sent, or a
	// 2xx body could not be parsed.
	KindClientFault
)

func (k ErrorKind) String() string {
	switch k {
	case KindServerError:
		return "server_error"
	case KindUnreachable:
		return "unreachable"
	case KindClientFault:
		return "client_fault"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ErrorInfo is a classified failure. It is an error so CLI callers can
// return it directly.
type ErrorInfo struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ErrorInfo) Error() string {
	return e.Message
}

// Result is either an Answer or an ErrorInfo, never both.
type Result struct {
	answer *Answer
	err    *ErrorInfo
}

// Success wraps an answer.
func Success(a Answer) Result {
	return Result{answer: &a}
}

// Failure wraps a classified error.
func Failure(kind ErrorKind, message string) Result {
	return Result{err: &ErrorInfo{Kind: kind, Message: message}}
}

// Answer returns the answer and true on success.
func (r Result) Answer() (Answer, bool) {
	if r.answer == nil {
		return Answer{}, false
	}
	return *r.answer, true
}

// Err returns the classified error, or nil on success. The zero Result
// reports a client fault.
func (r Result) Err() *ErrorInfo {
	if r.err != nil {
		return r.err
	}
	if r.answer == nil {
		return &ErrorInfo{Kind: KindClientFault, Message: "empty result"}
	}
	return nil
}
