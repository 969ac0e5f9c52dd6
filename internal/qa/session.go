package qa

import (
	"context"
	"strings"
)

// State is the session's current variant: Idle, Submitting, Succeeded or Failed.
type State interface {
	state()
}

// Idle is the state before the first submission.
type Idle struct{}

// Submitting means a question is in flight.
type Submitting struct {
	Query string
	Seq   uint64
}

// Succeeded holds the latest answer.
type Succeeded struct {
	Answer Answer
}

// Failed holds the latest classified error.
type Failed struct {
	Err ErrorInfo
}

func (Idle) state()       {}
func (Submitting) state() {}
func (Succeeded) state()  {}
func (Failed) state()     {}

// Ticket identifies one accepted submission.
type Ticket struct {
	Seq   uint64
	Query string
}

// Session tracks one query view's submissions. At most one is in flight.
// Not safe for concurrent use; callers serialize access.
type Session struct {
	state State
	seq   uint64
}

// NewSession returns a session in Idle.
func NewSession() *Session {
	return &Session{state: Idle{}}
}

// State returns the current variant.
func (s *Session) State() State {
	return s.state
}

// InFlight reports whether a submission awaits its result.
func (s *Session) InFlight() bool {
	_, ok := s.state.(Submitting)
	return ok
}

// Submit starts a submission for the trimmed text. It returns false and
// leaves the state unchanged when the text is blank or a submission is
// already in flight.
func (s *Session) Submit(text string) (Ticket, bool) {
	query := strings.TrimSpace(text)
	if query == "" || s.InFlight() {
		return Ticket{}, false
	}
	s.seq++
	s.state = Submitting{Query: query, Seq: s.seq}
	return Ticket{Seq: s.seq, Query: query}, true
}

// Resolve applies the result for submission seq. Results for anything but
// the current in-flight submission are dropped and Resolve returns false.
func (s *Session) Resolve(seq uint64, r Result) bool {
	cur, ok := s.state.(Submitting)
	if !ok || cur.Seq != seq {
		return false
	}
	if a, ok := r.Answer(); ok {
		s.state = Succeeded{Answer: a}
	} else {
		s.state = Failed{Err: *r.Err()}
	}
	return true
}

// Run submits text, asks once and resolves. The bool is false when the
// submission was not accepted.
func (s *Session) Run(ctx context.Context, asker Asker, text string) (State, bool) {
	t, ok := s.Submit(text)
	if !ok {
		return s.state, false
	}
	s.Resolve(t.Seq, Classify(asker.Ask(ctx, t.Query)))
	return s.state, true
}
