package qa

// Outcome is the raw result of one transport attempt. Exactly one of
// HTTPSuccess, HTTPFailure, NoResponse or SetupFault.
type Outcome interface {
	outcome()
}

// HTTPSuccess is a 2xx response whose body has not been interpreted yet.
type HTTPSuccess struct {
	Status int
	Body   []byte
}

// HTTPFailure is a non-2xx response.
type HTTPFailure struct {
	Status     int
	StatusText string
	Body       []byte
}

// NoResponse means the request went out but no complete response came back:
// refused connection, DNS failure, timeout, or a body cut off mid-read.
type NoResponse struct {
	Err error
}

// SetupFault means the request never left the client.
type SetupFault struct {
	Message string
}

func (HTTPSuccess) outcome() {}
func (HTTPFailure) outcome() {}
func (NoResponse) outcome()  {}
func (SetupFault) outcome()  {}

// OutcomeLabel names an outcome for logs and metrics.
func OutcomeLabel(o Outcome) string {
	switch o.(type) {
	case HTTPSuccess:
		return "success"
	case HTTPFailure:
		return "http_failure"
	case NoResponse:
		return "no_response"
	case SetupFault:
		return "setup_fault"
	default:
		return "unknown"
	}
}
