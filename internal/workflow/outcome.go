package workflow

import "github.com/spigell/applicant/internal/portal"

const (
	MsgJobLoadFailed   = "Could not load job details. Please try refreshing the page."
	MsgAnalysisFailed  = "Error analyzing resume"
	MsgNetworkError    = "Network error. Please check your connection and try again."
	MsgInvalidResponse = "Received an invalid response from the assessment service."
)

// Outcome is the terminal result of one admitted submission:
// Succeeded, Rejected, TransportFailure or Malformed.
type Outcome interface {
	// Message is the user-facing text, empty for success.
	Message() string
	outcome()
}

// Succeeded carries the assessment of a well-formed 2xx reply.
type Succeeded struct {
	Result *portal.Assessment
}

// Rejected means the service answered with a non-2xx status.
type Rejected struct {
	StatusCode int
	Reason     string
}

// TransportFailure means no response was obtained.
type TransportFailure struct {
	Err error
}

// Malformed means a 2xx reply could not be parsed.
type Malformed struct {
	Err error
}

func (Succeeded) Message() string        { return "" }
func (r Rejected) Message() string       { return r.Reason }
func (TransportFailure) Message() string { return MsgNetworkError }
func (Malformed) Message() string        { return MsgInvalidResponse }

func (Succeeded) outcome()        {}
func (Rejected) outcome()         {}
func (TransportFailure) outcome() {}
func (Malformed) outcome()        {}
