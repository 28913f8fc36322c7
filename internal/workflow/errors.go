package workflow

import (
	"errors"
	"fmt"

	"github.com/spigell/applicant/internal/portal"
)

// ErrInFlight is returned when a submission is attempted while another one is in flight.
var ErrInFlight = errors.New("a submission is already in flight")

// ValidationError is the local pre-flight error of a submission.
type ValidationError = portal.ValidationError

// LoadError is returned when the job posting could not be loaded.
type LoadError struct {
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SubmissionKind tells why an admitted submission failed.
type SubmissionKind string

const (
	SubmissionRejected  SubmissionKind = "rejected"
	SubmissionTransport SubmissionKind = "transport"
	SubmissionMalformed SubmissionKind = "malformed"
)

// SubmissionError is the error form of a failed Outcome.
type SubmissionError struct {
	Kind    SubmissionKind
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submission %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("submission %s: %s", e.Kind, e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// OutcomeError converts a failed outcome into a *SubmissionError. It returns nil for success.
func OutcomeError(o Outcome) error {
	switch v := o.(type) {
	case Rejected:
		return &SubmissionError{Kind: SubmissionRejected, Message: v.Message(), Err: fmt.Errorf("status %d", v.StatusCode)}
	case TransportFailure:
		return &SubmissionError{Kind: SubmissionTransport, Message: v.Message(), Err: v.Err}
	case Malformed:
		return &SubmissionError{Kind: SubmissionMalformed, Message: v.Message(), Err: v.Err}
	default:
		return nil
	}
}
