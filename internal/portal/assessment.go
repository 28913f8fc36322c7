package portal

import (
	"fmt"
	"strings"
)

// Decision is the verdict of the assessment service.
type Decision string

const (
	DecisionAccepted Decision = "Accepted"
	DecisionRejected Decision = "Rejected"
)

// ParseDecision normalizes the wire value. Matching is case-insensitive;
// "selected" is the scoring engine's own spelling of an acceptance.
func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accepted", "selected":
		return DecisionAccepted, nil
	case "rejected":
		return DecisionRejected, nil
	default:
		return "", fmt.Errorf("unknown decision %q", s)
	}
}

func (d Decision) IsAccepted() bool {
	return d == DecisionAccepted
}

// Assessment is the immutable result of one submission.
type Assessment struct {
	Decision           Decision `json:"decision"`
	CompatibilityScore float64  `json:"compatibility_score"`
	Justification      string   `json:"justification"`
}

type assessmentReply struct {
	Decision           string  `json:"decision"`
	CompatibilityScore float64 `json:"compatibility_score"`
	Justification      string  `json:"justification"`
}

func (r *assessmentReply) toAssessment() (*Assessment, error) {
	decision, err := ParseDecision(r.Decision)
	if err != nil {
		return nil, err
	}

	return &Assessment{
		Decision:           decision,
		CompatibilityScore: r.CompatibilityScore,
		Justification:      r.Justification,
	}, nil
}
