// Package render draws the workflow state on a terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spigell/applicant/internal/portal"
	"github.com/spigell/applicant/internal/workflow"
)

const jobID = "#JOB-2024-001"

// Console renders state changes as text, or as JSON documents when JSON is set.
type Console struct {
	w    io.Writer
	JSON bool
	prev *workflow.State
}

func NewConsole(w io.Writer, asJSON bool) *Console {
	return &Console{w: w, JSON: asJSON}
}

// Drain renders the states pending on updates without blocking.
// Only concerns that changed since the last rendered state are redrawn.
func (c *Console) Drain(updates <-chan workflow.State) {
	for {
		select {
		case st, ok := <-updates:
			if !ok {
				return
			}
			c.Render(c.prev, st)
			c.prev = &st
		default:
			return
		}
	}
}

// Render draws the parts of cur that differ from prev. A nil prev draws everything.
func (c *Console) Render(prev *workflow.State, cur workflow.State) {
	if c.JSON {
		if prev == nil || jobChanged(*prev, cur) || submissionChanged(*prev, cur) {
			c.renderJSON(cur)
		}
		return
	}

	if prev == nil || jobChanged(*prev, cur) {
		c.renderJob(cur)
	}
	if prev == nil || submissionChanged(*prev, cur) {
		c.renderSubmission(cur)
	}
}

func jobChanged(prev, cur workflow.State) bool {
	return prev.JobPhase != cur.JobPhase || prev.JobPosting != cur.JobPosting || prev.JobLoadError != cur.JobLoadError
}

func submissionChanged(prev, cur workflow.State) bool {
	return prev.Phase != cur.Phase || prev.AttemptID != cur.AttemptID ||
		prev.LastResult != cur.LastResult || prev.LastError != cur.LastError
}

func (c *Console) renderJob(st workflow.State) {
	switch st.JobPhase {
	case workflow.JobLoading:
		fmt.Fprintln(c.w, "Position details: loading exciting opportunities for you...")
	case workflow.JobLoaded:
		fmt.Fprint(c.w, JobCard(st.JobPosting))
	case workflow.JobFailed:
		fmt.Fprintf(c.w, "Warning: %s\n", st.JobLoadError)
	}
}

func (c *Console) renderSubmission(st workflow.State) {
	switch st.Phase {
	case workflow.PhaseInFlight:
		fmt.Fprintln(c.w, "Analysis in progress: reviewing your profile against the requirements...")
	case workflow.PhaseSucceeded:
		fmt.Fprint(c.w, ResultCard(st.LastResult))
	case workflow.PhaseFailed:
		fmt.Fprintf(c.w, "Error: %s\n", st.LastError)
		// a failed validation keeps the previous result on screen
		if st.LastResult != nil {
			fmt.Fprint(c.w, ResultCard(st.LastResult))
		}
	}
}

// JobCard formats the job posting.
func JobCard(job *portal.JobPosting) string {
	if job == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("== Position details ==\n")
	fmt.Fprintf(&b, "Job ID:           %s\n", jobID)
	fmt.Fprintf(&b, "Title:            %s\n", job.JobTitle)
	fmt.Fprintf(&b, "Description:      %s\n", job.JobDetails)
	fmt.Fprintf(&b, "Requirements:     %s\n", job.Requirements)
	fmt.Fprintf(&b, "Experience level: %s\n", job.Experience)
	b.WriteString("Key skills:      ")
	for _, skill := range job.Skills() {
		fmt.Fprintf(&b, " [%s]", skill)
	}
	b.WriteString("\n")

	return b.String()
}

// Badge is the decision label. Accepted and rejected decisions are styled differently.
func Badge(d portal.Decision) string {
	if d.IsAccepted() {
		return "[ACCEPTED]"
	}
	return "[REJECTED]"
}

// ResultCard formats an assessment.
func ResultCard(result *portal.Assessment) string {
	if result == nil {
		return ""
	}

	title := "== Application assessment =="
	if !result.Decision.IsAccepted() {
		title = "== Application assessment (not selected) =="
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	fmt.Fprintf(&b, "Decision:            %s %s\n", Badge(result.Decision), result.Decision)
	fmt.Fprintf(&b, "Compatibility score: %v\n", result.CompatibilityScore)
	fmt.Fprintf(&b, "Detailed analysis:   %s\n", result.Justification)

	return b.String()
}

type stateDocument struct {
	Job          *portal.JobPosting `json:"job,omitempty"`
	JobPhase     string             `json:"job_phase"`
	JobLoadError string             `json:"job_load_error,omitempty"`
	Phase        string             `json:"phase"`
	AttemptID    string             `json:"attempt_id,omitempty"`
	Result       *portal.Assessment `json:"result,omitempty"`
	Error        string             `json:"error,omitempty"`
}

func (c *Console) renderJSON(st workflow.State) {
	doc := stateDocument{
		Job:          st.JobPosting,
		JobPhase:     st.JobPhase.String(),
		JobLoadError: st.JobLoadError,
		Phase:        st.Phase.String(),
		AttemptID:    st.AttemptID,
		Result:       st.LastResult,
		Error:        st.LastError,
	}

	// do not bother error since the document has only plain fields
	out, _ := json.Marshal(doc)
	fmt.Fprintln(c.w, string(out))
}
