package portal

import (
	"context"
	"fmt"
	"strings"
)

// JobPosting is the single advertised position. It is read-only once fetched.
type JobPosting struct {
	JobTitle     string `json:"job_title"`
	JobDetails   string `json:"job_details"`
	Requirements string `json:"requirements"`
	Experience   string `json:"experience"`
	// Skills is a comma-delimited list. Use Skills() to get the tokens.
	SkillList string `json:"skills"`
}

func (c *Client) getJob(ctx context.Context) (*JobPosting, error) {
	var job JobPosting
	if err := c.getJSON(ctx, c.JobPath, &job); err != nil {
		return nil, fmt.Errorf("get job details: %w", err)
	}

	return &job, nil
}

// Skills splits the skill list into trimmed, non-empty tokens.
func (j *JobPosting) Skills() []string {
	if j == nil {
		return nil
	}

	parts := strings.Split(j.SkillList, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		skill := strings.TrimSpace(part)
		if skill == "" {
			continue
		}
		skills = append(skills, skill)
	}

	return skills
}
