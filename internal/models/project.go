package models

// Project represents the features extracted for one project. Leadership
// attribution follows the same dominant-share rule as issues but with the
// lower project-leader threshold; shares over a single project's hours sum
// to 1, so at most one leader is ever assigned.
type Project struct {
	ID           string   `json:"id"`
	Leader       string   `json:"leader"`
	LeaderShare  *float64 `json:"leader_share"`
	Participants int      `json:"participants"`
	Hours        float64  `json:"hours"`
	GlobalShare  *float64 `json:"global_share"`
	Issues       int      `json:"issues"`
}

// HasLeader reports whether leadership attribution succeeded for this project
func (p *Project) HasLeader() bool {
	return p.Leader != ""
}
