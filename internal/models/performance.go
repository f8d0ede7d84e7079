package models

// Performance holds one user's standardized KPIs, the four dimension
// scores and the overall score. Standardized values lie in [0,1]; nil
// marks a KPI whose column could not be standardized or whose raw value
// was undefined.
type Performance struct {
	User         string              `json:"user"`
	KPIs         map[string]*float64 `json:"kpis"`
	Productivity *float64            `json:"productivity"`
	Adaptability *float64            `json:"adaptability"`
	Teamwork     *float64            `json:"teamwork"`
	Mentoring    *float64            `json:"mentoring"`
	Overall      *float64            `json:"performance"`
}

// Dimension returns the named dimension score, nil for unknown names
func (p *Performance) Dimension(name string) *float64 {
	switch name {
	case "productivity":
		return p.Productivity
	case "adaptability":
		return p.Adaptability
	case "teamwork":
		return p.Teamwork
	case "mentoring":
		return p.Mentoring
	}
	return nil
}
