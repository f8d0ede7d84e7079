package models

// KPI names in presentation order.
const (
	KPIVelocity       = "velocity"
	KPIConcentration  = "concentration"
	KPIEngagement     = "engagement"
	KPIIndependence   = "independence"
	KPILearning       = "learning"
	KPIVersatility    = "versatility"
	KPIHeterogeneity  = "heterogeneity"
	KPIComplexity     = "complexity"
	KPICollaboration  = "collaboration"
	KPISociability    = "sociability"
	KPIParticipation  = "participation"
	KPIConnection     = "connection"
	KPIManagement     = "management"
	KPIGuidance       = "guidance"
	KPIResponsibility = "responsibility"
)

// KPINames lists all derived indicators in a stable order.
var KPINames = []string{
	KPIVelocity, KPIConcentration, KPIEngagement, KPIIndependence,
	KPILearning, KPIVersatility, KPIHeterogeneity, KPIComplexity,
	KPICollaboration, KPISociability, KPIParticipation, KPIConnection,
	KPIManagement, KPIGuidance, KPIResponsibility,
}

// DimensionNames lists the four score dimensions in a stable order.
var DimensionNames = []string{"productivity", "adaptability", "teamwork", "mentoring"}

// Dimensions maps each dimension to its member KPIs. Concentration,
// heterogeneity and collaboration are computed and reported but belong to
// no dimension; they are kept out of the final selection.
var Dimensions = map[string][]string{
	"productivity": {KPIVelocity, KPIEngagement, KPIIndependence},
	"adaptability": {KPILearning, KPIVersatility, KPIComplexity},
	"teamwork":     {KPISociability, KPIParticipation, KPIConnection},
	"mentoring":    {KPIManagement, KPIGuidance, KPIResponsibility},
}

// Metrics holds the 15 raw KPI ratios for one user. A nil value means the
// ratio is undefined (zero or empty denominator) and must be excluded
// from any downstream aggregation.
type Metrics struct {
	User           string   `json:"user"`
	Velocity       *float64 `json:"velocity"`
	Concentration  *float64 `json:"concentration"`
	Engagement     *float64 `json:"engagement"`
	Independence   *float64 `json:"independence"`
	Learning       *float64 `json:"learning"`
	Versatility    *float64 `json:"versatility"`
	Heterogeneity  *float64 `json:"heterogeneity"`
	Complexity     *float64 `json:"complexity"`
	Collaboration  *float64 `json:"collaboration"`
	Sociability    *float64 `json:"sociability"`
	Participation  *float64 `json:"participation"`
	Connection     *float64 `json:"connection"`
	Management     *float64 `json:"management"`
	Guidance       *float64 `json:"guidance"`
	Responsibility *float64 `json:"responsibility"`
}

// Get returns the KPI value by name, nil for unknown names
func (m *Metrics) Get(name string) *float64 {
	switch name {
	case KPIVelocity:
		return m.Velocity
	case KPIConcentration:
		return m.Concentration
	case KPIEngagement:
		return m.Engagement
	case KPIIndependence:
		return m.Independence
	case KPILearning:
		return m.Learning
	case KPIVersatility:
		return m.Versatility
	case KPIHeterogeneity:
		return m.Heterogeneity
	case KPIComplexity:
		return m.Complexity
	case KPICollaboration:
		return m.Collaboration
	case KPISociability:
		return m.Sociability
	case KPIParticipation:
		return m.Participation
	case KPIConnection:
		return m.Connection
	case KPIManagement:
		return m.Management
	case KPIGuidance:
		return m.Guidance
	case KPIResponsibility:
		return m.Responsibility
	}
	return nil
}
