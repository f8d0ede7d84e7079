package services

import (
	"math"

	"github.com/worklens/worklens/internal/models"
)

// PerformanceService standardizes the KPI columns and aggregates them
// into dimension scores and one overall performance score per user.
type PerformanceService struct {
	clipLimit float64
}

// NewPerformanceService creates a new performance service
func NewPerformanceService(clipLimit float64) *PerformanceService {
	return &PerformanceService{clipLimit: clipLimit}
}

// Normalize z-scores every KPI column across all retained users, clips to
// [-limit, +limit] and rescales linearly to [0, 1]. Undefined values stay
// undefined and are skipped by the column statistics and the dimension
// means. A column whose defined values cannot produce a standard
// deviation (fewer than two, or zero spread) normalizes to undefined.
func (s *PerformanceService) Normalize(metrics []*models.Metrics) []*models.Performance {
	limit := s.clipLimit

	standardized := make(map[string][]*float64, len(models.KPINames))
	for _, name := range models.KPINames {
		column := make([]*float64, len(metrics))
		for i, m := range metrics {
			column[i] = m.Get(name)
		}
		standardized[name] = standardizeColumn(column, limit)
	}

	results := make([]*models.Performance, 0, len(metrics))
	for i, m := range metrics {
		p := &models.Performance{
			User: m.User,
			KPIs: make(map[string]*float64, len(models.KPINames)),
		}
		for _, name := range models.KPINames {
			p.KPIs[name] = standardized[name][i]
		}

		dimensionScores := make([]*float64, 0, len(models.DimensionNames))
		for _, dimension := range models.DimensionNames {
			members := make([]*float64, 0, len(models.Dimensions[dimension]))
			for _, kpi := range models.Dimensions[dimension] {
				members = append(members, p.KPIs[kpi])
			}
			score := meanDefined(members)
			dimensionScores = append(dimensionScores, score)
			switch dimension {
			case "productivity":
				p.Productivity = score
			case "adaptability":
				p.Adaptability = score
			case "teamwork":
				p.Teamwork = score
			case "mentoring":
				p.Mentoring = score
			}
		}

		// Unweighted mean across dimensions; the configured dimension
		// weights are intentionally not applied here.
		p.Overall = meanDefined(dimensionScores)
		results = append(results, p)
	}

	return results
}

// standardizeColumn z-scores, clips and rescales one KPI column. Column
// statistics run over defined values only.
func standardizeColumn(column []*float64, limit float64) []*float64 {
	defined := make([]float64, 0, len(column))
	for _, v := range column {
		if v != nil {
			defined = append(defined, *v)
		}
	}

	out := make([]*float64, len(column))
	std := sampleStd(defined)
	if std == nil || *std == 0 {
		return out
	}
	var sum float64
	for _, v := range defined {
		sum += v
	}
	mean := sum / float64(len(defined))

	for i, v := range column {
		if v == nil {
			continue
		}
		z := (*v - mean) / *std
		z = math.Max(-limit, math.Min(limit, z))
		out[i] = models.Float((z + limit) / (2 * limit))
	}
	return out
}

// meanDefined averages the defined values, nil when all are undefined
func meanDefined(values []*float64) *float64 {
	var sum float64
	n := 0
	for _, v := range values {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return models.Float(sum / float64(n))
}
