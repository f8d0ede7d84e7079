package services

import (
	"math"
	"sort"
	"time"

	"github.com/worklens/worklens/internal/models"
	"github.com/worklens/worklens/pkg/logger"
)

// AggregationService computes per-user aggregates over a date window.
// Numerator-style totals span the full filtered window while every
// share-style denominator is restricted to the user's own active
// sub-interval, so short-tenure users are measured against what happened
// while they were active.
type AggregationService struct {
	projectLeaderShare float64
	minYearlyHours     float64
}

// NewAggregationService creates a new aggregation service
func NewAggregationService(projectLeaderShare, minYearlyHours float64) *AggregationService {
	return &AggregationService{
		projectLeaderShare: projectLeaderShare,
		minYearlyHours:     minYearlyHours,
	}
}

// AggregateUsers filters the enriched rows to the requested interval
// (clamped to the observed span; nil means the full span), groups them by
// user and computes the full per-user aggregate set. Users below the
// minimum-hours threshold are dropped entirely. The clamped interval and
// the number of dropped users are returned alongside the aggregates.
func (s *AggregationService) AggregateUsers(rows []*models.EnrichedWorklog, requested *models.Interval) ([]*models.UserInterval, models.Interval, int) {
	if len(rows) == 0 {
		return nil, models.Interval{}, 0
	}

	// Clamp the requested interval to the observed span
	observed := models.Interval{Start: rows[0].Date, End: rows[0].Date}
	for _, row := range rows {
		if row.Date.Before(observed.Start) {
			observed.Start = row.Date
		}
		if row.Date.After(observed.End) {
			observed.End = row.Date
		}
	}
	interval := observed
	if requested != nil {
		interval = requested.Clamp(observed)
	}

	filtered := make([]*models.EnrichedWorklog, 0, len(rows))
	for _, row := range rows {
		if interval.Contains(row.Date) {
			filtered = append(filtered, row)
		}
	}
	if len(filtered) == 0 {
		return nil, interval, 0
	}

	// An issue is closed within this window when its global last log
	// date does not cross the interval end
	isClosed := func(row *models.EnrichedWorklog) bool {
		return !row.IssueMaxDate.After(interval.End)
	}

	users := s.baseAggregates(filtered)

	// Order users for deterministic output
	ids := make([]string, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	s.dailyRates(filtered, users)
	for _, id := range ids {
		u := users[id]
		u.ExpectedHours = float64(businessDays(u.MinDate, u.MaxDate)) * u.DailyHours
	}

	s.leadershipAggregates(filtered, users, isClosed)

	// Per-user active sub-interval: the subset of all filtered rows whose
	// date falls inside the user's own [min_date, max_date] span. Every
	// share denominator below is computed over this subset, once, here.
	sub := make(map[string][]*models.EnrichedWorklog, len(users))
	for _, id := range ids {
		u := users[id]
		span := models.Interval{Start: u.MinDate, End: u.MaxDate}
		for _, row := range filtered {
			if span.Contains(row.Date) {
				sub[id] = append(sub[id], row)
			}
		}
	}

	s.reportingAggregates(filtered, users, sub)
	s.collaborationAggregates(filtered, users, sub)
	s.dedicationAggregates(filtered, users, sub)

	// Drop users with too little signal to evaluate
	retained := make([]*models.UserInterval, 0, len(ids))
	dropped := 0
	for _, id := range ids {
		if users[id].Hours < s.minYearlyHours {
			dropped++
			continue
		}
		retained = append(retained, users[id])
	}

	logger.WithFields(map[string]interface{}{
		"rows":    len(filtered),
		"users":   len(retained),
		"dropped": dropped,
		"start":   interval.Start.Format("2006-01-02"),
		"end":     interval.End.Format("2006-01-02"),
	}).Info("aggregated user intervals")

	return retained, interval, dropped
}

// baseAggregates sums the time-category columns and collects the per-user
// date span, log count and distinct-issue count
func (s *AggregationService) baseAggregates(filtered []*models.EnrichedWorklog) map[string]*models.UserInterval {
	users := make(map[string]*models.UserInterval)
	issuesSeen := make(map[string]map[string]struct{})

	for _, row := range filtered {
		u, ok := users[row.User]
		if !ok {
			u = &models.UserInterval{
				User:         row.User,
				MinDate:      row.Date,
				MaxDate:      row.Date,
				ProjectHours: make(map[string]float64),
				TypeHours:    make(map[string]float64),
			}
			users[row.User] = u
			issuesSeen[row.User] = make(map[string]struct{})
		}

		u.Hours += row.Hours
		u.BugTime += row.BugTime
		u.LearningTime += row.LearningTime
		u.MeetingTime += row.MeetingTime
		u.ManagingTime += row.ManagingTime
		u.CollaborationTime += row.CollaborationTime
		u.ParticipationTime += row.ParticipationTime
		u.LeadingTime += row.LeadingTime
		u.Logs++
		issuesSeen[row.User][row.Issue] = struct{}{}

		if row.Date.Before(u.MinDate) {
			u.MinDate = row.Date
		}
		if row.Date.After(u.MaxDate) {
			u.MaxDate = row.Date
		}

		if row.IssueProject != "" {
			u.ProjectHours[row.IssueProject] += row.Hours
		}
		if row.IssueType != "" {
			u.TypeHours[row.IssueType] += row.Hours
		}
	}

	for id, u := range users {
		u.Issues = len(issuesSeen[id])
		u.DurationDays = models.DaysBetween(u.MinDate, u.MaxDate)
	}
	return users
}

// dailyRates computes each user's average logged hours across their
// active days, rounded to the nearest whole hour and capped at 8
func (s *AggregationService) dailyRates(filtered []*models.EnrichedWorklog, users map[string]*models.UserInterval) {
	byUserDate := make(map[string]map[time.Time]float64)
	for _, row := range filtered {
		if byUserDate[row.User] == nil {
			byUserDate[row.User] = make(map[time.Time]float64)
		}
		byUserDate[row.User][row.Date] += row.Hours
	}

	for id, u := range users {
		days := byUserDate[id]
		if len(days) == 0 {
			continue
		}
		var total float64
		for _, hours := range days {
			total += hours
		}
		rate := math.Round(total / float64(len(days)))
		if rate > 8 {
			rate = 8
		}
		u.DailyHours = rate
	}
}

// leadershipAggregates groups rows by issue leader to compute leading
// volume, helped time and led-issue counts/durations, both over all
// issues and restricted to closed issues
func (s *AggregationService) leadershipAggregates(filtered []*models.EnrichedWorklog, users map[string]*models.UserInterval, isClosed func(*models.EnrichedWorklog) bool) {
	volume := make(map[string]float64)
	closedVolume := make(map[string]float64)
	ledDurations := make(map[string]map[string]int)
	ledClosedDurations := make(map[string]map[string]int)

	for _, row := range filtered {
		if row.IssueLeader == "" {
			continue
		}
		leader := row.IssueLeader
		volume[leader] += row.Hours
		if ledDurations[leader] == nil {
			ledDurations[leader] = make(map[string]int)
		}
		ledDurations[leader][row.Issue] = row.IssueDurationDays

		if isClosed(row) {
			closedVolume[leader] += row.Hours
			if ledClosedDurations[leader] == nil {
				ledClosedDurations[leader] = make(map[string]int)
			}
			ledClosedDurations[leader][row.Issue] = row.IssueDurationDays
		}
	}

	for id, u := range users {
		u.LeadingVolume = volume[id]
		u.HelpedTime = u.LeadingVolume - u.LeadingTime
		u.LeadingIssues = len(ledDurations[id])
		u.LeadingDuration = scaledMeanDuration(ledDurations[id], u.DailyHours)
		u.LeadingClosedVolume = closedVolume[id]
		u.LeadingClosedIssues = len(ledClosedDurations[id])
		u.LeadingClosedDuration = scaledMeanDuration(ledClosedDurations[id], u.DailyHours)
	}
}

// scaledMeanDuration averages issue durations across led issues and
// rescales calendar days into the user's personal-hour units
func scaledMeanDuration(durations map[string]int, dailyHours float64) *float64 {
	if len(durations) == 0 {
		return nil
	}
	var total float64
	for _, days := range durations {
		total += float64(days)
	}
	mean := total / float64(len(durations)) * dailyHours / 8
	return &mean
}

// reportingAggregates computes reporting volume (hours logged by anyone
// on issues this user reported) and its share of all reported-issue hours
// within the user's sub-interval
func (s *AggregationService) reportingAggregates(filtered []*models.EnrichedWorklog, users map[string]*models.UserInterval, sub map[string][]*models.EnrichedWorklog) {
	volume := make(map[string]float64)
	for _, row := range filtered {
		if row.IssueReporter != "" {
			volume[row.IssueReporter] += row.Hours
		}
	}

	for id, u := range users {
		u.ReportingVolume = volume[id]
		for _, row := range sub[id] {
			if row.IssueReporter != "" {
				u.ReportingTotalInterval += row.Hours
			}
		}
		u.ReportingShare = models.Ratio(u.ReportingVolume, u.ReportingTotalInterval)
	}
}

// collaborationAggregates counts the distinct leaders each user worked
// under and the distinct users active within each sub-interval
func (s *AggregationService) collaborationAggregates(filtered []*models.EnrichedWorklog, users map[string]*models.UserInterval, sub map[string][]*models.EnrichedWorklog) {
	leaders := make(map[string]map[string]struct{})
	for _, row := range filtered {
		if row.IssueLeader == "" || row.IssueLeader == row.User {
			continue
		}
		if leaders[row.User] == nil {
			leaders[row.User] = make(map[string]struct{})
		}
		leaders[row.User][row.IssueLeader] = struct{}{}
	}

	for id, u := range users {
		u.HelpedUsers = len(leaders[id])

		active := make(map[string]struct{})
		for _, row := range sub[id] {
			active[row.User] = struct{}{}
		}
		u.UsersTotalInterval = len(active)
	}
}

// dedicationAggregates computes project/type dispersion, bug share and
// led-project counts, all against the user's sub-interval
func (s *AggregationService) dedicationAggregates(filtered []*models.EnrichedWorklog, users map[string]*models.UserInterval, sub map[string][]*models.EnrichedWorklog) {
	// Hours by (date, project) over the whole filtered window
	byDateProject := make(map[time.Time]map[string]float64)
	for _, row := range filtered {
		if row.IssueProject == "" {
			continue
		}
		if byDateProject[row.Date] == nil {
			byDateProject[row.Date] = make(map[string]float64)
		}
		byDateProject[row.Date][row.IssueProject] += row.Hours
	}

	for id, u := range users {
		// Projects, types and dates active in the user's sub-interval
		projects := make(map[string]struct{})
		types := make(map[string]struct{})
		dates := make(map[time.Time]struct{})
		for _, row := range sub[id] {
			if row.IssueProject != "" {
				projects[row.IssueProject] = struct{}{}
			}
			if row.IssueType != "" {
				types[row.IssueType] = struct{}{}
			}
			dates[row.Date] = struct{}{}
			u.BugsTotalInterval += row.BugTime
		}

		// Dispersion of the user's hours across active projects/types,
		// normalized by total hours; undefined below two columns
		u.ProjectsStd = normalizedStd(valuesFor(u.ProjectHours, projects), u.Hours)
		u.TypesStd = normalizedStd(valuesFor(u.TypeHours, types), u.Hours)

		u.BugTimeShare = models.Ratio(u.BugTime, u.BugsTotalInterval)

		// Led projects: the user's share of each project's hours on
		// their active dates, counted above the project-leader threshold
		for project := range projects {
			var projectTotal float64
			for date := range dates {
				projectTotal += byDateProject[date][project]
			}
			if projectTotal > 0 && u.ProjectHours[project]/projectTotal > s.projectLeaderShare {
				u.LeadingProjects++
			}
		}
		u.LeadingProjectShare = models.Ratio(float64(u.LeadingProjects), float64(len(projects)))
	}
}

// valuesFor collects the user's hours for each active column, zero when
// the user never logged on it
func valuesFor(hours map[string]float64, active map[string]struct{}) []float64 {
	values := make([]float64, 0, len(active))
	for col := range active {
		values = append(values, hours[col])
	}
	return values
}

// normalizedStd returns the sample standard deviation divided by total,
// nil when fewer than two values or the total is zero
func normalizedStd(values []float64, total float64) *float64 {
	std := sampleStd(values)
	if std == nil || total == 0 {
		return nil
	}
	return models.Float(*std / total)
}

// sampleStd computes the sample (n-1) standard deviation, nil for fewer
// than two values
func sampleStd(values []float64) *float64 {
	n := len(values)
	if n < 2 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	var ss float64
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return models.Float(math.Sqrt(ss / float64(n-1)))
}

// businessDays counts Monday-Friday days in the inclusive date range
func businessDays(start, end time.Time) int {
	count := 0
	for d := models.Day(start); !d.After(models.Day(end)); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count
}
