package storage

import (
	"sort"
	"time"

	"github.com/talkincode/jobdesk/internal/domain"
)

const defaultColor = "#6b7280"

var statusColors = map[string]string{
	string(domain.JobScheduled):  "#3b82f6",
	string(domain.JobInProgress): "#f59e0b",
	string(domain.JobCompleted):  "#10b981",
	string(domain.JobOverdue):    "#ef4444",
	string(domain.JobCancelled):  "#6b7280",
}

var customerTypeColors = map[string]string{
	string(domain.CustomerCommercial):  "#3b82f6",
	string(domain.CustomerResidential): "#10b981",
	string(domain.CustomerIndustrial):  "#8b5cf6",
}

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ColorOf returns the palette color of a job status or customer type.
func ColorOf(name string) string {
	if c, ok := statusColors[name]; ok {
		return c
	}
	if c, ok := customerTypeColors[name]; ok {
		return c
	}
	return defaultColor
}

// distribution lists categories with at least one record: known ones in
// order, unknown ones after them by name.
func distribution(order []string, counts map[string]int, colors map[string]string) []domain.Distribution {
	out := make([]domain.Distribution, 0, len(counts))
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		seen[name] = true
		if counts[name] == 0 {
			continue
		}
		out = append(out, domain.Distribution{Name: name, Value: counts[name], Color: colors[name]})
	}
	var extra []string
	for name, n := range counts {
		if !seen[name] && n > 0 {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		out = append(out, domain.Distribution{Name: name, Value: counts[name], Color: defaultColor})
	}
	return out
}

func statusOrder() []string {
	out := make([]string, len(domain.JobStatuses))
	for i, s := range domain.JobStatuses {
		out[i] = string(s)
	}
	return out
}

func customerTypeOrder() []string {
	out := make([]string, len(domain.CustomerTypes))
	for i, t := range domain.CustomerTypes {
		out[i] = string(t)
	}
	return out
}

// monthBounds returns the first day of today's month and of the next one.
func monthBounds(today domain.Date) (domain.Date, domain.Date) {
	first := domain.DateOf(today.Year(), today.Month(), 1)
	next := domain.NewDate(first.Time().AddDate(0, 1, 0))
	return first, next
}

// yearBounds returns January 1st of today's year and of the next one.
func yearBounds(today domain.Date) (domain.Date, domain.Date) {
	return domain.DateOf(today.Year(), time.January, 1), domain.DateOf(today.Year()+1, time.January, 1)
}

// inRange reports whether from <= d < to.
func inRange(d, from, to domain.Date) bool {
	return !d.IsZero() && !d.Before(from) && d.Before(to)
}

func emptyTrends() []domain.MonthlyTrend {
	out := make([]domain.MonthlyTrend, 12)
	for i := range out {
		out[i].Month = monthLabels[i]
	}
	return out
}

// weekWindow returns the seven days ending today, oldest first, zero filled,
// and an index from YYYY-MM-DD to position.
func weekWindow(today domain.Date) ([]domain.WeeklyJobs, map[string]int) {
	out := make([]domain.WeeklyJobs, 7)
	index := make(map[string]int, 7)
	for i := range out {
		d := today.AddDays(i - 6)
		out[i].Day = d.Weekday().String()[:3]
		out[i].Date = d.String()
		index[d.String()] = i
	}
	return out, index
}

func revenueByType(revenue map[domain.JobType]float64, jobs map[domain.JobType]int) []domain.RevenueByJobType {
	out := make([]domain.RevenueByJobType, 0, len(jobs))
	for _, t := range domain.JobTypes {
		if jobs[t] == 0 {
			continue
		}
		out = append(out, domain.RevenueByJobType{JobType: string(t), Revenue: revenue[t], Jobs: jobs[t]})
	}
	var extra []string
	for t, n := range jobs {
		if !t.Valid() && n > 0 {
			extra = append(extra, string(t))
		}
	}
	sort.Strings(extra)
	for _, t := range extra {
		jt := domain.JobType(t)
		out = append(out, domain.RevenueByJobType{JobType: t, Revenue: revenue[jt], Jobs: jobs[jt]})
	}
	return out
}

// sortJobs applies the canonical job order: scheduled date ascending,
// scheduled time ascending, newest first among ties.
func sortJobs(jobs []domain.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		a, b := jobs[i], jobs[j]
		if !a.ScheduledDate.Equal(b.ScheduledDate) {
			return a.ScheduledDate.Before(b.ScheduledDate)
		}
		if a.ScheduledTime != b.ScheduledTime {
			return a.ScheduledTime < b.ScheduledTime
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

const jobOrder = "scheduled_date ASC, scheduled_time ASC, created_at DESC, id ASC"
