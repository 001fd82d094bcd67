package domain

// DashboardStats is the headline summary of the dashboard.
type DashboardStats struct {
	TotalCustomers     int     `json:"totalCustomers"`
	PendingInspections int     `json:"pendingInspections"`
	CompletedThisMonth int     `json:"completedThisMonth"`
	MonthlyRevenue     float64 `json:"monthlyRevenue"`
}

// Distribution is one slice of a category breakdown, used for job statuses
// and customer types alike.
type Distribution struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// MonthlyTrend is the job volume and completed revenue of one calendar month.
type MonthlyTrend struct {
	Month   string  `json:"month"`
	Jobs    int     `json:"jobs"`
	Revenue float64 `json:"revenue"`
}

// WeeklyJobs is the job count of one day, split by job type.
type WeeklyJobs struct {
	Day           string `json:"day"`
	Date          string `json:"date"`
	Jobs          int    `json:"jobs"`
	Inspections   int    `json:"inspections"`
	Installations int    `json:"installations"`
	Maintenance   int    `json:"maintenance"`
	Emergency     int    `json:"emergency"`
}

// Add counts one job of type t.
func (w *WeeklyJobs) Add(t JobType, n int) {
	switch t {
	case JobInspection:
		w.Inspections += n
	case JobInstallation:
		w.Installations += n
	case JobMaintenance:
		w.Maintenance += n
	case JobEmergency:
		w.Emergency += n
	default:
		return
	}
	w.Jobs += n
}

// RevenueByJobType is the completed revenue and job count of one job type.
type RevenueByJobType struct {
	JobType string  `json:"jobType"`
	Revenue float64 `json:"revenue"`
	Jobs    int     `json:"jobs"`
}
