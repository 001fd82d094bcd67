package adminapi

import (
	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
	"github.com/talkincode/jobdesk/internal/webserver"
)

// registerDashboardRoutes registers the dashboard aggregate routes
func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard/stats", getDashboardStats)
	webserver.ApiGET("/dashboard/job-status-distribution", getJobStatusDistribution)
	webserver.ApiGET("/dashboard/monthly-trends", getMonthlyTrends)
	webserver.ApiGET("/dashboard/customer-type-distribution", getCustomerTypeDistribution)
	webserver.ApiGET("/dashboard/weekly-jobs", getWeeklyJobs)
	webserver.ApiGET("/dashboard/revenue-by-job-type", getRevenueByJobType)
}

// money rounds a summed price to cents; float sums of decimal prices drift.
func money(v float64) float64 {
	r, err := stats.Round(v, 2)
	if err != nil {
		return v
	}
	return r
}

func getDashboardStats(c echo.Context) error {
	st, err := GetStorage(c).GetDashboardStats(c.Request().Context())
	if err != nil {
		return storeFail(c, err, "Stats", "fetch dashboard stats")
	}
	st.MonthlyRevenue = money(st.MonthlyRevenue)
	return ok(c, st)
}

func getJobStatusDistribution(c echo.Context) error {
	dist, err := GetStorage(c).GetJobStatusDistribution(c.Request().Context())
	if err != nil {
		return storeFail(c, err, "Distribution", "fetch job status distribution")
	}
	return ok(c, dist)
}

func getMonthlyTrends(c echo.Context) error {
	trends, err := GetStorage(c).GetMonthlyTrends(c.Request().Context())
	if err != nil {
		return storeFail(c, err, "Trends", "fetch monthly trends")
	}
	for i := range trends {
		trends[i].Revenue = money(trends[i].Revenue)
	}
	return ok(c, trends)
}

func getCustomerTypeDistribution(c echo.Context) error {
	dist, err := GetStorage(c).GetCustomerTypeDistribution(c.Request().Context())
	if err != nil {
		return storeFail(c, err, "Distribution", "fetch customer type distribution")
	}
	return ok(c, dist)
}

func getWeeklyJobs(c echo.Context) error {
	weekly, err := GetStorage(c).GetWeeklyJobsData(c.Request().Context())
	if err != nil {
		return storeFail(c, err, "Weekly data", "fetch weekly jobs data")
	}
	return ok(c, weekly)
}

func getRevenueByJobType(c echo.Context) error {
	revenue, err := GetStorage(c).GetRevenueByJobType(c.Request().Context())
	if err != nil {
		return storeFail(c, err, "Revenue", "fetch revenue by job type")
	}
	for i := range revenue {
		revenue[i].Revenue = money(revenue[i].Revenue)
	}
	return ok(c, revenue)
}
