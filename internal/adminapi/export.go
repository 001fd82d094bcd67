package adminapi

import (
	"net/http"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/talkincode/jobdesk/internal/webserver"
)

type customerRow struct {
	ID             string `csv:"id"`
	CompanyName    string `csv:"company_name"`
	ContactPerson  string `csv:"contact_person"`
	Email          string `csv:"email"`
	Phone          string `csv:"phone"`
	Address        string `csv:"address"`
	CustomerType   string `csv:"customer_type"`
	Status         string `csv:"status"`
	LastInspection string `csv:"last_inspection"`
	NextDue        string `csv:"next_due"`
	CreatedAt      string `csv:"created_at"`
}

type jobRow struct {
	ID                string `csv:"id"`
	CustomerID        string `csv:"customer_id"`
	CompanyName       string `csv:"company_name"`
	Title             string `csv:"title"`
	Description       string `csv:"description"`
	JobType           string `csv:"job_type"`
	Status            string `csv:"status"`
	ScheduledDate     string `csv:"scheduled_date"`
	ScheduledTime     string `csv:"scheduled_time"`
	EstimatedDuration string `csv:"estimated_duration"`
	Price             string `csv:"price"`
	Notes             string `csv:"notes"`
	CreatedAt         string `csv:"created_at"`
}

const csvTimeLayout = "2006-01-02 15:04:05"

// registerExportRoutes registers CSV export routes
func registerExportRoutes() {
	webserver.ApiGET("/export/customers.csv", exportCustomers)
	webserver.ApiGET("/export/jobs.csv", exportJobs)
}

func exportCustomers(c echo.Context) error {
	customers, err := GetStorage(c).GetCustomers(c.Request().Context())
	if err != nil {
		return storeFail(c, err, "Customer", "fetch customers")
	}
	rows := make([]*customerRow, 0, len(customers))
	for _, v := range customers {
		rows = append(rows, &customerRow{
			ID:             v.ID,
			CompanyName:    v.CompanyName,
			ContactPerson:  v.ContactPerson,
			Email:          v.Email,
			Phone:          v.Phone,
			Address:        v.Address,
			CustomerType:   string(v.CustomerType),
			Status:         string(v.Status),
			LastInspection: v.LastInspection.String(),
			NextDue:        v.NextDue.String(),
			CreatedAt:      v.CreatedAt.Format(csvTimeLayout),
		})
	}
	return sendCSV(c, "customers.csv", &rows)
}

func exportJobs(c echo.Context) error {
	ctx := c.Request().Context()
	jobs, err := GetStorage(c).GetJobs(ctx)
	if err != nil {
		return storeFail(c, err, "Job", "fetch jobs")
	}
	customers, err := GetStorage(c).GetCustomers(ctx)
	if err != nil {
		return storeFail(c, err, "Customer", "fetch customers")
	}
	names := make(map[string]string, len(customers))
	for _, v := range customers {
		names[v.ID] = v.CompanyName
	}

	rows := make([]*jobRow, 0, len(jobs))
	for _, v := range jobs {
		row := &jobRow{
			ID:            v.ID,
			CustomerID:    v.CustomerID,
			CompanyName:   names[v.CustomerID],
			Title:         v.Title,
			Description:   deref(v.Description),
			JobType:       string(v.JobType),
			Status:        string(v.Status),
			ScheduledDate: v.ScheduledDate.String(),
			ScheduledTime: v.ScheduledTime,
			Price:         string(v.Price),
			Notes:         deref(v.Notes),
			CreatedAt:     v.CreatedAt.Format(csvTimeLayout),
		}
		if v.EstimatedDuration != nil {
			row.EstimatedDuration = strconv.Itoa(*v.EstimatedDuration)
		}
		rows = append(rows, row)
	}
	return sendCSV(c, "jobs.csv", &rows)
}

func sendCSV(c echo.Context, filename string, rows interface{}) error {
	data, err := gocsv.MarshalBytes(rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to export "+filename, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
