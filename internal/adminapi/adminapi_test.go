package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/talkincode/jobdesk/config"
	"github.com/talkincode/jobdesk/internal/app"
	"github.com/talkincode/jobdesk/internal/domain"
	"github.com/talkincode/jobdesk/internal/importer"
	"github.com/talkincode/jobdesk/internal/storage"
	"github.com/talkincode/jobdesk/internal/webserver"
)

type testEnv struct {
	e     *echo.Echo
	store storage.Storage
}

func newTestEnv(t *testing.T, tweak ...func(*config.AppConfig)) *testEnv {
	t.Helper()
	cfg := *config.DefaultAppConfig
	cfg.System.OverdueCron = ""
	cfg.Logger.FileEnable = false
	for _, f := range tweak {
		f(&cfg)
	}
	a := app.NewApplication(&cfg)
	if err := a.Init(&cfg); err != nil {
		t.Fatalf("app init: %v", err)
	}
	t.Cleanup(a.Release)
	webserver.Init(a)
	Init()
	return &testEnv{e: webserver.Server().Echo(), store: a.Storage()}
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, want, rec.Body.String())
	}
}

func customerBody(name string) map[string]interface{} {
	return map[string]interface{}{
		"companyName":   name,
		"contactPerson": "Jane Roe",
		"email":         "jane@example.com",
		"phone":         "555-0100",
		"address":       "1 Main St",
		"customerType":  "Commercial",
	}
}

func TestCustomerCRUD(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/customers", customerBody("Acme"))
	expectStatus(t, rec, http.StatusCreated)
	var c domain.Customer
	decode(t, rec, &c)
	if c.ID == "" || c.Status != domain.CustomerActive || c.CreatedAt.IsZero() {
		t.Fatalf("created customer = %+v", c)
	}

	rec = env.do(t, http.MethodGet, "/api/customers", nil)
	expectStatus(t, rec, http.StatusOK)
	var list []domain.Customer
	decode(t, rec, &list)
	if len(list) != 1 || list[0].ID != c.ID {
		t.Fatalf("list = %+v", list)
	}

	rec = env.do(t, http.MethodPut, "/api/customers/"+c.ID, map[string]interface{}{
		"phone":          "555-0199",
		"lastInspection": "2024-03-15",
	})
	expectStatus(t, rec, http.StatusOK)
	var updated domain.Customer
	decode(t, rec, &updated)
	if updated.Phone != "555-0199" || updated.CompanyName != "Acme" || updated.LastInspection.String() != "2024-03-15" {
		t.Fatalf("updated = %+v", updated)
	}

	rec = env.do(t, http.MethodGet, "/api/customers/"+c.ID+"/jobs", nil)
	expectStatus(t, rec, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("jobs body = %s", rec.Body.String())
	}

	rec = env.do(t, http.MethodDelete, "/api/customers/"+c.ID, nil)
	expectStatus(t, rec, http.StatusOK)
	var del map[string]bool
	decode(t, rec, &del)
	if !del["success"] {
		t.Fatalf("delete body = %s", rec.Body.String())
	}

	rec = env.do(t, http.MethodDelete, "/api/customers/"+c.ID, nil)
	expectStatus(t, rec, http.StatusNotFound)
	var errBody ErrorResponse
	decode(t, rec, &errBody)
	if errBody.Message != "Customer not found" {
		t.Fatalf("message = %q", errBody.Message)
	}

	rec = env.do(t, http.MethodGet, "/api/customers/"+c.ID, nil)
	expectStatus(t, rec, http.StatusNotFound)
	rec = env.do(t, http.MethodPut, "/api/customers/"+c.ID, map[string]interface{}{"phone": "1"})
	expectStatus(t, rec, http.StatusNotFound)
}

func TestCustomerValidation(t *testing.T) {
	env := newTestEnv(t)

	body := customerBody("")
	body["customerType"] = "Government"
	body["email"] = strings.Repeat("a", 300)
	rec := env.do(t, http.MethodPost, "/api/customers", body)
	expectStatus(t, rec, http.StatusBadRequest)
	var errBody struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	decode(t, rec, &errBody)
	if errBody.Error != "INVALID_REQUEST" {
		t.Fatalf("error = %q", errBody.Error)
	}
	for _, field := range []string{"companyName", "customerType", "email"} {
		if _, ok := errBody.Details[field]; !ok {
			t.Errorf("missing detail for %s: %v", field, errBody.Details)
		}
	}

	rec = env.do(t, http.MethodPost, "/api/customers", nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestJobLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/customers", customerBody("Acme"))
	expectStatus(t, rec, http.StatusCreated)
	var c domain.Customer
	decode(t, rec, &c)

	jobBody := map[string]interface{}{
		"customerId":        c.ID,
		"title":             "Annual inspection",
		"jobType":           "Inspection",
		"scheduledDate":     "2024-08-20",
		"scheduledTime":     "09:00",
		"estimatedDuration": 60,
		"price":             "150.00",
	}
	rec = env.do(t, http.MethodPost, "/api/jobs", jobBody)
	expectStatus(t, rec, http.StatusCreated)
	var j domain.Job
	decode(t, rec, &j)
	if j.Status != domain.JobScheduled || j.ScheduledDate.String() != "2024-08-20" {
		t.Fatalf("job = %+v", j)
	}

	rec = env.do(t, http.MethodPut, "/api/jobs/"+j.ID, map[string]interface{}{"status": "In Progress"})
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &j)
	if j.Status != domain.JobInProgress || j.Title != "Annual inspection" {
		t.Fatalf("updated job = %+v", j)
	}

	rec = env.do(t, http.MethodPut, "/api/jobs/"+j.ID, map[string]interface{}{"status": "Done"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = env.do(t, http.MethodGet, "/api/customers/"+c.ID+"/jobs", nil)
	expectStatus(t, rec, http.StatusOK)
	var jobs []domain.Job
	decode(t, rec, &jobs)
	if len(jobs) != 1 {
		t.Fatalf("customer jobs = %d", len(jobs))
	}

	rec = env.do(t, http.MethodDelete, "/api/customers/"+c.ID, nil)
	expectStatus(t, rec, http.StatusConflict)

	unknown := map[string]interface{}{}
	for k, v := range jobBody {
		unknown[k] = v
	}
	unknown["customerId"] = "missing"
	rec = env.do(t, http.MethodPost, "/api/jobs", unknown)
	expectStatus(t, rec, http.StatusBadRequest)
	var errBody ErrorResponse
	decode(t, rec, &errBody)
	if errBody.Error != "UNKNOWN_CUSTOMER" {
		t.Fatalf("error = %q", errBody.Error)
	}

	rec = env.do(t, http.MethodDelete, "/api/jobs/"+j.ID, nil)
	expectStatus(t, rec, http.StatusOK)
	rec = env.do(t, http.MethodDelete, "/api/jobs/"+j.ID, nil)
	expectStatus(t, rec, http.StatusNotFound)
	rec = env.do(t, http.MethodPut, "/api/jobs/"+j.ID, map[string]interface{}{"title": "x"})
	expectStatus(t, rec, http.StatusNotFound)
}

func TestJobRejectsNonFinitePrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	c, err := env.store.CreateCustomer(ctx, domain.CustomerInput{CompanyName: "Acme", ContactPerson: "Jane", CustomerType: domain.CustomerCommercial})
	if err != nil {
		t.Fatal(err)
	}

	for _, price := range []string{"NaN", "Infinity", "-Inf", "1e400", "123456789.00", "10.999"} {
		rec := env.do(t, http.MethodPost, "/api/jobs", map[string]interface{}{
			"customerId":    c.ID,
			"title":         "Bad price",
			"jobType":       "Inspection",
			"status":        "Completed",
			"scheduledDate": domain.Today(time.Now()).String(),
			"scheduledTime": "09:00",
			"price":         price,
		})
		expectStatus(t, rec, http.StatusBadRequest)
		var body struct {
			Details map[string]string `json:"details"`
		}
		decode(t, rec, &body)
		if _, ok := body.Details["price"]; !ok {
			t.Fatalf("price %q: details = %v", price, body.Details)
		}
	}

	for _, path := range []string{"/api/dashboard/stats", "/api/dashboard/revenue-by-job-type", "/api/dashboard/monthly-trends"} {
		rec := env.do(t, http.MethodGet, path, nil)
		expectStatus(t, rec, http.StatusOK)
	}
}

func TestDashboardEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()

	c, err := env.store.CreateCustomer(ctx, domain.CustomerInput{CompanyName: "Acme", ContactPerson: "Jane", CustomerType: domain.CustomerIndustrial})
	if err != nil {
		t.Fatal(err)
	}
	today := domain.Today(time.Now())
	for _, price := range []domain.Price{"100.10", "200.20"} {
		if _, err := env.store.CreateJob(ctx, domain.JobInput{
			CustomerID: c.ID, Title: "done", JobType: domain.JobMaintenance, Status: domain.JobCompleted,
			ScheduledDate: today, ScheduledTime: "10:00", Price: price,
		}); err != nil {
			t.Fatal(err)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/dashboard/stats", nil)
	expectStatus(t, rec, http.StatusOK)
	var st domain.DashboardStats
	decode(t, rec, &st)
	if st.TotalCustomers != 1 || st.CompletedThisMonth != 2 || st.MonthlyRevenue != 300.3 {
		t.Fatalf("stats = %+v", st)
	}

	rec = env.do(t, http.MethodGet, "/api/dashboard/monthly-trends", nil)
	expectStatus(t, rec, http.StatusOK)
	var trends []domain.MonthlyTrend
	decode(t, rec, &trends)
	if len(trends) != 12 || trends[today.Month()-1].Revenue != 300.3 {
		t.Fatalf("trends = %+v", trends)
	}

	rec = env.do(t, http.MethodGet, "/api/dashboard/weekly-jobs", nil)
	expectStatus(t, rec, http.StatusOK)
	var weekly []domain.WeeklyJobs
	decode(t, rec, &weekly)
	if len(weekly) != 7 || weekly[6].Maintenance != 2 || weekly[6].Jobs != 2 {
		t.Fatalf("weekly = %+v", weekly)
	}

	rec = env.do(t, http.MethodGet, "/api/dashboard/customer-type-distribution", nil)
	expectStatus(t, rec, http.StatusOK)
	var dist []domain.Distribution
	decode(t, rec, &dist)
	if len(dist) != 1 || dist[0].Name != "Industrial" || dist[0].Color != "#8b5cf6" {
		t.Fatalf("distribution = %+v", dist)
	}

	rec = env.do(t, http.MethodGet, "/api/dashboard/job-status-distribution", nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &dist)
	if len(dist) != 1 || dist[0].Name != "Completed" || dist[0].Value != 2 {
		t.Fatalf("status distribution = %+v", dist)
	}

	rec = env.do(t, http.MethodGet, "/api/dashboard/revenue-by-job-type", nil)
	expectStatus(t, rec, http.StatusOK)
	var revenue []domain.RevenueByJobType
	decode(t, rec, &revenue)
	if len(revenue) != 1 || revenue[0].JobType != string(domain.JobMaintenance) || revenue[0].Revenue != 300.3 || revenue[0].Jobs != 2 {
		t.Fatalf("revenue = %+v", revenue)
	}
}

func multipartUpload(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/upload/excel", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestUploadExcel(t *testing.T) {
	env := newTestEnv(t)

	data, err := importer.Template(importer.TemplateCustomers)
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, multipartUpload(t, "file", "customers.xlsx", data))
	expectStatus(t, rec, http.StatusOK)
	var res importer.Result
	decode(t, rec, &res)
	if !res.Success || res.CustomersCreated != 3 || res.JobsCreated != 0 || res.Filename != "customers.xlsx" {
		t.Fatalf("result = %+v", res)
	}
	if res.Message != "Successfully processed 3 customers and 0 jobs from Excel file." {
		t.Fatalf("message = %q", res.Message)
	}

	rec = httptest.NewRecorder()
	env.e.ServeHTTP(rec, multipartUpload(t, "other", "customers.xlsx", data))
	expectStatus(t, rec, http.StatusBadRequest)
	var errBody ErrorResponse
	decode(t, rec, &errBody)
	if errBody.Message != "No file uploaded" {
		t.Fatalf("message = %q", errBody.Message)
	}

	rec = httptest.NewRecorder()
	env.e.ServeHTTP(rec, multipartUpload(t, "file", "notes.xlsx", []byte("plain text")))
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestUploadReportsPartialResultOnFailure(t *testing.T) {
	env := newTestEnv(t)
	data, err := importer.Template(importer.TemplateCustomers)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := multipartUpload(t, "file", "customers.xlsx", data).WithContext(ctx)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusInternalServerError)

	var body struct {
		Message string `json:"message"`
		Details struct {
			Error  string           `json:"error"`
			Result *importer.Result `json:"result"`
		} `json:"details"`
	}
	decode(t, rec, &body)
	if body.Message != "Failed to process Excel file" || body.Details.Error == "" {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if body.Details.Result == nil || body.Details.Result.BatchID == "" || body.Details.Result.Filename != "customers.xlsx" {
		t.Fatalf("partial result missing: %s", rec.Body.String())
	}
}

func TestUploadTooLarge(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.AppConfig) { cfg.Import.MaxFileSize = 16 })

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, multipartUpload(t, "file", "big.xlsx", bytes.Repeat([]byte("x"), 64)))
	expectStatus(t, rec, http.StatusRequestEntityTooLarge)
}

func TestDownloadTemplate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/download/template/jobs", nil)
	expectStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get(echo.HeaderContentType); ct != xlsxContentType {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); cd != `attachment; filename="jobs_template.xlsx"` {
		t.Fatalf("content disposition = %q", cd)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("empty template")
	}

	rec = env.do(t, http.MethodGet, "/api/download/template/invoices", nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t)
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	c, err := env.store.CreateCustomer(ctx, domain.CustomerInput{CompanyName: "Acme", ContactPerson: "Jane", CustomerType: domain.CustomerCommercial})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.store.CreateJob(ctx, domain.JobInput{
		CustomerID: c.ID, Title: "Check", JobType: domain.JobInspection,
		ScheduledDate: domain.DateOf(2024, 8, 20), ScheduledTime: "09:00", EstimatedDuration: intPtr(45),
	}); err != nil {
		t.Fatal(err)
	}

	rec := env.do(t, http.MethodGet, "/api/export/customers.csv", nil)
	expectStatus(t, rec, http.StatusOK)
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "id,company_name,contact_person") || !strings.Contains(lines[1], "Acme") {
		t.Fatalf("customers csv = %q", rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/export/jobs.csv", nil)
	expectStatus(t, rec, http.StatusOK)
	lines = strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], "Acme,Check") || !strings.Contains(lines[1], ",45,") {
		t.Fatalf("jobs csv = %q", rec.Body.String())
	}
}

func intPtr(v int) *int { return &v }

func TestJWTGuard(t *testing.T) {
	const secret = "s3cret"
	env := newTestEnv(t, func(cfg *config.AppConfig) { cfg.Web.Secret = secret })

	rec := env.do(t, http.MethodGet, "/api/customers", nil)
	expectStatus(t, rec, http.StatusUnauthorized)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "tester",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)

	rec = env.do(t, http.MethodGet, "/health", nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/customers", nil)

	rec := env.do(t, http.MethodGet, "/metrics", nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "requests_total") {
		t.Fatalf("metrics output missing request counter")
	}
}

func TestTriggerOverdueSweep(t *testing.T) {
	env := newTestEnv(t)
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	c, err := env.store.CreateCustomer(ctx, domain.CustomerInput{CompanyName: "Acme", ContactPerson: "Jane", CustomerType: domain.CustomerCommercial})
	if err != nil {
		t.Fatal(err)
	}
	j, err := env.store.CreateJob(ctx, domain.JobInput{
		CustomerID: c.ID, Title: "Late", JobType: domain.JobInspection, Status: domain.JobScheduled,
		ScheduledDate: domain.DateOf(2020, 1, 1), ScheduledTime: "09:00",
	})
	if err != nil {
		t.Fatal(err)
	}

	rec := env.do(t, http.MethodPost, "/api/schedulers/overdue/run", nil)
	expectStatus(t, rec, http.StatusOK)
	var body map[string]int
	decode(t, rec, &body)
	if body["marked"] != 1 {
		t.Fatalf("body = %s", rec.Body.String())
	}
	got, err := env.store.GetJob(ctx, j.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.JobOverdue {
		t.Fatalf("status = %s", got.Status)
	}

	rec = env.do(t, http.MethodGet, "/api/schedulers", nil)
	expectStatus(t, rec, http.StatusOK)
	var entries []schedulerEntry
	decode(t, rec, &entries)
	if len(entries) == 0 {
		t.Fatal("no scheduler entries")
	}
}
