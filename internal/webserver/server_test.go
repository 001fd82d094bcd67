package webserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/jobdesk/config"
	"github.com/talkincode/jobdesk/internal/app"
	"github.com/talkincode/jobdesk/internal/domain"
)

func newTestServer(t *testing.T) *AdminServer {
	t.Helper()
	cfg := *config.DefaultAppConfig
	cfg.System.OverdueCron = ""
	cfg.Web.UploadLimit = "1K"
	a := app.NewApplication(&cfg)
	if err := a.Init(&cfg); err != nil {
		t.Fatalf("app init: %v", err)
	}
	t.Cleanup(a.Release)
	Init(a)
	return Server()
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	if body["status"] != "ok" {
		t.Fatalf("health body = %v", body)
	}
	if strings.Contains(rec.Body.String(), "\n  ") {
		t.Fatalf("response is pretty-printed: %q", rec.Body.String())
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatal("missing request id header")
	}
}

func TestErrorShape(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "NOT_FOUND" || body["message"] == "" {
		t.Fatalf("body = %v", body)
	}
}

func TestBodyLimitAndContext(t *testing.T) {
	s := newTestServer(t)
	ApiPOST("/echo", func(c echo.Context) error {
		if _, ok := c.Get(AppContextKey).(app.AppContext); !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader("{}")))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader(strings.Repeat("x", 4096))))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCustomValidator(t *testing.T) {
	v := CustomValidator{}
	err := v.Validate(&domain.CustomerInput{CompanyName: "Acme", ContactPerson: "Jane", CustomerType: "Unknown"})
	if !domain.IsValidationError(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if err := v.Validate(&domain.CustomerInput{CompanyName: "Acme", ContactPerson: "Jane", CustomerType: domain.CustomerResidential}); err != nil {
		t.Fatalf("err = %v", err)
	}
}
