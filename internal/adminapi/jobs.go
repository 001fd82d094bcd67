package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/jobdesk/internal/domain"
	"github.com/talkincode/jobdesk/internal/webserver"
)

// registerJobRoutes registers job CRUD routes
func registerJobRoutes() {
	webserver.ApiGET("/jobs", listJobs)
	webserver.ApiGET("/jobs/:id", getJob)
	webserver.ApiPOST("/jobs", createJob)
	webserver.ApiPUT("/jobs/:id", updateJob)
	webserver.ApiDELETE("/jobs/:id", deleteJob)
}

func listJobs(c echo.Context) error {
	jobs, err := GetStorage(c).GetJobs(c.Request().Context())
	if err != nil {
		return storeFail(c, err, "Job", "fetch jobs")
	}
	return ok(c, jobs)
}

func getJob(c echo.Context) error {
	job, err := GetStorage(c).GetJob(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeFail(c, err, "Job", "fetch job")
	}
	return ok(c, job)
}

func createJob(c echo.Context) error {
	var payload domain.JobInput
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid job data", nil)
	}
	payload.Normalize()
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	job, err := GetStorage(c).CreateJob(c.Request().Context(), payload)
	if err != nil {
		return storeFail(c, err, "Job", "create job")
	}
	return created(c, job)
}

func updateJob(c echo.Context) error {
	var payload domain.JobPatch
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid job data", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	job, err := GetStorage(c).UpdateJob(c.Request().Context(), c.Param("id"), payload)
	if err != nil {
		return storeFail(c, err, "Job", "update job")
	}
	return ok(c, job)
}

func deleteJob(c echo.Context) error {
	deleted, err := GetStorage(c).DeleteJob(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeFail(c, err, "Job", "delete job")
	}
	if !deleted {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Job not found", nil)
	}
	return ok(c, map[string]interface{}{"success": true})
}
