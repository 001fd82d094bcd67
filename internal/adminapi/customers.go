package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/jobdesk/internal/domain"
	"github.com/talkincode/jobdesk/internal/webserver"
)

// registerCustomerRoutes registers customer CRUD routes
func registerCustomerRoutes() {
	webserver.ApiGET("/customers", listCustomers)
	webserver.ApiGET("/customers/:id", getCustomer)
	webserver.ApiGET("/customers/:id/jobs", listCustomerJobs)
	webserver.ApiPOST("/customers", createCustomer)
	webserver.ApiPUT("/customers/:id", updateCustomer)
	webserver.ApiDELETE("/customers/:id", deleteCustomer)
}

func listCustomers(c echo.Context) error {
	customers, err := GetStorage(c).GetCustomers(c.Request().Context())
	if err != nil {
		return storeFail(c, err, "Customer", "fetch customers")
	}
	return ok(c, customers)
}

func getCustomer(c echo.Context) error {
	customer, err := GetStorage(c).GetCustomer(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeFail(c, err, "Customer", "fetch customer")
	}
	return ok(c, customer)
}

func listCustomerJobs(c echo.Context) error {
	jobs, err := GetStorage(c).GetJobsByCustomer(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeFail(c, err, "Customer", "fetch customer jobs")
	}
	return ok(c, jobs)
}

func createCustomer(c echo.Context) error {
	var payload domain.CustomerInput
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid customer data", nil)
	}
	payload.Normalize()
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	customer, err := GetStorage(c).CreateCustomer(c.Request().Context(), payload)
	if err != nil {
		return storeFail(c, err, "Customer", "create customer")
	}
	return created(c, customer)
}

func updateCustomer(c echo.Context) error {
	var payload domain.CustomerPatch
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid customer data", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	customer, err := GetStorage(c).UpdateCustomer(c.Request().Context(), c.Param("id"), payload)
	if err != nil {
		return storeFail(c, err, "Customer", "update customer")
	}
	return ok(c, customer)
}

func deleteCustomer(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	deleted, err := GetStorage(c).DeleteCustomer(c.Request().Context(), id)
	if err != nil {
		return storeFail(c, err, "Customer", "delete customer")
	}
	if !deleted {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Customer not found", nil)
	}
	return ok(c, map[string]interface{}{"success": true})
}
