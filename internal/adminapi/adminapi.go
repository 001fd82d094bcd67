package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/jobdesk/internal/app"
	"github.com/talkincode/jobdesk/internal/domain"
	"github.com/talkincode/jobdesk/internal/storage"
	"github.com/talkincode/jobdesk/internal/webserver"
	"go.uber.org/zap"
)

// Init registers every admin API route on the global web server.
// webserver.Init must run first.
func Init() {
	registerCustomerRoutes()
	registerJobRoutes()
	registerDashboardRoutes()
	registerImportRoutes()
	registerExportRoutes()
	registerSchedulerRoutes()
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, ErrorResponse{Error: code, Message: message, Details: details})
}

func handleValidationError(c echo.Context, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Validation failed", verr.Fields)
	}
	return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
}

// storeFail maps a storage error onto the API error taxonomy.
func storeFail(c echo.Context, err error, kind, action string) error {
	switch {
	case domain.IsValidationError(err):
		return handleValidationError(c, err)
	case errors.Is(err, storage.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", kind+" not found", nil)
	case errors.Is(err, storage.ErrInUse):
		return fail(c, http.StatusConflict, "CUSTOMER_IN_USE", "Customer still has jobs and cannot be deleted", nil)
	case errors.Is(err, storage.ErrUnknownCustomer):
		return fail(c, http.StatusBadRequest, "UNKNOWN_CUSTOMER", "Customer does not exist", nil)
	}
	zap.L().Error(action, zap.String("path", c.Path()), zap.Error(err))
	return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to "+action, err.Error())
}

func GetAppContext(c echo.Context) app.AppContext {
	appCtx, _ := c.Get(webserver.AppContextKey).(app.AppContext)
	return appCtx
}

func GetStorage(c echo.Context) storage.Storage {
	return GetAppContext(c).Storage()
}
