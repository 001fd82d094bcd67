package adminapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/jobdesk/internal/importer"
	"github.com/talkincode/jobdesk/internal/webserver"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// registerImportRoutes registers spreadsheet upload and template routes
func registerImportRoutes() {
	webserver.ApiPOST("/upload/excel", uploadExcel)
	webserver.ApiGET("/download/template/:type", downloadTemplate)
}

func uploadExcel(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "NO_FILE", "No file uploaded", nil)
	}
	appCtx := GetAppContext(c)
	if limit := appCtx.Config().Import.MaxFileSize; limit > 0 && file.Size > limit {
		return fail(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds the upload size limit",
			map[string]interface{}{"size": file.Size, "limit": limit})
	}

	src, err := file.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read uploaded file", err.Error())
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read uploaded file", err.Error())
	}

	res, err := appCtx.Importer().Import(c.Request().Context(), data, file.Filename)
	if errors.Is(err, importer.ErrInvalidWorkbook) {
		return fail(c, http.StatusBadRequest, "INVALID_WORKBOOK", "Uploaded file is not a readable Excel workbook", err.Error())
	} else if err != nil {
		zap.L().Error("excel import failed", zap.String("filename", file.Filename), zap.Error(err))
		// rows stored before the failure stay stored; report them
		return fail(c, http.StatusInternalServerError, "IMPORT_FAILED", "Failed to process Excel file",
			map[string]interface{}{"error": err.Error(), "result": res})
	}
	return ok(c, res)
}

func downloadTemplate(c echo.Context) error {
	kind := c.Param("type")
	data, err := importer.Template(kind)
	if errors.Is(err, importer.ErrUnknownTemplate) {
		return fail(c, http.StatusBadRequest, "INVALID_TEMPLATE", "Invalid template type", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "TEMPLATE_FAILED", "Failed to generate template", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+importer.TemplateFilename(kind)+`"`)
	return c.Blob(http.StatusOK, xlsxContentType, data)
}
