package importer

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Template kinds served for download.
const (
	TemplateCustomers = "customers"
	TemplateJobs      = "jobs"
)

// ErrUnknownTemplate is returned by Template for any kind other than customers or jobs.
var ErrUnknownTemplate = errors.New("invalid template type")

var customerTemplate = [][]interface{}{
	{"Company Name", "Contact Person", "Email", "Phone", "Address", "Customer Type"},
	{"ABC Fire Safety", "John Smith", "john@abcfire.com", "555-0123", "123 Main St, City, ST 12345", "Commercial"},
	{"XYZ Restaurant", "Jane Doe", "jane@xyzrest.com", "555-0456", "456 Oak Ave, City, ST 12345", "Commercial"},
	{"Home Owner", "Bob Johnson", "bob@email.com", "555-0789", "789 Pine Rd, City, ST 12345", "Residential"},
}

var jobTemplate = [][]interface{}{
	{"Customer Name", "Job Title", "Description", "Job Type", "Scheduled Date", "Scheduled Time",
		"Duration (min)", "Customer Email", "Customer Phone", "Customer Address", "Price", "Notes"},
	{"ABC Fire Safety", "Annual Inspection", "Regular fire alarm system inspection", "Inspection", "2024-08-20", "09:00",
		"60", "john@abcfire.com", "555-0123", "123 Main St, City, ST 12345", "150", "Contact before arrival"},
	{"XYZ Restaurant", "System Installation", "Install new fire suppression system", "Installation", "2024-08-22", "10:00",
		"180", "jane@xyzrest.com", "555-0456", "456 Oak Ave, City, ST 12345", "2500", "Large commercial kitchen"},
	{"Home Owner", "Detector Maintenance", "Replace smoke detector batteries", "Maintenance", "2024-08-25", "14:00",
		"30", "bob@email.com", "555-0789", "789 Pine Rd, City, ST 12345", "75", "Residential service"},
}

// TemplateFilename is the download name of a template kind.
func TemplateFilename(kind string) string {
	return kind + "_template.xlsx"
}

// Template builds the sample workbook of kind, in the column layout Import expects.
func Template(kind string) ([]byte, error) {
	var (
		sheet string
		rows  [][]interface{}
	)
	switch kind {
	case TemplateCustomers:
		sheet, rows = SheetCustomers, customerTemplate
	case TemplateJobs:
		sheet, rows = SheetJobs, jobTemplate
	default:
		return nil, ErrUnknownTemplate
	}
	return buildWorkbook(sheet, rows)
}

func buildWorkbook(sheet string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, errors.Wrap(err, "rename sheet")
	}
	for i := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		row := rows[i]
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return nil, errors.Wrapf(err, "write row %d", i+1)
		}
	}

	if len(rows) > 0 {
		header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, errors.Wrap(err, "header style")
		}
		if err := f.SetRowStyle(sheet, 1, 1, header); err != nil {
			return nil, errors.Wrap(err, "apply header style")
		}
		last, err := excelize.ColumnNumberToName(len(rows[0]))
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, "A", last, 22); err != nil {
			return nil, errors.Wrap(err, "column width")
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}
