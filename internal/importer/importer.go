// Package importer loads customers and jobs from an uploaded workbook.
//
// Columns are mapped by position, not by header name:
//
//	Customers: company, contact, email, phone, address, type
//	Jobs:      company, title, description, type, date, time, duration,
//	           email, phone, address, price, notes
//
// Import is best effort. Invalid rows are skipped and reported; rows that
// were created stay created.
package importer

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"github.com/talkincode/jobdesk/internal/domain"
	"github.com/talkincode/jobdesk/internal/metrics"
	"github.com/talkincode/jobdesk/internal/storage"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

const (
	SheetCustomers = "Customers"
	SheetJobs      = "Jobs"
)

// ErrInvalidWorkbook is returned when the upload cannot be read as a workbook.
var ErrInvalidWorkbook = errors.New("invalid workbook")

// SkippedRow describes a data row that did not produce a record.
type SkippedRow struct {
	Sheet  string `json:"sheet"`
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Result summarizes one import.
type Result struct {
	Success              bool         `json:"success"`
	Filename             string       `json:"filename"`
	Size                 int64        `json:"size"`
	CustomersCreated     int          `json:"customersCreated"`
	JobsCreated          int          `json:"jobsCreated"`
	CustomersAutoCreated int          `json:"customersAutoCreated"`
	BatchID              string       `json:"batchId"`
	Skipped              []SkippedRow `json:"skipped"`
	Message              string       `json:"message"`
}

func (r *Result) skip(log *zap.Logger, m *metrics.Metrics, sheet string, row int, err error) {
	r.Skipped = append(r.Skipped, SkippedRow{Sheet: sheet, Row: row, Reason: err.Error()})
	m.ImportRow(sheet, metrics.OutcomeSkipped)
	log.Warn("skipped invalid row",
		zap.String("sheet", sheet),
		zap.Int("row", row),
		zap.Error(err))
}

type Importer struct {
	store   storage.Storage
	node    *snowflake.Node
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Importer)

func WithMetrics(m *metrics.Metrics) Option {
	return func(im *Importer) {
		im.metrics = m
	}
}

// WithClock sets the clock that supplies "today" for rows without a date.
func WithClock(now func() time.Time) Option {
	return func(im *Importer) {
		im.now = now
	}
}

// New creates an importer writing to store. nodeID seeds the snowflake
// generator for batch ids and must be in [0, 1023].
func New(store storage.Storage, nodeID int64, opts ...Option) (*Importer, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, errors.Wrap(err, "snowflake node")
	}
	im := &Importer{store: store, node: node, now: time.Now}
	for _, opt := range opts {
		opt(im)
	}
	return im, nil
}

// Import reads data as an xlsx workbook and creates the records it describes.
// A workbook with neither sheet yields an empty result, not an error.
func (im *Importer) Import(ctx context.Context, data []byte, filename string) (*Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidWorkbook, err.Error())
	}
	defer f.Close()

	res := &Result{
		Filename: filename,
		Size:     int64(len(data)),
		BatchID:  im.node.Generate().String(),
		Skipped:  []SkippedRow{},
	}
	log := zap.L().With(zap.String("batch", res.BatchID), zap.String("filename", filename))
	im.metrics.ImportBatch()

	var date1904 bool
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	sheets := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}

	if sheets[SheetCustomers] {
		rows, err := f.GetRows(SheetCustomers, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidWorkbook, "read %s: %v", SheetCustomers, err)
		}
		if err := im.importCustomers(ctx, rows, res, log); err != nil {
			return res, err
		}
	}

	if sheets[SheetJobs] {
		rows, err := f.GetRows(SheetJobs, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidWorkbook, "read %s: %v", SheetJobs, err)
		}
		if err := im.importJobs(ctx, rows, date1904, res, log); err != nil {
			return res, err
		}
	}

	res.Success = true
	res.Message = fmt.Sprintf("Successfully processed %d customers and %d jobs from Excel file.",
		res.CustomersCreated, res.JobsCreated)
	log.Info("workbook imported",
		zap.Int("customers", res.CustomersCreated),
		zap.Int("jobs", res.JobsCreated),
		zap.Int("autoCustomers", res.CustomersAutoCreated),
		zap.Int("skipped", len(res.Skipped)))
	return res, nil
}

func (im *Importer) importCustomers(ctx context.Context, rows [][]string, res *Result, log *zap.Logger) error {
	for i := 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "import customers")
		}
		row := rows[i]
		if len(row) < 4 || cell(row, 0) == "" {
			continue
		}
		in := domain.CustomerInput{
			CompanyName:   cell(row, 0),
			ContactPerson: cell(row, 1),
			Email:         cell(row, 2),
			Phone:         cell(row, 3),
			Address:       cell(row, 4),
			CustomerType:  customerTypeOf(cell(row, 5)),
			Status:        domain.CustomerActive,
		}
		in.Normalize()
		if err := domain.Validate(&in); err != nil {
			res.skip(log, im.metrics, SheetCustomers, i+1, err)
			continue
		}
		if _, err := im.store.CreateCustomer(ctx, in); err != nil {
			res.skip(log, im.metrics, SheetCustomers, i+1, err)
			continue
		}
		res.CustomersCreated++
		im.metrics.ImportRow(SheetCustomers, metrics.OutcomeCreated)
	}
	return nil
}

func (im *Importer) importJobs(ctx context.Context, rows [][]string, date1904 bool, res *Result, log *zap.Logger) error {
	if len(rows) < 2 {
		return nil
	}
	customers, err := im.store.GetCustomers(ctx)
	if err != nil {
		return errors.Wrap(err, "load customers")
	}
	fold := cases.Fold()
	byCompany := make(map[string]string, len(customers))
	for _, c := range customers {
		key := fold.String(c.CompanyName)
		if _, ok := byCompany[key]; !ok {
			byCompany[key] = c.ID
		}
	}
	today := domain.Today(im.now())

	for i := 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "import jobs")
		}
		row := rows[i]
		company := cell(row, 0)
		if len(row) < 6 || company == "" || cell(row, 1) == "" {
			continue
		}

		key := fold.String(company)
		customerID, ok := byCompany[key]
		if !ok {
			cin := domain.CustomerInput{
				CompanyName:   company,
				ContactPerson: company,
				Email:         cell(row, 7),
				Phone:         cell(row, 8),
				Address:       cell(row, 9),
				CustomerType:  domain.CustomerCommercial,
				Status:        domain.CustomerActive,
			}
			cin.Normalize()
			if err := domain.Validate(&cin); err != nil {
				res.skip(log, im.metrics, SheetJobs, i+1, errors.Wrap(err, "create customer"))
				continue
			}
			c, err := im.store.CreateCustomer(ctx, cin)
			if err != nil {
				res.skip(log, im.metrics, SheetJobs, i+1, errors.Wrap(err, "create customer"))
				continue
			}
			customerID = c.ID
			byCompany[key] = c.ID
			res.CustomersAutoCreated++
			log.Info("created customer for job row",
				zap.Int("row", i+1),
				zap.String("company", company),
				zap.String("customer", c.ID))
		}

		scheduled, ok := parseDate(cell(row, 4), date1904)
		if !ok {
			scheduled = today
		}
		duration := parseDuration(cell(row, 6))
		in := domain.JobInput{
			CustomerID:        customerID,
			Title:             cell(row, 1),
			Description:       domain.StringPtr(cell(row, 2)),
			JobType:           jobTypeOf(cell(row, 3)),
			Status:            domain.JobScheduled,
			ScheduledDate:     scheduled,
			ScheduledTime:     parseClock(cell(row, 5)),
			EstimatedDuration: &duration,
			Price:             parsePrice(cell(row, 10)),
			Notes:             domain.StringPtr(cell(row, 11)),
		}
		in.Normalize()
		if err := domain.Validate(&in); err != nil {
			res.skip(log, im.metrics, SheetJobs, i+1, err)
			continue
		}
		if _, err := im.store.CreateJob(ctx, in); err != nil {
			res.skip(log, im.metrics, SheetJobs, i+1, err)
			continue
		}
		res.JobsCreated++
		im.metrics.ImportRow(SheetJobs, metrics.OutcomeCreated)
	}
	return nil
}
