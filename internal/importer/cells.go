package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"
	"github.com/talkincode/jobdesk/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	defaultScheduledTime = "09:00"
	defaultDuration      = 60
	maxDuration          = math.MaxInt32

	// maxExcelSerial is 9999-12-31, the last date Excel can represent.
	maxExcelSerial = 2958465
)

// cell returns the trimmed value at column i, or "" past the end of the row.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func customerTypeOf(s string) domain.CustomerType {
	if t := domain.CustomerType(s); t.Valid() {
		return t
	}
	return domain.CustomerCommercial
}

func jobTypeOf(s string) domain.JobType {
	if t := domain.JobType(s); t.Valid() {
		return t
	}
	return domain.JobInspection
}

// parseDate reads a raw cell as an Excel serial number or a date string.
// ok is false when the cell is empty or not a date.
func parseDate(raw string, date1904 bool) (domain.Date, bool) {
	if raw == "" {
		return domain.Date{}, false
	}
	// Digit-only text such as "20240801" comes back numeric from raw reads;
	// past the Excel range it is handed to dateparse instead.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial <= maxExcelSerial {
		if serial <= 0 {
			return domain.Date{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			return domain.Date{}, false
		}
		return domain.NewDate(t), true
	}
	t, err := dateparse.ParseIn(raw, time.Local)
	if err != nil {
		return domain.Date{}, false
	}
	return domain.NewDate(t), true
}

// parseClock keeps textual times as typed and turns Excel day fractions into HH:MM.
func parseClock(raw string) string {
	if raw == "" {
		return defaultScheduledTime
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	if f >= 1 && f == math.Trunc(f) {
		return raw
	}
	frac := f - math.Floor(f)
	minutes := int(math.Round(frac*24*60)) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// parsePrice keeps well-formed prices as typed and rounds numeric cells with
// spreadsheet float noise to cents. Anything else is returned unchanged for
// validation to reject.
func parsePrice(raw string) domain.Price {
	p := domain.Price(raw)
	if p.Valid() {
		return p
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return p
	}
	if rounded := domain.Price(strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)); rounded.Valid() {
		return rounded
	}
	return p
}

// parseDuration falls back to one hour when the cell is empty, zero, negative
// or not a number. Oversized values are clamped.
func parseDuration(raw string) int {
	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) || f <= 0 {
		return defaultDuration
	}
	if f >= maxDuration {
		return maxDuration
	}
	return int(f)
}
