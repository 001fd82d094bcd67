package domain

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Column is decimal(10,2): at most 8 integer and 2 fractional digits.
const (
	priceIntDigits  = 8
	priceFracDigits = 2
)

// Price is a decimal amount kept in its textual form, e.g. "150.00".
// The empty value means "no price" and is stored as NULL.
type Price string

// Float returns the amount, treating empty or malformed prices as zero.
func (p Price) Float() float64 {
	s := strings.TrimSpace(string(p))
	if s == "" {
		return 0
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Valid reports whether p is empty or a plain decimal that fits decimal(10,2).
// Exponents, NaN and infinities are rejected.
func (p Price) Valid() bool {
	s := strings.TrimSpace(string(p))
	if s == "" {
		return true
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return false
	}
	if hasDot && fracPart == "" {
		return false
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return false
	}
	return len(strings.TrimLeft(intPart, "0")) <= priceIntDigits && len(fracPart) <= priceFracDigits
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p == "" {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(string(p))), nil
}

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (p *Price) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*p = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		*p = Price(strings.TrimSpace(unq))
		return nil
	}
	*p = Price(s)
	return nil
}

func (p Price) Value() (driver.Value, error) {
	if strings.TrimSpace(string(p)) == "" {
		return nil, nil
	}
	return strings.TrimSpace(string(p)), nil
}

func (p *Price) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = ""
	case string:
		*p = Price(v)
	case []byte:
		*p = Price(string(v))
	case int64:
		*p = Price(strconv.FormatInt(v, 10))
	case float64:
		*p = Price(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return fmt.Errorf("cannot scan %T into Price", src)
	}
	return nil
}
