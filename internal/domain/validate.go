package domain

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ValidationError lists the offending fields of a rejected payload, keyed by JSON name.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil returns e when at least one field was recorded.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err carries field errors.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the domain tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("customer_type", func(fl validator.FieldLevel) bool {
			return CustomerType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("customer_status", func(fl validator.FieldLevel) bool {
			return CustomerStatus(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("job_type", func(fl validator.FieldLevel) bool {
			return JobType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("job_status", func(fl validator.FieldLevel) bool {
			return JobStatus(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
			return Price(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

type selfValidator interface {
	Validate() error
}

// Validate checks the struct tags of v and then its own Validate method, if any.
// Failures come back as *ValidationError.
func Validate(v interface{}) error {
	verr := &ValidationError{}
	if err := Validator().Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return errors.Wrap(err, "validate")
		}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), describe(fe))
		}
	}
	if sv, ok := v.(selfValidator); ok {
		if err := sv.Validate(); err != nil {
			var inner *ValidationError
			if !errors.As(err, &inner) {
				return err
			}
			for k, msg := range inner.Fields {
				verr.Add(k, msg)
			}
		}
	}
	return verr.OrNil()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param()
	case "customer_type":
		return "must be one of Commercial, Residential, Industrial"
	case "customer_status":
		return "must be Active or Inactive"
	case "job_type":
		return "must be one of Inspection, Installation, Maintenance, Emergency"
	case "job_status":
		return "must be one of Scheduled, In Progress, Completed, Cancelled, Overdue"
	case "price":
		return "must be a decimal number with at most 8 integer and 2 fractional digits"
	default:
		return "failed " + fe.Tag()
	}
}
