// Package storage keeps customers and jobs and computes the dashboard
// aggregates over them. Two backends implement Storage: MemStorage for
// development and tests, GormStorage for a relational database.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/talkincode/jobdesk/internal/domain"
)

// Storage is the CRUD and aggregate-read contract shared by every backend.
//
// Missing records: Get and Update return ErrNotFound, Delete returns false
// with a nil error. Backend failures are reported as ErrUnavailable.
type Storage interface {
	GetCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id string, patch domain.CustomerPatch) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) (bool, error)

	GetJobs(ctx context.Context) ([]domain.Job, error)
	GetJob(ctx context.Context, id string) (*domain.Job, error)
	GetJobsByCustomer(ctx context.Context, customerID string) ([]domain.Job, error)
	CreateJob(ctx context.Context, in domain.JobInput) (*domain.Job, error)
	UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (*domain.Job, error)
	DeleteJob(ctx context.Context, id string) (bool, error)

	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	GetJobStatusDistribution(ctx context.Context) ([]domain.Distribution, error)
	GetCustomerTypeDistribution(ctx context.Context) ([]domain.Distribution, error)
	GetMonthlyTrends(ctx context.Context) ([]domain.MonthlyTrend, error)
	GetWeeklyJobsData(ctx context.Context) ([]domain.WeeklyJobs, error)
	GetRevenueByJobType(ctx context.Context) ([]domain.RevenueByJobType, error)
}

type options struct {
	now   func() time.Time
	newID func() string
}

// Option customizes a backend.
type Option func(*options)

// WithClock replaces the wall clock used for createdAt and the
// current-month/current-week windows.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithIDGenerator replaces the UUID generator used for new records.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) today() domain.Date {
	return domain.Today(o.now())
}
