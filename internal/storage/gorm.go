package storage

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/talkincode/jobdesk/internal/domain"
	"gorm.io/gorm"
)

// Portable across postgres and sqlite: both render a date column as YYYY-MM-DD text.
const (
	monthExpr   = "SUBSTR(CAST(scheduled_date AS TEXT), 6, 2)"
	revenueExpr = "COALESCE(SUM(CAST(price AS NUMERIC)), 0)"
)

// GormStorage runs CRUD and aggregates against a relational database.
type GormStorage struct {
	db   *gorm.DB
	opts options
}

var _ Storage = (*GormStorage)(nil)

func NewGormStorage(db *gorm.DB, opts ...Option) *GormStorage {
	return &GormStorage{db: db, opts: buildOptions(opts)}
}

func (s *GormStorage) GetCustomers(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	if err := s.db.WithContext(ctx).Order("created_at DESC, id ASC").Find(&customers).Error; err != nil {
		return nil, unavailable("query customers", err)
	}
	return customers, nil
}

func (s *GormStorage) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	var c domain.Customer
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("customer", id)
	} else if err != nil {
		return nil, unavailable("query customer", err)
	}
	return &c, nil
}

func (s *GormStorage) CreateCustomer(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error) {
	c := in.NewCustomer(s.opts.newID(), s.opts.now())
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, unavailable("create customer", err)
	}
	return &c, nil
}

func (s *GormStorage) UpdateCustomer(ctx context.Context, id string, patch domain.CustomerPatch) (*domain.Customer, error) {
	c, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(c)
	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, unavailable("update customer", err)
	}
	return c, nil
}

func (s *GormStorage) DeleteCustomer(ctx context.Context, id string) (bool, error) {
	db := s.db.WithContext(ctx)
	var refs int64
	if err := db.Model(&domain.Job{}).Where("customer_id = ?", id).Count(&refs).Error; err != nil {
		return false, unavailable("count customer jobs", err)
	}
	if refs > 0 {
		return false, ErrInUse
	}
	res := db.Where("id = ?", id).Delete(&domain.Customer{})
	if res.Error != nil {
		return false, unavailable("delete customer", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStorage) customerExists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.Customer{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, unavailable("query customer", err)
	}
	return n > 0, nil
}

func (s *GormStorage) GetJobs(ctx context.Context) ([]domain.Job, error) {
	var jobs []domain.Job
	if err := s.db.WithContext(ctx).Order(jobOrder).Find(&jobs).Error; err != nil {
		return nil, unavailable("query jobs", err)
	}
	return jobs, nil
}

func (s *GormStorage) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	var j domain.Job
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("job", id)
	} else if err != nil {
		return nil, unavailable("query job", err)
	}
	return &j, nil
}

func (s *GormStorage) GetJobsByCustomer(ctx context.Context, customerID string) ([]domain.Job, error) {
	var jobs []domain.Job
	if err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).Order(jobOrder).Find(&jobs).Error; err != nil {
		return nil, unavailable("query customer jobs", err)
	}
	return jobs, nil
}

func (s *GormStorage) CreateJob(ctx context.Context, in domain.JobInput) (*domain.Job, error) {
	ok, err := s.customerExists(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownCustomer
	}
	j := in.NewJob(s.opts.newID(), s.opts.now())
	if err := s.db.WithContext(ctx).Create(&j).Error; err != nil {
		return nil, unavailable("create job", err)
	}
	return &j, nil
}

func (s *GormStorage) UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (*domain.Job, error) {
	j, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	before := j.CustomerID
	patch.Apply(j)
	if j.CustomerID != before {
		ok, err := s.customerExists(ctx, j.CustomerID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUnknownCustomer
		}
	}
	if err := s.db.WithContext(ctx).Save(j).Error; err != nil {
		return nil, unavailable("update job", err)
	}
	return j, nil
}

func (s *GormStorage) DeleteJob(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Job{})
	if res.Error != nil {
		return false, unavailable("delete job", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStorage) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	db := s.db.WithContext(ctx)
	var customers, pending int64
	if err := db.Model(&domain.Customer{}).Count(&customers).Error; err != nil {
		return nil, unavailable("count customers", err)
	}
	if err := db.Model(&domain.Job{}).
		Where("status = ? AND job_type = ?", domain.JobScheduled, domain.JobInspection).
		Count(&pending).Error; err != nil {
		return nil, unavailable("count pending inspections", err)
	}

	from, to := monthBounds(s.opts.today())
	var month struct {
		Jobs    int64
		Revenue float64
	}
	if err := db.Model(&domain.Job{}).
		Select("COUNT(*) AS jobs, "+revenueExpr+" AS revenue").
		Where("status = ? AND scheduled_date >= ? AND scheduled_date < ?", domain.JobCompleted, from, to).
		Scan(&month).Error; err != nil {
		return nil, unavailable("sum monthly revenue", err)
	}

	return &domain.DashboardStats{
		TotalCustomers:     int(customers),
		PendingInspections: int(pending),
		CompletedThisMonth: int(month.Jobs),
		MonthlyRevenue:     month.Revenue,
	}, nil
}

type groupCount struct {
	Name  string
	Value int64
}

func (s *GormStorage) groupCounts(ctx context.Context, model interface{}, column string) (map[string]int, error) {
	var rows []groupCount
	if err := s.db.WithContext(ctx).Model(model).
		Select(column + " AS name, COUNT(*) AS value").
		Group(column).
		Scan(&rows).Error; err != nil {
		return nil, unavailable("group by "+column, err)
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Name] += int(r.Value)
	}
	return counts, nil
}

func (s *GormStorage) GetJobStatusDistribution(ctx context.Context) ([]domain.Distribution, error) {
	counts, err := s.groupCounts(ctx, &domain.Job{}, "status")
	if err != nil {
		return nil, err
	}
	return distribution(statusOrder(), counts, statusColors), nil
}

func (s *GormStorage) GetCustomerTypeDistribution(ctx context.Context) ([]domain.Distribution, error) {
	counts, err := s.groupCounts(ctx, &domain.Customer{}, "customer_type")
	if err != nil {
		return nil, err
	}
	return distribution(customerTypeOrder(), counts, customerTypeColors), nil
}

func (s *GormStorage) GetMonthlyTrends(ctx context.Context) ([]domain.MonthlyTrend, error) {
	from, to := yearBounds(s.opts.today())
	var rows []struct {
		Month   string
		Jobs    int64
		Revenue float64
	}
	if err := s.db.WithContext(ctx).Model(&domain.Job{}).
		Select(monthExpr+" AS month, COUNT(*) AS jobs, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN CAST(price AS NUMERIC) ELSE 0 END), 0) AS revenue", domain.JobCompleted).
		Where("scheduled_date >= ? AND scheduled_date < ?", from, to).
		Group(monthExpr).
		Scan(&rows).Error; err != nil {
		return nil, unavailable("group jobs by month", err)
	}
	out := emptyTrends()
	for _, r := range rows {
		m, err := strconv.Atoi(strings.TrimSpace(r.Month))
		if err != nil || m < 1 || m > 12 {
			continue
		}
		out[m-1].Jobs += int(r.Jobs)
		out[m-1].Revenue += r.Revenue
	}
	return out, nil
}

func (s *GormStorage) GetWeeklyJobsData(ctx context.Context) ([]domain.WeeklyJobs, error) {
	today := s.opts.today()
	var rows []struct {
		ScheduledDate domain.Date
		JobType       domain.JobType
		Total         int64
	}
	if err := s.db.WithContext(ctx).Model(&domain.Job{}).
		Select("scheduled_date, job_type, COUNT(*) AS total").
		Where("scheduled_date >= ? AND scheduled_date <= ?", today.AddDays(-6), today).
		Group("scheduled_date, job_type").
		Scan(&rows).Error; err != nil {
		return nil, unavailable("group jobs by day", err)
	}
	out, index := weekWindow(today)
	for _, r := range rows {
		if i, ok := index[r.ScheduledDate.String()]; ok {
			out[i].Add(r.JobType, int(r.Total))
		}
	}
	return out, nil
}

func (s *GormStorage) GetRevenueByJobType(ctx context.Context) ([]domain.RevenueByJobType, error) {
	var rows []struct {
		JobType domain.JobType
		Revenue float64
		Jobs    int64
	}
	if err := s.db.WithContext(ctx).Model(&domain.Job{}).
		Select("job_type, "+revenueExpr+" AS revenue, COUNT(*) AS jobs").
		Where("status = ?", domain.JobCompleted).
		Group("job_type").
		Scan(&rows).Error; err != nil {
		return nil, unavailable("sum revenue by job type", err)
	}
	revenue := make(map[domain.JobType]float64, len(rows))
	jobs := make(map[domain.JobType]int, len(rows))
	for _, r := range rows {
		revenue[r.JobType] += r.Revenue
		jobs[r.JobType] += int(r.Jobs)
	}
	return revenueByType(revenue, jobs), nil
}
