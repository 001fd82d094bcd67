package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/talkincode/jobdesk/internal/domain"
)

// MemStorage keeps records in process memory. Data is lost on restart.
type MemStorage struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
	jobs      map[string]domain.Job
	opts      options
}

var _ Storage = (*MemStorage)(nil)

func NewMemStorage(opts ...Option) *MemStorage {
	return &MemStorage{
		customers: make(map[string]domain.Customer),
		jobs:      make(map[string]domain.Job),
		opts:      buildOptions(opts),
	}
}

func (s *MemStorage) GetCustomers(ctx context.Context) ([]domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]domain.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c)
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemStorage) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, notFound("customer", id)
	}
	return &c, nil
}

func (s *MemStorage) CreateCustomer(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := in.NewCustomer(s.opts.newID(), s.opts.now())
	s.mu.Lock()
	s.customers[c.ID] = c
	s.mu.Unlock()
	return &c, nil
}

func (s *MemStorage) UpdateCustomer(ctx context.Context, id string, patch domain.CustomerPatch) (*domain.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, notFound("customer", id)
	}
	patch.Apply(&c)
	s.customers[id] = c
	return &c, nil
}

func (s *MemStorage) DeleteCustomer(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[id]; !ok {
		return false, nil
	}
	for _, j := range s.jobs {
		if j.CustomerID == id {
			return false, ErrInUse
		}
	}
	delete(s.customers, id)
	return true, nil
}

func (s *MemStorage) GetJobs(ctx context.Context) ([]domain.Job, error) {
	return s.filterJobs(ctx, func(domain.Job) bool { return true })
}

func (s *MemStorage) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, notFound("job", id)
	}
	return &j, nil
}

func (s *MemStorage) GetJobsByCustomer(ctx context.Context, customerID string) ([]domain.Job, error) {
	return s.filterJobs(ctx, func(j domain.Job) bool { return j.CustomerID == customerID })
}

func (s *MemStorage) filterJobs(ctx context.Context, keep func(domain.Job) bool) ([]domain.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]domain.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	s.mu.RUnlock()
	sortJobs(out)
	return out, nil
}

func (s *MemStorage) CreateJob(ctx context.Context, in domain.JobInput) (*domain.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	j := in.NewJob(s.opts.newID(), s.opts.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[j.CustomerID]; !ok {
		return nil, ErrUnknownCustomer
	}
	s.jobs[j.ID] = j
	return &j, nil
}

func (s *MemStorage) UpdateJob(ctx context.Context, id string, patch domain.JobPatch) (*domain.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, notFound("job", id)
	}
	patch.Apply(&j)
	if _, ok := s.customers[j.CustomerID]; !ok {
		return nil, ErrUnknownCustomer
	}
	s.jobs[id] = j
	return &j, nil
}

func (s *MemStorage) DeleteJob(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return false, nil
	}
	delete(s.jobs, id)
	return true, nil
}

func (s *MemStorage) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	from, to := monthBounds(s.opts.today())
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &domain.DashboardStats{TotalCustomers: len(s.customers)}
	for _, j := range s.jobs {
		if j.Status == domain.JobScheduled && j.JobType == domain.JobInspection {
			stats.PendingInspections++
		}
		if j.Status == domain.JobCompleted && inRange(j.ScheduledDate, from, to) {
			stats.CompletedThisMonth++
			stats.MonthlyRevenue += j.Price.Float()
		}
	}
	return stats, nil
}

func (s *MemStorage) GetJobStatusDistribution(ctx context.Context) ([]domain.Distribution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	s.mu.RLock()
	for _, j := range s.jobs {
		counts[string(j.Status)]++
	}
	s.mu.RUnlock()
	return distribution(statusOrder(), counts, statusColors), nil
}

func (s *MemStorage) GetCustomerTypeDistribution(ctx context.Context) ([]domain.Distribution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	s.mu.RLock()
	for _, c := range s.customers {
		counts[string(c.CustomerType)]++
	}
	s.mu.RUnlock()
	return distribution(customerTypeOrder(), counts, customerTypeColors), nil
}

func (s *MemStorage) GetMonthlyTrends(ctx context.Context) ([]domain.MonthlyTrend, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	from, to := yearBounds(s.opts.today())
	out := emptyTrends()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.jobs {
		if !inRange(j.ScheduledDate, from, to) {
			continue
		}
		m := int(j.ScheduledDate.Month()) - 1
		out[m].Jobs++
		if j.Status == domain.JobCompleted {
			out[m].Revenue += j.Price.Float()
		}
	}
	return out, nil
}

func (s *MemStorage) GetWeeklyJobsData(ctx context.Context) ([]domain.WeeklyJobs, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, index := weekWindow(s.opts.today())
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.jobs {
		if i, ok := index[j.ScheduledDate.String()]; ok {
			out[i].Add(j.JobType, 1)
		}
	}
	return out, nil
}

func (s *MemStorage) GetRevenueByJobType(ctx context.Context) ([]domain.RevenueByJobType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	revenue := make(map[domain.JobType]float64)
	jobs := make(map[domain.JobType]int)
	s.mu.RLock()
	for _, j := range s.jobs {
		if j.Status != domain.JobCompleted {
			continue
		}
		revenue[j.JobType] += j.Price.Float()
		jobs[j.JobType]++
	}
	s.mu.RUnlock()
	return revenueByType(revenue, jobs), nil
}
