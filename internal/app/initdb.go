package app

import (
	"context"

	"github.com/talkincode/jobdesk/internal/domain"
	"go.uber.org/zap"
)

type sampleJob struct {
	customer int
	input    domain.JobInput
}

func intPtr(v int) *int { return &v }

var sampleCustomers = []domain.CustomerInput{
	{
		CompanyName:    "ABC Corporation",
		ContactPerson:  "John Manager",
		Email:          "john@abc-corp.com",
		Phone:          "(555) 123-4567",
		Address:        "123 Business Ave, City, ST 12345",
		CustomerType:   domain.CustomerCommercial,
		Status:         domain.CustomerActive,
		LastInspection: domain.DateOf(2024, 3, 15),
		NextDue:        domain.DateOf(2024, 9, 15),
	},
	{
		CompanyName:    "XYZ Manufacturing",
		ContactPerson:  "Sarah Wilson",
		Email:          "sarah@xyz-mfg.com",
		Phone:          "(555) 234-5678",
		Address:        "456 Industrial Rd, City, ST 12345",
		CustomerType:   domain.CustomerIndustrial,
		Status:         domain.CustomerActive,
		LastInspection: domain.DateOf(2024, 4, 2),
		NextDue:        domain.DateOf(2024, 10, 2),
	},
	{
		CompanyName:    "Metropolitan Office Building",
		ContactPerson:  "Mike Johnson",
		Email:          "mike@metro-office.com",
		Phone:          "(555) 345-6789",
		Address:        "789 Downtown St, City, ST 12345",
		CustomerType:   domain.CustomerCommercial,
		Status:         domain.CustomerActive,
		LastInspection: domain.DateOf(2024, 2, 28),
		NextDue:        domain.DateOf(2024, 8, 28),
	},
}

var sampleJobs = []sampleJob{
	{0, domain.JobInput{
		Title:             "Fire Safety Inspection",
		Description:       domain.StringPtr("Annual fire safety inspection and equipment check"),
		JobType:           domain.JobInspection,
		Status:            domain.JobScheduled,
		ScheduledDate:     domain.DateOf(2024, 8, 20),
		ScheduledTime:     "10:00",
		EstimatedDuration: intPtr(120),
		Price:             "250.00",
		Notes:             domain.StringPtr("Include sprinkler system check"),
	}},
	{1, domain.JobInput{
		Title:             "Alarm System Installation",
		Description:       domain.StringPtr("New fire alarm system installation in warehouse"),
		JobType:           domain.JobInstallation,
		Status:            domain.JobInProgress,
		ScheduledDate:     domain.DateOf(2024, 8, 18),
		ScheduledTime:     "09:00",
		EstimatedDuration: intPtr(480),
		Price:             "1500.00",
		Notes:             domain.StringPtr("Industrial grade system required"),
	}},
	{2, domain.JobInput{
		Title:             "Monthly Maintenance",
		Description:       domain.StringPtr("Routine maintenance of fire safety systems"),
		JobType:           domain.JobMaintenance,
		Status:            domain.JobCompleted,
		ScheduledDate:     domain.DateOf(2024, 8, 15),
		ScheduledTime:     "14:00",
		EstimatedDuration: intPtr(90),
		Price:             "180.00",
		Notes:             domain.StringPtr("All systems functioning properly"),
	}},
}

// checkSampleData seeds demo customers and jobs into an empty store.
func (a *Application) checkSampleData(ctx context.Context) {
	existing, err := a.store.GetCustomers(ctx)
	if err != nil {
		zap.L().Error("failed to query customers", zap.Error(err))
		return
	}
	if len(existing) > 0 {
		return
	}

	ids := make([]string, len(sampleCustomers))
	for i, in := range sampleCustomers {
		c, err := a.store.CreateCustomer(ctx, in)
		if err != nil {
			zap.L().Error("failed to create sample customer", zap.String("company", in.CompanyName), zap.Error(err))
			return
		}
		ids[i] = c.ID
	}
	for _, sj := range sampleJobs {
		in := sj.input
		in.CustomerID = ids[sj.customer]
		if _, err := a.store.CreateJob(ctx, in); err != nil {
			zap.L().Error("failed to create sample job", zap.String("title", in.Title), zap.Error(err))
			return
		}
	}
	zap.L().Info("initialized sample data",
		zap.Int("customers", len(sampleCustomers)),
		zap.Int("jobs", len(sampleJobs)))
}
