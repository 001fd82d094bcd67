package domain

import (
	"strings"
	"time"
)

// Job is a scheduled service engagement tied to one customer.
type Job struct {
	ID                string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CustomerID        string    `gorm:"type:varchar(36);not null;index" json:"customerId"`
	Customer          *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"-"`
	Title             string    `gorm:"type:text;not null" json:"title"`
	Description       *string   `gorm:"type:text" json:"description"`
	JobType           JobType   `gorm:"type:text;not null;index" json:"jobType"`
	Status            JobStatus `gorm:"type:text;not null;default:'Scheduled';index" json:"status"`
	ScheduledDate     Date      `gorm:"type:date;not null;index" json:"scheduledDate"`
	ScheduledTime     string    `gorm:"type:text;not null" json:"scheduledTime"`
	EstimatedDuration *int      `json:"estimatedDuration"` // minutes
	Price             Price     `gorm:"type:decimal(10,2)" json:"price"`
	Notes             *string   `gorm:"type:text" json:"notes"`
	CreatedAt         time.Time `gorm:"index" json:"createdAt"`
}

// TableName Specify table name
func (Job) TableName() string {
	return "jobs"
}

// JobInput is the payload of a job creation.
type JobInput struct {
	CustomerID        string    `json:"customerId" validate:"required,max=36"`
	Title             string    `json:"title" validate:"required,max=255"`
	Description       *string   `json:"description"`
	JobType           JobType   `json:"jobType" validate:"required,job_type"`
	Status            JobStatus `json:"status" validate:"omitempty,job_status"`
	ScheduledDate     Date      `json:"scheduledDate"`
	ScheduledTime     string    `json:"scheduledTime" validate:"required,max=16"`
	EstimatedDuration *int      `json:"estimatedDuration" validate:"omitempty,min=0"`
	Price             Price     `json:"price" validate:"price"`
	Notes             *string   `json:"notes"`
}

// Normalize trims text fields, drops empty optionals and fills the default status.
func (in *JobInput) Normalize() {
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	in.Title = strings.TrimSpace(in.Title)
	in.ScheduledTime = strings.TrimSpace(in.ScheduledTime)
	in.Description = trimOptional(in.Description)
	in.Notes = trimOptional(in.Notes)
	in.Price = Price(strings.TrimSpace(string(in.Price)))
	if in.Status == "" {
		in.Status = JobScheduled
	}
}

// Validate covers what the struct tags cannot express.
func (in *JobInput) Validate() error {
	if in.ScheduledDate.IsZero() {
		verr := &ValidationError{}
		verr.Add("scheduledDate", "is required")
		return verr
	}
	return nil
}

// NewJob builds the stored record for in. The caller assigns ID and CreatedAt.
func (in JobInput) NewJob(id string, now time.Time) Job {
	status := in.Status
	if status == "" {
		status = JobScheduled
	}
	return Job{
		ID:                id,
		CustomerID:        in.CustomerID,
		Title:             in.Title,
		Description:       in.Description,
		JobType:           in.JobType,
		Status:            status,
		ScheduledDate:     in.ScheduledDate,
		ScheduledTime:     in.ScheduledTime,
		EstimatedDuration: in.EstimatedDuration,
		Price:             in.Price,
		Notes:             in.Notes,
		CreatedAt:         now,
	}
}

// JobPatch carries a partial job update; nil fields are left untouched.
type JobPatch struct {
	CustomerID        *string    `json:"customerId" validate:"omitempty,max=36"`
	Title             *string    `json:"title" validate:"omitempty,max=255"`
	Description       *string    `json:"description"`
	JobType           *JobType   `json:"jobType" validate:"omitempty,job_type"`
	Status            *JobStatus `json:"status" validate:"omitempty,job_status"`
	ScheduledDate     *Date      `json:"scheduledDate"`
	ScheduledTime     *string    `json:"scheduledTime" validate:"omitempty,max=16"`
	EstimatedDuration *int       `json:"estimatedDuration" validate:"omitempty,min=0"`
	Price             *Price     `json:"price" validate:"omitempty,price"`
	Notes             *string    `json:"notes"`
}

// Validate rejects blanking out required fields.
func (p *JobPatch) Validate() error {
	verr := &ValidationError{}
	if p.CustomerID != nil && strings.TrimSpace(*p.CustomerID) == "" {
		verr.Add("customerId", "is required")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		verr.Add("title", "is required")
	}
	if p.ScheduledTime != nil && strings.TrimSpace(*p.ScheduledTime) == "" {
		verr.Add("scheduledTime", "is required")
	}
	if p.ScheduledDate != nil && p.ScheduledDate.IsZero() {
		verr.Add("scheduledDate", "is required")
	}
	return verr.OrNil()
}

// Apply merges the set fields of p into j.
func (p JobPatch) Apply(j *Job) {
	if p.CustomerID != nil {
		j.CustomerID = strings.TrimSpace(*p.CustomerID)
	}
	if p.Title != nil {
		j.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		j.Description = trimOptional(p.Description)
	}
	if p.JobType != nil {
		j.JobType = *p.JobType
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
	if p.ScheduledDate != nil {
		j.ScheduledDate = *p.ScheduledDate
	}
	if p.ScheduledTime != nil {
		j.ScheduledTime = strings.TrimSpace(*p.ScheduledTime)
	}
	if p.EstimatedDuration != nil {
		v := *p.EstimatedDuration
		j.EstimatedDuration = &v
	}
	if p.Price != nil {
		j.Price = Price(strings.TrimSpace(string(*p.Price)))
	}
	if p.Notes != nil {
		j.Notes = trimOptional(p.Notes)
	}
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	return StringPtr(*s)
}
