package domain

import (
	"strings"
	"time"
)

// Customer is a client account with contact and classification data.
type Customer struct {
	ID             string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CompanyName    string         `gorm:"type:text;not null;index" json:"companyName"`
	ContactPerson  string         `gorm:"type:text;not null" json:"contactPerson"`
	Email          string         `gorm:"type:text;not null" json:"email"`
	Phone          string         `gorm:"type:text;not null" json:"phone"`
	Address        string         `gorm:"type:text;not null" json:"address"`
	CustomerType   CustomerType   `gorm:"type:text;not null" json:"customerType"`
	Status         CustomerStatus `gorm:"type:text;not null;default:'Active'" json:"status"`
	LastInspection Date           `gorm:"type:date" json:"lastInspection"`
	NextDue        Date           `gorm:"type:date" json:"nextDue"`
	CreatedAt      time.Time      `gorm:"index" json:"createdAt"`
}

// TableName Specify table name
func (Customer) TableName() string {
	return "customers"
}

// CustomerInput is the payload of a customer creation, from the API form or an import row.
type CustomerInput struct {
	CompanyName    string         `json:"companyName" validate:"required,max=255"`
	ContactPerson  string         `json:"contactPerson" validate:"max=255"`
	Email          string         `json:"email" validate:"max=255"`
	Phone          string         `json:"phone" validate:"max=64"`
	Address        string         `json:"address" validate:"max=1024"`
	CustomerType   CustomerType   `json:"customerType" validate:"required,customer_type"`
	Status         CustomerStatus `json:"status" validate:"omitempty,customer_status"`
	LastInspection Date           `json:"lastInspection"`
	NextDue        Date           `json:"nextDue"`
}

// Normalize trims text fields and fills the default status.
func (in *CustomerInput) Normalize() {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.ContactPerson = strings.TrimSpace(in.ContactPerson)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	if in.Status == "" {
		in.Status = CustomerActive
	}
}

// NewCustomer builds the stored record for in. The caller assigns ID and CreatedAt.
func (in CustomerInput) NewCustomer(id string, now time.Time) Customer {
	status := in.Status
	if status == "" {
		status = CustomerActive
	}
	return Customer{
		ID:             id,
		CompanyName:    in.CompanyName,
		ContactPerson:  in.ContactPerson,
		Email:          in.Email,
		Phone:          in.Phone,
		Address:        in.Address,
		CustomerType:   in.CustomerType,
		Status:         status,
		LastInspection: in.LastInspection,
		NextDue:        in.NextDue,
		CreatedAt:      now,
	}
}

// CustomerPatch carries a partial customer update; nil fields are left untouched.
type CustomerPatch struct {
	CompanyName    *string         `json:"companyName" validate:"omitempty,max=255"`
	ContactPerson  *string         `json:"contactPerson" validate:"omitempty,max=255"`
	Email          *string         `json:"email" validate:"omitempty,max=255"`
	Phone          *string         `json:"phone" validate:"omitempty,max=64"`
	Address        *string         `json:"address" validate:"omitempty,max=1024"`
	CustomerType   *CustomerType   `json:"customerType" validate:"omitempty,customer_type"`
	Status         *CustomerStatus `json:"status" validate:"omitempty,customer_status"`
	LastInspection *Date           `json:"lastInspection"`
	NextDue        *Date           `json:"nextDue"`
}

// Validate rejects blanking out the company name.
func (p *CustomerPatch) Validate() error {
	verr := &ValidationError{}
	if p.CompanyName != nil && strings.TrimSpace(*p.CompanyName) == "" {
		verr.Add("companyName", "is required")
	}
	return verr.OrNil()
}

// Apply merges the set fields of p into c.
func (p CustomerPatch) Apply(c *Customer) {
	if p.CompanyName != nil {
		c.CompanyName = strings.TrimSpace(*p.CompanyName)
	}
	if p.ContactPerson != nil {
		c.ContactPerson = strings.TrimSpace(*p.ContactPerson)
	}
	if p.Email != nil {
		c.Email = strings.TrimSpace(*p.Email)
	}
	if p.Phone != nil {
		c.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Address != nil {
		c.Address = strings.TrimSpace(*p.Address)
	}
	if p.CustomerType != nil {
		c.CustomerType = *p.CustomerType
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.LastInspection != nil {
		c.LastInspection = *p.LastInspection
	}
	if p.NextDue != nil {
		c.NextDue = *p.NextDue
	}
}
