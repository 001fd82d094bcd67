package domain

// CustomerType classifies a customer account.
type CustomerType string

const (
	CustomerCommercial  CustomerType = "Commercial"
	CustomerResidential CustomerType = "Residential"
	CustomerIndustrial  CustomerType = "Industrial"
)

// CustomerTypes lists the valid customer types in display order.
var CustomerTypes = []CustomerType{CustomerCommercial, CustomerResidential, CustomerIndustrial}

func (t CustomerType) Valid() bool {
	for _, v := range CustomerTypes {
		if t == v {
			return true
		}
	}
	return false
}

// CustomerStatus is the account status of a customer.
type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "Active"
	CustomerInactive CustomerStatus = "Inactive"
)

func (s CustomerStatus) Valid() bool {
	return s == CustomerActive || s == CustomerInactive
}

// JobType is the kind of service engagement.
type JobType string

const (
	JobInspection   JobType = "Inspection"
	JobInstallation JobType = "Installation"
	JobMaintenance  JobType = "Maintenance"
	JobEmergency    JobType = "Emergency"
)

// JobTypes lists the valid job types in display order.
var JobTypes = []JobType{JobInspection, JobInstallation, JobMaintenance, JobEmergency}

func (t JobType) Valid() bool {
	for _, v := range JobTypes {
		if t == v {
			return true
		}
	}
	return false
}

// JobStatus is the lifecycle state of a job. Values are stored verbatim,
// including the space in "In Progress".
type JobStatus string

const (
	JobScheduled  JobStatus = "Scheduled"
	JobInProgress JobStatus = "In Progress"
	JobCompleted  JobStatus = "Completed"
	JobCancelled  JobStatus = "Cancelled"
	JobOverdue    JobStatus = "Overdue"
)

// JobStatuses lists the valid job statuses in display order.
var JobStatuses = []JobStatus{JobScheduled, JobInProgress, JobCompleted, JobCancelled, JobOverdue}

func (s JobStatus) Valid() bool {
	for _, v := range JobStatuses {
		if s == v {
			return true
		}
	}
	return false
}
