package models

import "time"

// JobStatus is the publication state of a job
type JobStatus string

const (
	JobStatusActive JobStatus = "ACTIVE"
	JobStatusClosed JobStatus = "CLOSED"
	JobStatusDraft  JobStatus = "DRAFT"
)

// IsValid reports whether s is a known job status.
func (s JobStatus) IsValid() bool {
	return s == JobStatusActive || s == JobStatusClosed || s == JobStatusDraft
}

// EmploymentType is the contract kind of a job
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "FULL_TIME"
	EmploymentPartTime   EmploymentType = "PART_TIME"
	EmploymentContract   EmploymentType = "CONTRACT"
	EmploymentInternship EmploymentType = "INTERNSHIP"
	EmploymentRemote     EmploymentType = "REMOTE"
)

// IsValid reports whether e is a known employment type.
func (e EmploymentType) IsValid() bool {
	switch e {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship, EmploymentRemote:
		return true
	}
	return false
}

// Job is a posting published by a company
type Job struct {
	ID             int64          `json:"id" db:"id"`
	CompanyID      int64          `json:"companyId" db:"company_id"`
	Title          string         `json:"title" db:"title"`
	Description    string         `json:"description" db:"description"`
	Requirements   []string       `json:"requirements" db:"requirements"`
	Location       *string        `json:"location,omitempty" db:"location"`
	EmploymentType EmploymentType `json:"employmentType" db:"employment_type"`
	SalaryMin      *int           `json:"salaryMin,omitempty" db:"salary_min"`
	SalaryMax      *int           `json:"salaryMax,omitempty" db:"salary_max"`
	Status         JobStatus      `json:"status" db:"status"`
	SearchText     string         `json:"-" db:"search_text"`
	ExpiresAt      *time.Time     `json:"expiresAt,omitempty" db:"expires_at"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`

	Company *Company `json:"company,omitempty" db:"-"`
}

// IsOpen reports whether the job accepts applications at the given instant.
func (j *Job) IsOpen(now time.Time) bool {
	if j.Status != JobStatusActive {
		return false
	}
	return j.ExpiresAt == nil || now.Before(*j.ExpiresAt)
}

// JobFilter narrows job listings
type JobFilter struct {
	Search         string
	Location       string
	EmploymentType EmploymentType
	SalaryMin      *int
	CompanyID      *int64
	Statuses       []JobStatus
	Offset         int
	Limit          int
}
