package dto

import (
	"time"

	"github.com/yigit/hireboard/internal/app/models"
)

// CreateJobRequest publishes a job for the caller's company
type CreateJobRequest struct {
	Title          string                `json:"title" binding:"required,min=3,max=255" example:"Senior Go Engineer"`
	Description    string                `json:"description" binding:"required,min=10"`
	Requirements   []string              `json:"requirements" binding:"omitempty,max=50,dive,min=1,max=255"`
	Location       *string               `json:"location" binding:"omitempty,max=255"`
	EmploymentType models.EmploymentType `json:"employmentType" binding:"required,oneof=FULL_TIME PART_TIME CONTRACT INTERNSHIP REMOTE"`
	SalaryMin      *int                  `json:"salaryMin" binding:"omitempty,min=0"`
	SalaryMax      *int                  `json:"salaryMax" binding:"omitempty,min=0"`
	Status         models.JobStatus      `json:"status" binding:"omitempty,oneof=ACTIVE DRAFT"`
	ExpiresAt      *time.Time            `json:"expiresAt"`
}

// UpdateJobRequest edits a job. Nil fields are left unchanged.
type UpdateJobRequest struct {
	Title          *string                `json:"title" binding:"omitempty,min=3,max=255"`
	Description    *string                `json:"description" binding:"omitempty,min=10"`
	Requirements   *[]string              `json:"requirements" binding:"omitempty,max=50,dive,min=1,max=255"`
	Location       *string                `json:"location" binding:"omitempty,max=255"`
	EmploymentType *models.EmploymentType `json:"employmentType" binding:"omitempty,oneof=FULL_TIME PART_TIME CONTRACT INTERNSHIP REMOTE"`
	SalaryMin      *int                   `json:"salaryMin" binding:"omitempty,min=0"`
	SalaryMax      *int                   `json:"salaryMax" binding:"omitempty,min=0"`
	ExpiresAt      *time.Time             `json:"expiresAt"`
}

// UpdateJobStatusRequest moves a job between ACTIVE, CLOSED and DRAFT
type UpdateJobStatusRequest struct {
	Status models.JobStatus `json:"status" binding:"required,oneof=ACTIVE CLOSED DRAFT"`
}

// JobListQuery holds the public job search filters
type JobListQuery struct {
	Search         string                `form:"search"`
	Location       string                `form:"location"`
	EmploymentType models.EmploymentType `form:"employmentType" binding:"omitempty,oneof=FULL_TIME PART_TIME CONTRACT INTERNSHIP REMOTE"`
	SalaryMin      *int                  `form:"salaryMin" binding:"omitempty,min=0"`
	CompanyID      *int64                `form:"companyId" binding:"omitempty,min=1"`
}
