package dto

import "github.com/yigit/hireboard/internal/app/models"

// ApplyRequest submits an application. ResumeURL defaults to the profile resume.
type ApplyRequest struct {
	JobID       int64   `json:"jobId" binding:"required,min=1" example:"12"`
	CoverLetter *string `json:"coverLetter" binding:"omitempty,max=10000"`
	ResumeURL   *string `json:"resumeUrl" binding:"omitempty,max=2048"`
}

// UpdateApplicationStatusRequest moves an application through the pipeline
type UpdateApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required,oneof=PENDING REVIEWING SHORTLISTED INTERVIEW REJECTED HIRED"`
}
