package models

import "time"

// ApplicationStatus tracks an application through the hiring pipeline
type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "PENDING"
	ApplicationReviewing   ApplicationStatus = "REVIEWING"
	ApplicationShortlisted ApplicationStatus = "SHORTLISTED"
	ApplicationInterview   ApplicationStatus = "INTERVIEW"
	ApplicationRejected    ApplicationStatus = "REJECTED"
	ApplicationHired       ApplicationStatus = "HIRED"
)

// IsValid reports whether s is a known application status.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationPending, ApplicationReviewing, ApplicationShortlisted,
		ApplicationInterview, ApplicationRejected, ApplicationHired:
		return true
	}
	return false
}

// Application is a user's candidacy for a job
type Application struct {
	ID          int64             `json:"id" db:"id"`
	UserID      int64             `json:"userId" db:"user_id"`
	JobID       int64             `json:"jobId" db:"job_id"`
	Status      ApplicationStatus `json:"status" db:"status"`
	CoverLetter *string           `json:"coverLetter,omitempty" db:"cover_letter"`
	ResumeURL   *string           `json:"resumeUrl,omitempty" db:"resume_url"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time         `json:"updatedAt" db:"updated_at"`

	Job       *Job         `json:"job,omitempty" db:"-"`
	Applicant *UserSummary `json:"applicant,omitempty" db:"-"`
}
