package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
)

// JobService manages job postings
type JobService struct {
	jobRepo     JobStore
	companyRepo CompanyStore
	logger      zerolog.Logger
	now         func() time.Time
}

// NewJobService creates a new JobService
func NewJobService(jobRepo JobStore, companyRepo CompanyStore, logger zerolog.Logger) *JobService {
	return &JobService{
		jobRepo:     jobRepo,
		companyRepo: companyRepo,
		logger:      logger.With().Str("service", "job").Logger(),
		now:         time.Now,
	}
}

func validateSalary(min, max *int) error {
	if min != nil && max != nil && *min > *max {
		return apperrors.NewBadRequestError("salaryMin must not exceed salaryMax")
	}
	return nil
}

func (s *JobService) validateExpiry(expiresAt *time.Time) error {
	if expiresAt != nil && !expiresAt.After(s.now()) {
		return apperrors.NewBadRequestError("expiresAt must be in the future")
	}
	return nil
}

// ownCompany returns the caller's company, or 403 when the caller has none.
func (s *JobService) ownCompany(ctx context.Context, actor models.Actor) (*models.Company, error) {
	if actor.Role != models.RoleCompany {
		return nil, apperrors.NewForbiddenError("only company accounts can manage jobs")
	}
	company, err := s.companyRepo.GetByOwner(ctx, actor.ID)
	if errors.Is(err, apperrors.ErrCompanyNotFound) {
		return nil, apperrors.NewForbiddenError("create a company profile before posting jobs")
	}
	return company, err
}

// ownJob loads a job and checks that the caller's company published it.
func (s *JobService) ownJob(ctx context.Context, actor models.Actor, jobID int64) (*models.Job, *models.Company, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	company, err := s.companyRepo.GetByID(ctx, job.CompanyID)
	if err != nil {
		return nil, nil, err
	}
	if company.OwnerID != actor.ID {
		return nil, nil, apperrors.NewForbiddenError("you do not own this job")
	}
	return job, company, nil
}

// Create publishes a job for the caller's company. Status defaults to ACTIVE.
func (s *JobService) Create(ctx context.Context, actor models.Actor, req *dto.CreateJobRequest) (*models.Job, error) {
	company, err := s.ownCompany(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := validateSalary(req.SalaryMin, req.SalaryMax); err != nil {
		return nil, err
	}
	if err := s.validateExpiry(req.ExpiresAt); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.JobStatusActive
	}
	requirements := req.Requirements
	if requirements == nil {
		requirements = []string{}
	}

	job := &models.Job{
		CompanyID:      company.ID,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Requirements:   requirements,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		Status:         status,
		ExpiresAt:      req.ExpiresAt,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	job.Company = company
	s.logger.Info().Int64("jobID", job.ID).Int64("companyID", company.ID).Msg("Job created")
	return job, nil
}

// Get returns a job. DRAFT and CLOSED jobs are visible only to their owner and admins.
func (s *JobService) Get(ctx context.Context, viewer *models.Actor, jobID int64) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	company, err := s.companyRepo.GetByID(ctx, job.CompanyID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusActive {
		if viewer == nil || (!viewer.IsAdmin() && company.OwnerID != viewer.ID) {
			return nil, apperrors.ErrJobNotFound
		}
	}
	job.Company = company
	return job, nil
}

// List returns ACTIVE jobs matching filter, each with its company
func (s *JobService) List(ctx context.Context, filter models.JobFilter) ([]*models.Job, int, error) {
	filter.Statuses = []models.JobStatus{models.JobStatusActive}
	jobs, total, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachCompanies(ctx, jobs); err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// Mine returns every job of the caller's company, whatever its status
func (s *JobService) Mine(ctx context.Context, actor models.Actor, offset, limit int) ([]*models.Job, int, error) {
	company, err := s.ownCompany(ctx, actor)
	if err != nil {
		return nil, 0, err
	}
	jobs, total, err := s.jobRepo.List(ctx, models.JobFilter{CompanyID: &company.ID, Offset: offset, Limit: limit})
	if err != nil {
		return nil, 0, err
	}
	for _, job := range jobs {
		job.Company = company
	}
	return jobs, total, nil
}

// Update applies the non-nil fields of req to a job the caller owns
func (s *JobService) Update(ctx context.Context, actor models.Actor, jobID int64, req *dto.UpdateJobRequest) (*models.Job, error) {
	job, company, err := s.ownJob(ctx, actor, jobID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Requirements != nil {
		job.Requirements = *req.Requirements
	}
	if req.Location != nil {
		job.Location = req.Location
	}
	if req.EmploymentType != nil {
		job.EmploymentType = *req.EmploymentType
	}
	if req.SalaryMin != nil {
		job.SalaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		job.SalaryMax = req.SalaryMax
	}
	if req.ExpiresAt != nil {
		if err := s.validateExpiry(req.ExpiresAt); err != nil {
			return nil, err
		}
		job.ExpiresAt = req.ExpiresAt
	}
	if err := validateSalary(job.SalaryMin, job.SalaryMax); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("error updating job: %w", err)
	}
	job.Company = company
	return job, nil
}

// UpdateStatus moves a job the caller owns between ACTIVE, CLOSED and DRAFT.
// Reactivating an expired job requires pushing expiresAt forward first.
func (s *JobService) UpdateStatus(ctx context.Context, actor models.Actor, jobID int64, status models.JobStatus) (*models.Job, error) {
	if !status.IsValid() {
		return nil, apperrors.NewBadRequestError("invalid job status")
	}
	job, company, err := s.ownJob(ctx, actor, jobID)
	if err != nil {
		return nil, err
	}
	if status == models.JobStatusActive && job.ExpiresAt != nil && !job.ExpiresAt.After(s.now()) {
		return nil, apperrors.NewBadRequestError("job has expired; update expiresAt before reactivating")
	}
	if err := s.jobRepo.UpdateStatus(ctx, job.ID, status); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("jobID", job.ID).Str("status", string(status)).Msg("Job status changed")
	job.Status = status
	job.Company = company
	return job, nil
}

// Delete removes a job the caller owns along with its applications
func (s *JobService) Delete(ctx context.Context, actor models.Actor, jobID int64) error {
	if _, _, err := s.ownJob(ctx, actor, jobID); err != nil {
		return err
	}
	if err := s.jobRepo.Delete(ctx, jobID); err != nil {
		return err
	}
	s.logger.Info().Int64("jobID", jobID).Msg("Job deleted")
	return nil
}

func (s *JobService) attachCompanies(ctx context.Context, jobs []*models.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(jobs))
	for _, job := range jobs {
		ids = append(ids, job.CompanyID)
	}
	companies, err := s.companyRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("error loading companies: %w", err)
	}
	for _, job := range jobs {
		job.Company = companies[job.CompanyID]
	}
	return nil
}
