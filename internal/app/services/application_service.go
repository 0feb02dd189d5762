package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/events"
)

// ApplicationStatusChange is the payload of an application-status event
type ApplicationStatusChange struct {
	ApplicationID int64                    `json:"applicationId"`
	JobID         int64                    `json:"jobId"`
	JobTitle      string                   `json:"jobTitle"`
	Status        models.ApplicationStatus `json:"status"`
}

// ApplicationService manages candidacies
type ApplicationService struct {
	appRepo     ApplicationStore
	jobRepo     JobStore
	companyRepo CompanyStore
	userRepo    UserStore
	publisher   events.Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	appRepo ApplicationStore,
	jobRepo JobStore,
	companyRepo CompanyStore,
	userRepo UserStore,
	publisher events.Publisher,
	logger zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		appRepo:     appRepo,
		jobRepo:     jobRepo,
		companyRepo: companyRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		logger:      logger.With().Str("service", "application").Logger(),
		now:         time.Now,
	}
}

// Apply submits the caller's application to an open job
func (s *ApplicationService) Apply(ctx context.Context, actor models.Actor, req *dto.ApplyRequest) (*models.Application, error) {
	if actor.Role != models.RoleUser {
		return nil, apperrors.NewForbiddenError("only candidates can apply to jobs")
	}
	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOpen(s.now()) {
		return nil, apperrors.ErrJobNotOpen
	}

	resume := req.ResumeURL
	if resume == nil || *resume == "" {
		user, err := s.userRepo.GetByID(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		resume = user.ResumeURL
	}

	app := &models.Application{
		UserID:      actor.ID,
		JobID:       job.ID,
		Status:      models.ApplicationPending,
		CoverLetter: req.CoverLetter,
		ResumeURL:   resume,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	app.Job = job
	s.logger.Info().Int64("applicationID", app.ID).Int64("jobID", job.ID).Int64("userID", actor.ID).Msg("Application submitted")
	return app, nil
}

// Mine lists the caller's applications with their jobs
func (s *ApplicationService) Mine(ctx context.Context, userID int64, offset, limit int) ([]*models.Application, int, error) {
	apps, total, err := s.appRepo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachJobs(ctx, apps); err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// Get returns an application to its applicant or the owner of the job
func (s *ApplicationService) Get(ctx context.Context, actor models.Actor, id int64) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if app.UserID != actor.ID && !actor.IsAdmin() {
		if err := s.checkJobOwner(ctx, actor, job); err != nil {
			return nil, err
		}
	}
	app.Job = job
	if err := s.attachApplicants(ctx, []*models.Application{app}); err != nil {
		return nil, err
	}
	return app, nil
}

// Withdraw deletes the caller's application unless it was already HIRED
func (s *ApplicationService) Withdraw(ctx context.Context, actor models.Actor, id int64) error {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if app.UserID != actor.ID {
		return apperrors.NewForbiddenError("only the applicant can withdraw an application")
	}
	if app.Status == models.ApplicationHired {
		return apperrors.ErrApplicationHired
	}
	if err := s.appRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("applicationID", id).Msg("Application withdrawn")
	return nil
}

// ListForJob lists the applications of a job the caller owns
func (s *ApplicationService) ListForJob(ctx context.Context, actor models.Actor, jobID int64, offset, limit int) ([]*models.Application, int, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.checkJobOwner(ctx, actor, job); err != nil {
		return nil, 0, err
	}
	apps, total, err := s.appRepo.ListByJob(ctx, jobID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachApplicants(ctx, apps); err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// UpdateStatus moves an application through the pipeline and notifies the applicant
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor models.Actor, id int64, status models.ApplicationStatus) (*models.Application, error) {
	if !status.IsValid() {
		return nil, apperrors.NewBadRequestError("invalid application status")
	}
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if err := s.checkJobOwner(ctx, actor, job); err != nil {
		return nil, err
	}

	if err := s.appRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	app.Status = status
	app.UpdatedAt = s.now()
	app.Job = job

	publish(ctx, s.publisher, s.logger, events.New(events.UserChannel(app.UserID), events.ApplicationStatus, ApplicationStatusChange{
		ApplicationID: app.ID,
		JobID:         job.ID,
		JobTitle:      job.Title,
		Status:        status,
	}))
	s.logger.Info().Int64("applicationID", id).Str("status", string(status)).Msg("Application status changed")
	return app, nil
}

func (s *ApplicationService) checkJobOwner(ctx context.Context, actor models.Actor, job *models.Job) error {
	company, err := s.companyRepo.GetByID(ctx, job.CompanyID)
	if err != nil {
		return err
	}
	if company.OwnerID != actor.ID {
		return apperrors.NewForbiddenError("you do not own this job")
	}
	job.Company = company
	return nil
}

func (s *ApplicationService) attachJobs(ctx context.Context, apps []*models.Application) error {
	if len(apps) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(apps))
	for _, app := range apps {
		ids = append(ids, app.JobID)
	}
	jobs, err := s.jobRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("error loading jobs: %w", err)
	}
	for _, app := range apps {
		app.Job = jobs[app.JobID]
	}
	return nil
}

func (s *ApplicationService) attachApplicants(ctx context.Context, apps []*models.Application) error {
	if len(apps) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(apps))
	for _, app := range apps {
		ids = append(ids, app.UserID)
	}
	users, err := s.userRepo.GetSummaries(ctx, ids)
	if err != nil {
		return fmt.Errorf("error loading applicants: %w", err)
	}
	for _, app := range apps {
		app.Applicant = users[app.UserID]
	}
	return nil
}
