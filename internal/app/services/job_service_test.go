package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
)

var (
	jobNow   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	owner    = models.Actor{ID: 10, Role: models.RoleCompany}
	acme     = &models.Company{ID: 2, OwnerID: 10, Name: "Acme"}
	stranger = models.Actor{ID: 11, Role: models.RoleCompany}
)

func newJobService(t *testing.T) (*JobService, *mockJobStore, *mockCompanyStore) {
	jobs := new(mockJobStore)
	companies := new(mockCompanyStore)
	svc := NewJobService(jobs, companies, zerolog.Nop())
	svc.now = func() time.Time { return jobNow }
	t.Cleanup(func() {
		jobs.AssertExpectations(t)
		companies.AssertExpectations(t)
	})
	return svc, jobs, companies
}

func TestJobService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	base := func() *dto.CreateJobRequest {
		return &dto.CreateJobRequest{Title: "Go Engineer", Description: "Build things well", EmploymentType: models.EmploymentFullTime}
	}

	t.Run("users cannot post", func(t *testing.T) {
		svc, _, _ := newJobService(t)
		_, err := svc.Create(ctx, models.Actor{ID: 1, Role: models.RoleUser}, base())
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("company profile required", func(t *testing.T) {
		svc, _, companies := newJobService(t)
		companies.On("GetByOwner", ctx, int64(10)).Return(nil, apperrors.ErrCompanyNotFound)
		_, err := svc.Create(ctx, owner, base())
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("salary range", func(t *testing.T) {
		svc, _, companies := newJobService(t)
		companies.On("GetByOwner", ctx, int64(10)).Return(acme, nil)
		req := base()
		req.SalaryMin, req.SalaryMax = ptr(90000), ptr(50000)
		_, err := svc.Create(ctx, owner, req)
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("expiry in the past", func(t *testing.T) {
		svc, _, companies := newJobService(t)
		companies.On("GetByOwner", ctx, int64(10)).Return(acme, nil)
		req := base()
		req.ExpiresAt = ptr(jobNow.Add(-time.Hour))
		_, err := svc.Create(ctx, owner, req)
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("defaults to active", func(t *testing.T) {
		svc, jobs, companies := newJobService(t)
		companies.On("GetByOwner", ctx, int64(10)).Return(acme, nil)
		jobs.On("Create", ctx, mock.MatchedBy(func(j *models.Job) bool {
			return j.Status == models.JobStatusActive && j.CompanyID == 2 && j.Requirements != nil
		})).Return(nil)
		job, err := svc.Create(ctx, owner, base())
		require.NoError(t, err)
		assert.Equal(t, acme, job.Company)
	})
}

func TestJobService_GetVisibility(t *testing.T) {
	ctx := context.Background()
	admin := models.Actor{ID: 99, Role: models.RoleAdmin}

	for name, tc := range map[string]struct {
		viewer *models.Actor
		status models.JobStatus
		found  bool
	}{
		"anonymous sees active":  {nil, models.JobStatusActive, true},
		"anonymous misses draft": {nil, models.JobStatusDraft, false},
		"stranger misses closed": {&stranger, models.JobStatusClosed, false},
		"owner sees draft":       {&owner, models.JobStatusDraft, true},
		"admin sees closed":      {&admin, models.JobStatusClosed, true},
	} {
		t.Run(name, func(t *testing.T) {
			svc, jobs, companies := newJobService(t)
			jobs.On("GetByID", ctx, int64(4)).Return(&models.Job{ID: 4, CompanyID: 2, Status: tc.status}, nil)
			companies.On("GetByID", ctx, int64(2)).Return(acme, nil)

			_, err := svc.Get(ctx, tc.viewer, 4)
			if tc.found {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
			}
		})
	}
}

func TestJobService_ListForcesActiveAndAttachesCompanies(t *testing.T) {
	ctx := context.Background()
	svc, jobs, companies := newJobService(t)
	jobs.On("List", ctx, models.JobFilter{Search: "go", Statuses: []models.JobStatus{models.JobStatusActive}, Limit: 20}).
		Return([]*models.Job{{ID: 1, CompanyID: 2}}, 1, nil)
	companies.On("GetByIDs", ctx, []int64{2}).Return(map[int64]*models.Company{2: acme}, nil)

	list, total, err := svc.List(ctx, models.JobFilter{Search: "go", Statuses: []models.JobStatus{models.JobStatusDraft}, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Acme", list[0].Company.Name)
}

func TestJobService_OwnerOnlyMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("stranger cannot delete", func(t *testing.T) {
		svc, jobs, companies := newJobService(t)
		jobs.On("GetByID", ctx, int64(4)).Return(&models.Job{ID: 4, CompanyID: 2}, nil)
		companies.On("GetByID", ctx, int64(2)).Return(acme, nil)
		assert.ErrorIs(t, svc.Delete(ctx, stranger, 4), apperrors.ErrPermissionDenied)
	})

	t.Run("update checks merged salary range", func(t *testing.T) {
		svc, jobs, companies := newJobService(t)
		jobs.On("GetByID", ctx, int64(4)).Return(&models.Job{ID: 4, CompanyID: 2, SalaryMax: ptr(60000)}, nil)
		companies.On("GetByID", ctx, int64(2)).Return(acme, nil)
		_, err := svc.Update(ctx, owner, 4, &dto.UpdateJobRequest{SalaryMin: ptr(70000)})
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("expired job cannot be reactivated", func(t *testing.T) {
		svc, jobs, companies := newJobService(t)
		jobs.On("GetByID", ctx, int64(4)).Return(&models.Job{ID: 4, CompanyID: 2, Status: models.JobStatusClosed, ExpiresAt: ptr(jobNow.Add(-time.Minute))}, nil)
		companies.On("GetByID", ctx, int64(2)).Return(acme, nil)
		_, err := svc.UpdateStatus(ctx, owner, 4, models.JobStatusActive)
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("owner closes", func(t *testing.T) {
		svc, jobs, companies := newJobService(t)
		jobs.On("GetByID", ctx, int64(4)).Return(&models.Job{ID: 4, CompanyID: 2, Status: models.JobStatusActive}, nil)
		companies.On("GetByID", ctx, int64(2)).Return(acme, nil)
		jobs.On("UpdateStatus", ctx, int64(4), models.JobStatusClosed).Return(nil)
		job, err := svc.UpdateStatus(ctx, owner, 4, models.JobStatusClosed)
		require.NoError(t, err)
		assert.Equal(t, models.JobStatusClosed, job.Status)
	})
}
