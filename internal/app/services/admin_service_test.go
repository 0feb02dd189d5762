package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/filestorage"
)

func TestAdminService_SetUserActive(t *testing.T) {
	ctx := context.Background()
	admin := models.Actor{ID: 1, Role: models.RoleAdmin}

	t.Run("cannot deactivate self", func(t *testing.T) {
		svc := NewAdminService(new(mockUserStore), new(mockTokenStore), nil, nil, nil, zerolog.Nop())
		_, err := svc.SetUserActive(ctx, admin, 1, false)
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("deactivation revokes tokens", func(t *testing.T) {
		users, tokens := new(mockUserStore), new(mockTokenStore)
		svc := NewAdminService(users, tokens, nil, nil, nil, zerolog.Nop())
		users.On("GetByID", ctx, int64(5)).Return(&models.User{ID: 5, IsActive: true}, nil)
		users.On("SetActive", ctx, int64(5), false).Return(nil)
		tokens.On("DeleteAllForUser", ctx, int64(5)).Return(nil)

		user, err := svc.SetUserActive(ctx, admin, 5, false)
		require.NoError(t, err)
		assert.False(t, user.IsActive)
		users.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})
}

func TestAdminService_VerifyCompany(t *testing.T) {
	ctx := context.Background()
	companies := new(mockCompanyStore)
	svc := NewAdminService(nil, nil, companies, nil, nil, zerolog.Nop())
	companies.On("SetVerified", ctx, int64(2), true).Return(nil)
	companies.On("GetByID", ctx, int64(2)).Return(&models.Company{ID: 2, IsVerified: true}, nil)

	c, err := svc.VerifyCompany(ctx, models.Actor{ID: 1, Role: models.RoleAdmin}, 2, true)
	require.NoError(t, err)
	assert.True(t, c.IsVerified)
	companies.AssertExpectations(t)
}

func TestCompanyService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("one company per owner", func(t *testing.T) {
		companies := new(mockCompanyStore)
		svc := NewCompanyService(companies, nil, nil, nil, nil, zerolog.Nop())
		companies.On("GetByOwner", ctx, int64(10)).Return(acme, nil)
		_, err := svc.Create(ctx, owner, &dto.CreateCompanyRequest{Name: "Acme"})
		assert.ErrorIs(t, err, apperrors.ErrCompanyExists)
	})

	t.Run("alerts admins", func(t *testing.T) {
		companies, users, notifier := new(mockCompanyStore), new(mockUserStore), new(mockNotifier)
		svc := NewCompanyService(companies, nil, users, nil, notifier, zerolog.Nop())
		companies.On("GetByOwner", ctx, int64(10)).Return(nil, apperrors.ErrCompanyNotFound)
		companies.On("Create", ctx, mock.MatchedBy(func(c *models.Company) bool { return c.OwnerID == 10 && c.Name == "Acme" })).Return(nil)
		ownerUser := &models.User{ID: 10, FirstName: "Kim"}
		users.On("GetByID", ctx, int64(10)).Return(ownerUser, nil)
		notifier.On("CompanyRegistered", ctx, mock.Anything, ownerUser).Return(assert.AnError)

		_, err := svc.Create(ctx, owner, &dto.CreateCompanyRequest{Name: " Acme "})
		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})
}

func TestCompanyService_ListJobsActiveOnly(t *testing.T) {
	ctx := context.Background()
	companies, jobs := new(mockCompanyStore), new(mockJobStore)
	svc := NewCompanyService(companies, jobs, nil, nil, nil, zerolog.Nop())
	companies.On("GetByID", ctx, int64(2)).Return(acme, nil)
	id := int64(2)
	jobs.On("List", ctx, models.JobFilter{CompanyID: &id, Statuses: []models.JobStatus{models.JobStatusActive}, Limit: 20}).
		Return([]*models.Job{{ID: 1}}, 1, nil)

	list, total, err := svc.ListJobs(ctx, 2, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, acme, list[0].Company)
}

func TestUserService_UploadAvatarReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	users, uploader := new(mockUserStore), new(mockUploader)
	svc := NewUserService(users, uploader, zerolog.Nop())
	fh := &multipart.FileHeader{Filename: "me.png"}

	users.On("GetByID", ctx, int64(3)).Return(&models.User{ID: 3, AvatarURL: ptr("/uploads/avatars/old.png")}, nil)
	uploader.On("Upload", ctx, filestorage.FieldAvatar, fh).Return(&models.StoredFile{URL: "/uploads/avatars/new.png"}, nil)
	users.On("UpdateAvatarURL", ctx, int64(3), "/uploads/avatars/new.png").Return(nil)
	uploader.On("Remove", ctx, "/uploads/avatars/old.png").Return(nil)

	user, err := svc.UploadAvatar(ctx, 3, fh)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatars/new.png", *user.AvatarURL)
	users.AssertExpectations(t)
	uploader.AssertExpectations(t)
}

func TestUserService_UploadRollsBackOnSaveFailure(t *testing.T) {
	ctx := context.Background()
	users, uploader := new(mockUserStore), new(mockUploader)
	svc := NewUserService(users, uploader, zerolog.Nop())
	fh := &multipart.FileHeader{Filename: "cv.pdf"}

	users.On("GetByID", ctx, int64(3)).Return(&models.User{ID: 3}, nil)
	uploader.On("Upload", ctx, filestorage.FieldResume, fh).Return(&models.StoredFile{URL: "/uploads/resumes/cv.pdf"}, nil)
	users.On("UpdateResumeURL", ctx, int64(3), "/uploads/resumes/cv.pdf").Return(assert.AnError)
	uploader.On("Remove", ctx, "/uploads/resumes/cv.pdf").Return(nil)

	_, err := svc.UploadResume(ctx, 3, fh)
	assert.ErrorIs(t, err, assert.AnError)
	uploader.AssertExpectations(t)
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	users := new(mockUserStore)
	svc := NewUserService(users, nil, zerolog.Nop())
	users.On("GetByID", ctx, int64(3)).Return(&models.User{ID: 3, FirstName: "Old", Skills: []string{}}, nil)
	users.On("UpdateProfile", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.FirstName == "New" && len(u.Skills) == 2 && u.ExperienceYears == 5
	})).Return(nil)

	user, err := svc.UpdateProfile(ctx, 3, &dto.UpdateProfileRequest{
		FirstName:       ptr(" New "),
		Skills:          &[]string{"go", "sql"},
		ExperienceYears: ptr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "New", user.FirstName)
}
