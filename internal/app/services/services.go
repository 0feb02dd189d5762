// Package services holds the business rules of the API. Services depend on the
// store interfaces below; the repositories package provides the PostgreSQL versions.
package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/pkg/events"
)

// UserStore persists users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ReplaceUnverified(ctx context.Context, user *models.User) error
	SetOTP(ctx context.Context, userID int64, code string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, userID int64) error
	UpdateLastLogin(ctx context.Context, userID int64) error
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateAvatarURL(ctx context.Context, userID int64, url string) error
	UpdateResumeURL(ctx context.Context, userID int64, url string) error
	SetActive(ctx context.Context, userID int64, active bool) error
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, int, error)
	GetSummaries(ctx context.Context, ids []int64) (map[int64]*models.UserSummary, error)
}

// TokenStore persists refresh tokens
type TokenStore interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByValue(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteAllForUser(ctx context.Context, userID int64) error
}

// CompanyStore persists companies
type CompanyStore interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	GetByOwner(ctx context.Context, userID int64) (*models.Company, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	UpdateLogoURL(ctx context.Context, id int64, url string) error
	SetVerified(ctx context.Context, id int64, verified bool) error
	List(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, int, error)
}

// JobStore persists jobs
type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id int64) (*models.Job, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	UpdateStatus(ctx context.Context, id int64, status models.JobStatus) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.JobFilter) ([]*models.Job, int, error)
}

// ApplicationStore persists applications
type ApplicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.Application, int, error)
	ListByJob(ctx context.Context, jobID int64, offset, limit int) ([]*models.Application, int, error)
	UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error
	Delete(ctx context.Context, id int64) error
}

// ChatStore persists chats and participants
type ChatStore interface {
	GetByID(ctx context.Context, id int64) (*models.Chat, error)
	FindOrCreateDirect(ctx context.Context, userID, otherID int64) (*models.Chat, bool, error)
	GetParticipant(ctx context.Context, chatID, userID int64) (*models.ChatParticipant, error)
	ListParticipants(ctx context.Context, chatIDs ...int64) ([]*models.ChatParticipant, error)
	ParticipantIDs(ctx context.Context, chatID int64) ([]int64, error)
	ListForUser(ctx context.Context, userID int64) ([]*models.Chat, error)
	MarkRead(ctx context.Context, chatID, userID int64, at time.Time) error
	Update(ctx context.Context, chatID int64, name, avatarURL *string) error
	Touch(ctx context.Context, chatID int64, at time.Time) error
}

// MessageStore persists chat messages
type MessageStore interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	ListByChat(ctx context.Context, chatID int64, offset, limit int) ([]*models.Message, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	SoftDelete(ctx context.Context, id int64) error
}

// CommunityStore persists communities and memberships
type CommunityStore interface {
	Create(ctx context.Context, community *models.Community) error
	GetByID(ctx context.Context, id, viewerID int64) (*models.Community, error)
	List(ctx context.Context, filter models.CommunityFilter, viewerID int64) ([]*models.Community, int, error)
	ListForUser(ctx context.Context, userID int64) ([]*models.Community, error)
	GetMember(ctx context.Context, communityID, userID int64) (*models.CommunityMember, error)
	Join(ctx context.Context, communityID, userID int64) (int, error)
	Leave(ctx context.Context, communityID, userID int64) (int, error)
	ListMembers(ctx context.Context, communityID int64, offset, limit int) ([]*models.CommunityMember, int, error)
	UpdateMemberRole(ctx context.Context, communityID, userID int64, role models.CommunityRole) error
	UpdateAvatarURL(ctx context.Context, communityID int64, url string) error
}

// StatsStore aggregates platform counters
type StatsStore interface {
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

// FileUploader stores multipart uploads under a field policy
type FileUploader interface {
	Upload(ctx context.Context, field string, fh *multipart.FileHeader) (*models.StoredFile, error)
	Remove(ctx context.Context, url string) error
}

// publish fans events out without failing the caller; the write they describe is
// already committed.
func publish(ctx context.Context, publisher events.Publisher, logger zerolog.Logger, evts ...events.Event) {
	if publisher == nil {
		return
	}
	for _, e := range evts {
		if err := publisher.Publish(ctx, e); err != nil {
			logger.Warn().Err(err).Str("channel", e.Channel).Str("event", e.Name).Msg("Failed to publish realtime event")
		}
	}
}

// replaceFile removes the previous upload after a successful swap.
func replaceFile(ctx context.Context, uploader FileUploader, logger zerolog.Logger, previous *string) {
	if previous == nil || *previous == "" {
		return
	}
	if err := uploader.Remove(ctx, *previous); err != nil {
		logger.Warn().Err(err).Str("url", *previous).Msg("Failed to remove replaced file")
	}
}
