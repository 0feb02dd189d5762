package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/pkg/events"
)

func ptr[T any](v T) *T { return &v }

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUserStore) ReplaceUnverified(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) SetOTP(ctx context.Context, userID int64, code string, expiresAt time.Time) error {
	return m.Called(ctx, userID, code, expiresAt).Error(0)
}

func (m *mockUserStore) MarkVerified(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockUserStore) UpdateLastLogin(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockUserStore) UpdateProfile(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) UpdateAvatarURL(ctx context.Context, userID int64, url string) error {
	return m.Called(ctx, userID, url).Error(0)
}

func (m *mockUserStore) UpdateResumeURL(ctx context.Context, userID int64, url string) error {
	return m.Called(ctx, userID, url).Error(0)
}

func (m *mockUserStore) SetActive(ctx context.Context, userID int64, active bool) error {
	return m.Called(ctx, userID, active).Error(0)
}

func (m *mockUserStore) List(ctx context.Context, filter models.UserFilter) ([]*models.User, int, error) {
	args := m.Called(ctx, filter)
	users, _ := args.Get(0).([]*models.User)
	return users, args.Int(1), args.Error(2)
}

func (m *mockUserStore) GetSummaries(ctx context.Context, ids []int64) (map[int64]*models.UserSummary, error) {
	args := m.Called(ctx, ids)
	s, _ := args.Get(0).(map[int64]*models.UserSummary)
	return s, args.Error(1)
}

type mockTokenStore struct{ mock.Mock }

func (m *mockTokenStore) Create(ctx context.Context, token *models.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockTokenStore) GetByValue(ctx context.Context, token string) (*models.RefreshToken, error) {
	args := m.Called(ctx, token)
	t, _ := args.Get(0).(*models.RefreshToken)
	return t, args.Error(1)
}

func (m *mockTokenStore) Delete(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockTokenStore) DeleteAllForUser(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

type mockCompanyStore struct{ mock.Mock }

func (m *mockCompanyStore) Create(ctx context.Context, company *models.Company) error {
	return m.Called(ctx, company).Error(0)
}

func (m *mockCompanyStore) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Company)
	return c, args.Error(1)
}

func (m *mockCompanyStore) GetByOwner(ctx context.Context, userID int64) (*models.Company, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(*models.Company)
	return c, args.Error(1)
}

func (m *mockCompanyStore) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.Company, error) {
	args := m.Called(ctx, ids)
	c, _ := args.Get(0).(map[int64]*models.Company)
	return c, args.Error(1)
}

func (m *mockCompanyStore) Update(ctx context.Context, company *models.Company) error {
	return m.Called(ctx, company).Error(0)
}

func (m *mockCompanyStore) UpdateLogoURL(ctx context.Context, id int64, url string) error {
	return m.Called(ctx, id, url).Error(0)
}

func (m *mockCompanyStore) SetVerified(ctx context.Context, id int64, verified bool) error {
	return m.Called(ctx, id, verified).Error(0)
}

func (m *mockCompanyStore) List(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, int, error) {
	args := m.Called(ctx, filter)
	c, _ := args.Get(0).([]*models.Company)
	return c, args.Int(1), args.Error(2)
}

type mockJobStore struct{ mock.Mock }

func (m *mockJobStore) Create(ctx context.Context, job *models.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *mockJobStore) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	args := m.Called(ctx, id)
	j, _ := args.Get(0).(*models.Job)
	return j, args.Error(1)
}

func (m *mockJobStore) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.Job, error) {
	args := m.Called(ctx, ids)
	j, _ := args.Get(0).(map[int64]*models.Job)
	return j, args.Error(1)
}

func (m *mockJobStore) Update(ctx context.Context, job *models.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *mockJobStore) UpdateStatus(ctx context.Context, id int64, status models.JobStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockJobStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockJobStore) List(ctx context.Context, filter models.JobFilter) ([]*models.Job, int, error) {
	args := m.Called(ctx, filter)
	j, _ := args.Get(0).([]*models.Job)
	return j, args.Int(1), args.Error(2)
}

type mockApplicationStore struct{ mock.Mock }

func (m *mockApplicationStore) Create(ctx context.Context, app *models.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *mockApplicationStore) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.Application)
	return a, args.Error(1)
}

func (m *mockApplicationStore) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.Application, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	a, _ := args.Get(0).([]*models.Application)
	return a, args.Int(1), args.Error(2)
}

func (m *mockApplicationStore) ListByJob(ctx context.Context, jobID int64, offset, limit int) ([]*models.Application, int, error) {
	args := m.Called(ctx, jobID, offset, limit)
	a, _ := args.Get(0).([]*models.Application)
	return a, args.Int(1), args.Error(2)
}

func (m *mockApplicationStore) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockApplicationStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockChatStore struct{ mock.Mock }

func (m *mockChatStore) GetByID(ctx context.Context, id int64) (*models.Chat, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Chat)
	return c, args.Error(1)
}

func (m *mockChatStore) FindOrCreateDirect(ctx context.Context, userID, otherID int64) (*models.Chat, bool, error) {
	args := m.Called(ctx, userID, otherID)
	c, _ := args.Get(0).(*models.Chat)
	return c, args.Bool(1), args.Error(2)
}

func (m *mockChatStore) GetParticipant(ctx context.Context, chatID, userID int64) (*models.ChatParticipant, error) {
	args := m.Called(ctx, chatID, userID)
	p, _ := args.Get(0).(*models.ChatParticipant)
	return p, args.Error(1)
}

func (m *mockChatStore) ListParticipants(ctx context.Context, chatIDs ...int64) ([]*models.ChatParticipant, error) {
	args := m.Called(ctx, chatIDs)
	p, _ := args.Get(0).([]*models.ChatParticipant)
	return p, args.Error(1)
}

func (m *mockChatStore) ParticipantIDs(ctx context.Context, chatID int64) ([]int64, error) {
	args := m.Called(ctx, chatID)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

func (m *mockChatStore) ListForUser(ctx context.Context, userID int64) ([]*models.Chat, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).([]*models.Chat)
	return c, args.Error(1)
}

func (m *mockChatStore) MarkRead(ctx context.Context, chatID, userID int64, at time.Time) error {
	return m.Called(ctx, chatID, userID, at).Error(0)
}

func (m *mockChatStore) Update(ctx context.Context, chatID int64, name, avatarURL *string) error {
	return m.Called(ctx, chatID, name, avatarURL).Error(0)
}

func (m *mockChatStore) Touch(ctx context.Context, chatID int64, at time.Time) error {
	return m.Called(ctx, chatID, at).Error(0)
}

type mockMessageStore struct{ mock.Mock }

func (m *mockMessageStore) Create(ctx context.Context, message *models.Message) error {
	return m.Called(ctx, message).Error(0)
}

func (m *mockMessageStore) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	args := m.Called(ctx, id)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func (m *mockMessageStore) ListByChat(ctx context.Context, chatID int64, offset, limit int) ([]*models.Message, error) {
	args := m.Called(ctx, chatID, offset, limit)
	msgs, _ := args.Get(0).([]*models.Message)
	return msgs, args.Error(1)
}

func (m *mockMessageStore) UpdateContent(ctx context.Context, id int64, content string) error {
	return m.Called(ctx, id, content).Error(0)
}

func (m *mockMessageStore) SoftDelete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockCommunityStore struct{ mock.Mock }

func (m *mockCommunityStore) Create(ctx context.Context, community *models.Community) error {
	return m.Called(ctx, community).Error(0)
}

func (m *mockCommunityStore) GetByID(ctx context.Context, id, viewerID int64) (*models.Community, error) {
	args := m.Called(ctx, id, viewerID)
	c, _ := args.Get(0).(*models.Community)
	return c, args.Error(1)
}

func (m *mockCommunityStore) List(ctx context.Context, filter models.CommunityFilter, viewerID int64) ([]*models.Community, int, error) {
	args := m.Called(ctx, filter, viewerID)
	c, _ := args.Get(0).([]*models.Community)
	return c, args.Int(1), args.Error(2)
}

func (m *mockCommunityStore) ListForUser(ctx context.Context, userID int64) ([]*models.Community, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).([]*models.Community)
	return c, args.Error(1)
}

func (m *mockCommunityStore) GetMember(ctx context.Context, communityID, userID int64) (*models.CommunityMember, error) {
	args := m.Called(ctx, communityID, userID)
	mem, _ := args.Get(0).(*models.CommunityMember)
	return mem, args.Error(1)
}

func (m *mockCommunityStore) Join(ctx context.Context, communityID, userID int64) (int, error) {
	args := m.Called(ctx, communityID, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockCommunityStore) Leave(ctx context.Context, communityID, userID int64) (int, error) {
	args := m.Called(ctx, communityID, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockCommunityStore) ListMembers(ctx context.Context, communityID int64, offset, limit int) ([]*models.CommunityMember, int, error) {
	args := m.Called(ctx, communityID, offset, limit)
	mem, _ := args.Get(0).([]*models.CommunityMember)
	return mem, args.Int(1), args.Error(2)
}

func (m *mockCommunityStore) UpdateMemberRole(ctx context.Context, communityID, userID int64, role models.CommunityRole) error {
	return m.Called(ctx, communityID, userID, role).Error(0)
}

func (m *mockCommunityStore) UpdateAvatarURL(ctx context.Context, communityID int64, url string) error {
	return m.Called(ctx, communityID, url).Error(0)
}

type mockStatsStore struct{ mock.Mock }

func (m *mockStatsStore) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*dto.StatsResponse)
	return s, args.Error(1)
}

type mockUploader struct{ mock.Mock }

func (m *mockUploader) Upload(ctx context.Context, field string, fh *multipart.FileHeader) (*models.StoredFile, error) {
	args := m.Called(ctx, field, fh)
	f, _ := args.Get(0).(*models.StoredFile)
	return f, args.Error(1)
}

func (m *mockUploader) Remove(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

// recordingPublisher keeps every event for assertions
type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) on(channel string) []string {
	var names []string
	for _, e := range p.events {
		if e.Channel == channel {
			names = append(names, e.Name)
		}
	}
	return names
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendVerificationCode(toEmail, toName, code string, ttl time.Duration) error {
	return m.Called(toEmail, toName, code, ttl).Error(0)
}

func (m *mockMailer) SendWelcomeEmail(toEmail, toName string) error {
	return m.Called(toEmail, toName).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) CompanyRegistered(ctx context.Context, company *models.Company, owner *models.User) error {
	return m.Called(ctx, company, owner).Error(0)
}

func (m *mockNotifier) SendMessage(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}
