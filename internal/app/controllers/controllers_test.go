package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/app/services"
	"github.com/yigit/hireboard/internal/middleware"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// asUser stands in for JWTAuth.
func asUser(id int64, role models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetCurrentUser(c, &middleware.AuthUser{ID: id, Role: role})
		c.Next()
	}
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// --- auth ---

type mockAuthAPI struct{ mock.Mock }

func (m *mockAuthAPI) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.RegisterResponse)
	return resp, args.Error(1)
}

func (m *mockAuthAPI) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthAPI) ResendOTP(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAuthAPI) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthAPI) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	args := m.Called(ctx, refreshToken)
	resp, _ := args.Get(0).(*dto.TokenResponse)
	return resp, args.Error(1)
}

func (m *mockAuthAPI) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *mockAuthAPI) Me(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func TestAuthController_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		api := new(mockAuthAPI)
		api.On("Register", mock.Anything, mock.MatchedBy(func(req *dto.RegisterRequest) bool {
			return req.Email == "jane@example.com" && req.Role == models.RoleCompany
		})).Return(&dto.RegisterResponse{UserID: 7, Email: "jane@example.com", Message: "Verification code sent"}, nil)

		r := gin.New()
		r.POST("/register", NewAuthController(api, zerolog.Nop()).Register)
		w := serve(r, jsonRequest(http.MethodPost, "/register", map[string]string{
			"email":     "jane@example.com",
			"password":  "secret123",
			"firstName": "Jane",
			"lastName":  "Doe",
			"role":      "COMPANY",
		}))

		require.Equal(t, http.StatusCreated, w.Code)
		env := decode(t, w)
		assert.True(t, env.Success)
		var resp dto.RegisterResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, int64(7), resp.UserID)
		api.AssertExpectations(t)
	})

	t.Run("validation failure never reaches the service", func(t *testing.T) {
		api := new(mockAuthAPI)
		r := gin.New()
		r.POST("/register", NewAuthController(api, zerolog.Nop()).Register)
		w := serve(r, jsonRequest(http.MethodPost, "/register", map[string]string{
			"email":    "not-an-email",
			"password": "x",
		}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		assert.False(t, env.Success)
		assert.Equal(t, string(dto.ErrorCodeValidationFailed), env.Error.Code)
		api.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("duplicate email", func(t *testing.T) {
		api := new(mockAuthAPI)
		api.On("Register", mock.Anything, mock.Anything).Return(nil, apperrors.ErrEmailAlreadyExists)
		r := gin.New()
		r.POST("/register", NewAuthController(api, zerolog.Nop()).Register)
		w := serve(r, jsonRequest(http.MethodPost, "/register", map[string]string{
			"email":     "jane@example.com",
			"password":  "secret123",
			"firstName": "Jane",
			"lastName":  "Doe",
		}))
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

// --- chat ---

type mockChatAPI struct{ mock.Mock }

func (m *mockChatAPI) OpenDirect(ctx context.Context, userID, otherID int64) (*models.Chat, bool, error) {
	args := m.Called(ctx, userID, otherID)
	chat, _ := args.Get(0).(*models.Chat)
	return chat, args.Bool(1), args.Error(2)
}

func (m *mockChatAPI) List(ctx context.Context, userID int64) ([]*models.Chat, error) {
	args := m.Called(ctx, userID)
	chats, _ := args.Get(0).([]*models.Chat)
	return chats, args.Error(1)
}

func (m *mockChatAPI) Get(ctx context.Context, userID, chatID int64) (*models.Chat, error) {
	args := m.Called(ctx, userID, chatID)
	chat, _ := args.Get(0).(*models.Chat)
	return chat, args.Error(1)
}

func (m *mockChatAPI) Update(ctx context.Context, userID, chatID int64, name *string, avatar *multipart.FileHeader) (*models.Chat, error) {
	args := m.Called(ctx, userID, chatID, name, avatar)
	chat, _ := args.Get(0).(*models.Chat)
	return chat, args.Error(1)
}

func (m *mockChatAPI) Messages(ctx context.Context, userID, chatID int64, page, limit int) (*dto.MessagesPage, error) {
	args := m.Called(ctx, userID, chatID, page, limit)
	p, _ := args.Get(0).(*dto.MessagesPage)
	return p, args.Error(1)
}

func (m *mockChatAPI) Send(ctx context.Context, userID, chatID int64, in services.SendMessageInput) (*models.Message, error) {
	args := m.Called(ctx, userID, chatID, in)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func (m *mockChatAPI) MarkRead(ctx context.Context, userID, chatID int64) (*dto.ReadReceipt, error) {
	args := m.Called(ctx, userID, chatID)
	r, _ := args.Get(0).(*dto.ReadReceipt)
	return r, args.Error(1)
}

func (m *mockChatAPI) Edit(ctx context.Context, userID, messageID int64, content string) (*models.Message, error) {
	args := m.Called(ctx, userID, messageID, content)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func (m *mockChatAPI) Delete(ctx context.Context, userID, messageID int64) error {
	return m.Called(ctx, userID, messageID).Error(0)
}

func chatRouter(api ChatAPI) *gin.Engine {
	c := NewChatController(api, zerolog.Nop())
	r := gin.New()
	g := r.Group("", asUser(5, models.RoleUser))
	g.POST("/direct", c.OpenDirect)
	g.GET("/chats/:chatId/messages", c.Messages)
	g.POST("/chats/:chatId/messages", c.Send)
	g.DELETE("/messages/:messageId", c.DeleteMessage)
	return r
}

func TestChatController_OpenDirect(t *testing.T) {
	cases := []struct {
		name    string
		created bool
		status  int
	}{
		{"new chat", true, http.StatusCreated},
		{"existing chat", false, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := new(mockChatAPI)
			api.On("OpenDirect", mock.Anything, int64(5), int64(9)).
				Return(&models.Chat{ID: 3, Type: models.ChatTypeDirect}, tc.created, nil)

			w := serve(chatRouter(api), jsonRequest(http.MethodPost, "/direct", map[string]int64{"userId": 9}))
			assert.Equal(t, tc.status, w.Code)
			api.AssertExpectations(t)
		})
	}

	t.Run("self chat", func(t *testing.T) {
		api := new(mockChatAPI)
		api.On("OpenDirect", mock.Anything, int64(5), int64(5)).
			Return(nil, false, apperrors.NewBadRequestError("cannot open a chat with yourself"))
		w := serve(chatRouter(api), jsonRequest(http.MethodPost, "/direct", map[string]int64{"userId": 5}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestChatController_Send(t *testing.T) {
	t.Run("json text", func(t *testing.T) {
		api := new(mockChatAPI)
		api.On("Send", mock.Anything, int64(5), int64(3), services.SendMessageInput{Content: "hello"}).
			Return(&models.Message{ID: 1, ChatID: 3, Content: "hello", Type: models.MessageTypeText}, nil)

		w := serve(chatRouter(api), jsonRequest(http.MethodPost, "/chats/3/messages", map[string]string{"content": "hello"}))
		assert.Equal(t, http.StatusCreated, w.Code)
		api.AssertExpectations(t)
	})

	t.Run("multipart attachment", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("content", "see attached"))
		part, err := mw.CreateFormFile("file", "cv.pdf")
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 test"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		api := new(mockChatAPI)
		api.On("Send", mock.Anything, int64(5), int64(3), mock.MatchedBy(func(in services.SendMessageInput) bool {
			return in.Content == "see attached" && in.File != nil && in.File.Filename == "cv.pdf"
		})).Return(&models.Message{ID: 2, ChatID: 3, Type: models.MessageTypeFile}, nil)

		req := httptest.NewRequest(http.MethodPost, "/chats/3/messages", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := serve(chatRouter(api), req)

		assert.Equal(t, http.StatusCreated, w.Code)
		api.AssertExpectations(t)
	})

	t.Run("bad chat id", func(t *testing.T) {
		api := new(mockChatAPI)
		w := serve(chatRouter(api), jsonRequest(http.MethodPost, "/chats/abc/messages", map[string]string{"content": "x"}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		api.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not a participant", func(t *testing.T) {
		api := new(mockChatAPI)
		api.On("Send", mock.Anything, int64(5), int64(3), mock.Anything).Return(nil, apperrors.ErrNotChatParticipant)
		w := serve(chatRouter(api), jsonRequest(http.MethodPost, "/chats/3/messages", map[string]string{"content": "x"}))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestChatController_MessagesPassesPaging(t *testing.T) {
	api := new(mockChatAPI)
	api.On("Messages", mock.Anything, int64(5), int64(3), 2, 10).
		Return(&dto.MessagesPage{Messages: []*models.Message{}, Page: 2, Limit: 10}, nil)

	w := serve(chatRouter(api), httptest.NewRequest(http.MethodGet, "/chats/3/messages?page=2&limit=10", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	api.AssertExpectations(t)
}

// --- jobs ---

type mockJobAPI struct{ mock.Mock }

func (m *mockJobAPI) Create(ctx context.Context, actor models.Actor, req *dto.CreateJobRequest) (*models.Job, error) {
	args := m.Called(ctx, actor, req)
	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *mockJobAPI) Get(ctx context.Context, viewer *models.Actor, jobID int64) (*models.Job, error) {
	args := m.Called(ctx, viewer, jobID)
	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *mockJobAPI) List(ctx context.Context, filter models.JobFilter) ([]*models.Job, int, error) {
	args := m.Called(ctx, filter)
	jobs, _ := args.Get(0).([]*models.Job)
	return jobs, args.Int(1), args.Error(2)
}

func (m *mockJobAPI) Mine(ctx context.Context, actor models.Actor, offset, limit int) ([]*models.Job, int, error) {
	args := m.Called(ctx, actor, offset, limit)
	jobs, _ := args.Get(0).([]*models.Job)
	return jobs, args.Int(1), args.Error(2)
}

func (m *mockJobAPI) Update(ctx context.Context, actor models.Actor, jobID int64, req *dto.UpdateJobRequest) (*models.Job, error) {
	args := m.Called(ctx, actor, jobID, req)
	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *mockJobAPI) UpdateStatus(ctx context.Context, actor models.Actor, jobID int64, status models.JobStatus) (*models.Job, error) {
	args := m.Called(ctx, actor, jobID, status)
	job, _ := args.Get(0).(*models.Job)
	return job, args.Error(1)
}

func (m *mockJobAPI) Delete(ctx context.Context, actor models.Actor, jobID int64) error {
	return m.Called(ctx, actor, jobID).Error(0)
}

func TestJobController_ListEnvelope(t *testing.T) {
	api := new(mockJobAPI)
	api.On("List", mock.Anything, mock.MatchedBy(func(f models.JobFilter) bool {
		return f.Search == "golang" && f.Offset == 10 && f.Limit == 5
	})).Return([]*models.Job{{ID: 1, Title: "Go dev"}}, 11, nil)

	r := gin.New()
	r.GET("/jobs", NewJobController(api, zerolog.Nop()).List)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/jobs?search=golang&page=3&size=5", nil))

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)

	var page struct {
		Items      []models.Job       `json:"items"`
		Pagination dto.PaginationInfo `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Items, 1)
	assert.Equal(t, dto.PaginationInfo{CurrentPage: 3, TotalPages: 3, PageSize: 5, TotalItems: 11}, page.Pagination)
	api.AssertExpectations(t)
}

func TestJobController_GetPassesOptionalViewer(t *testing.T) {
	api := new(mockJobAPI)
	api.On("Get", mock.Anything, (*models.Actor)(nil), int64(4)).Return(nil, apperrors.ErrJobNotFound)
	api.On("Get", mock.Anything, &models.Actor{ID: 10, Role: models.RoleCompany}, int64(4)).
		Return(&models.Job{ID: 4, Status: models.JobStatusDraft}, nil)

	c := NewJobController(api, zerolog.Nop())
	r := gin.New()
	r.GET("/anon/:id", c.Get)
	r.GET("/owner/:id", asUser(10, models.RoleCompany), c.Get)

	assert.Equal(t, http.StatusNotFound, serve(r, httptest.NewRequest(http.MethodGet, "/anon/4", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/owner/4", nil)).Code)
	api.AssertExpectations(t)
}

// --- admin ---

type mockAdminAPI struct{ mock.Mock }

func (m *mockAdminAPI) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*dto.StatsResponse)
	return s, args.Error(1)
}

func (m *mockAdminAPI) ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, int, error) {
	args := m.Called(ctx, filter)
	users, _ := args.Get(0).([]*models.User)
	return users, args.Int(1), args.Error(2)
}

func (m *mockAdminAPI) SetUserActive(ctx context.Context, actor models.Actor, userID int64, active bool) (*models.User, error) {
	args := m.Called(ctx, actor, userID, active)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockAdminAPI) ListCompanies(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, int, error) {
	args := m.Called(ctx, filter)
	companies, _ := args.Get(0).([]*models.Company)
	return companies, args.Int(1), args.Error(2)
}

func (m *mockAdminAPI) VerifyCompany(ctx context.Context, actor models.Actor, companyID int64, verified bool) (*models.Company, error) {
	args := m.Called(ctx, actor, companyID, verified)
	company, _ := args.Get(0).(*models.Company)
	return company, args.Error(1)
}

func (m *mockAdminAPI) DeleteJob(ctx context.Context, actor models.Actor, jobID int64) error {
	return m.Called(ctx, actor, jobID).Error(0)
}

func TestAdminController_SetUserStatus(t *testing.T) {
	admin := models.Actor{ID: 1, Role: models.RoleAdmin}
	api := new(mockAdminAPI)
	api.On("SetUserActive", mock.Anything, admin, int64(8), false).
		Return(&models.User{ID: 8, IsActive: false}, nil)

	r := gin.New()
	r.PATCH("/users/:id/status", asUser(1, models.RoleAdmin), NewAdminController(api, zerolog.Nop()).SetUserStatus)

	w := serve(r, jsonRequest(http.MethodPatch, "/users/8/status", map[string]bool{"isActive": false}))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, jsonRequest(http.MethodPatch, "/users/8/status", map[string]string{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	api.AssertNumberOfCalls(t, "SetUserActive", 1)
}

func TestAdminController_ListUsersRejectsUnknownRole(t *testing.T) {
	api := new(mockAdminAPI)
	r := gin.New()
	r.GET("/users", NewAdminController(api, zerolog.Nop()).ListUsers)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/users?role=ROOT", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	api.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything)
}
