package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/hireboard/internal/app/controllers"
	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/middleware"
	"github.com/yigit/hireboard/internal/pkg/websocket"
)

// Handlers groups every controller mounted by SetupRouter
type Handlers struct {
	Auth         *controllers.AuthController
	Users        *controllers.UserController
	Companies    *controllers.CompanyController
	Jobs         *controllers.JobController
	Applications *controllers.ApplicationController
	Chats        *controllers.ChatController
	Communities  *controllers.CommunityController
	Admin        *controllers.AdminController
	Realtime     *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")
	requireAuth := authMiddleware.JWTAuth()

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/verify-email", h.Auth.VerifyEmail)
		auth.POST("/resend-otp", h.Auth.ResendOTP)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", requireAuth, h.Auth.Me)
	}

	users := api.Group("/users")
	{
		users.GET("/:id", h.Users.GetUser)
		users.PUT("/me", requireAuth, h.Users.UpdateMe)
		users.POST("/me/avatar", requireAuth, h.Users.UploadAvatar)
		users.POST("/me/resume", requireAuth, h.Users.UploadResume)
	}

	companies := api.Group("/companies")
	{
		companies.GET("", h.Companies.List)
		companies.GET("/:id", h.Companies.Get)
		companies.GET("/:id/jobs", h.Companies.ListJobs)

		owned := companies.Group("", requireAuth)
		owned.POST("", h.Companies.Create)
		owned.GET("/mine", h.Companies.Mine)
		owned.PUT("/mine", h.Companies.UpdateMine)
		owned.POST("/mine/logo", h.Companies.UploadLogo)
	}

	jobs := api.Group("/jobs")
	{
		jobs.GET("", h.Jobs.List)
		jobs.GET("/:id", authMiddleware.OptionalJWTAuth(), h.Jobs.Get)

		owned := jobs.Group("", requireAuth)
		owned.GET("/mine", h.Jobs.Mine)
		owned.POST("", h.Jobs.Create)
		owned.PUT("/:id", h.Jobs.Update)
		owned.PATCH("/:id/status", h.Jobs.UpdateStatus)
		owned.DELETE("/:id", h.Jobs.Delete)
		owned.GET("/:id/applications", h.Applications.ListForJob)
	}

	applications := api.Group("/applications", requireAuth)
	{
		applications.POST("", h.Applications.Apply)
		applications.GET("/mine", h.Applications.Mine)
		applications.GET("/:id", h.Applications.Get)
		applications.DELETE("/:id", h.Applications.Withdraw)
		applications.PATCH("/:id/status", h.Applications.UpdateStatus)
	}

	messages := api.Group("/messages", requireAuth)
	{
		messages.POST("/direct", h.Chats.OpenDirect)
		messages.GET("/chats", h.Chats.ListChats)
		messages.GET("/chats/:chatId", h.Chats.GetChat)
		messages.PATCH("/chats/:chatId", h.Chats.UpdateChat)
		messages.GET("/chats/:chatId/messages", h.Chats.Messages)
		messages.POST("/chats/:chatId/messages", h.Chats.Send)
		messages.POST("/chats/:chatId/read", h.Chats.MarkRead)
		messages.PATCH("/messages/:messageId", h.Chats.EditMessage)
		messages.DELETE("/messages/:messageId", h.Chats.DeleteMessage)
	}

	connects := api.Group("/connects", requireAuth)
	{
		connects.POST("", h.Communities.Create)
		connects.GET("", h.Communities.List)
		connects.GET("/mine", h.Communities.Mine)
		connects.GET("/:id", h.Communities.Get)
		connects.POST("/:id/join", h.Communities.Join)
		connects.POST("/:id/leave", h.Communities.Leave)
		connects.GET("/:id/members", h.Communities.Members)
		connects.PATCH("/:id/members/:userId", h.Communities.UpdateMemberRole)
		connects.POST("/:id/avatar", h.Communities.UploadAvatar)
	}

	admin := api.Group("/admin", requireAuth, authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/stats", h.Admin.Stats)
		admin.GET("/users", h.Admin.ListUsers)
		admin.PATCH("/users/:id/status", h.Admin.SetUserStatus)
		admin.GET("/companies", h.Admin.ListCompanies)
		admin.PATCH("/companies/:id/verify", h.Admin.VerifyCompany)
		admin.DELETE("/jobs/:id", h.Admin.DeleteJob)
	}

	api.GET("/realtime/ws", requireAuth, h.Realtime.HandleConnection)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})

	router.NoRoute(middleware.NoRoute)
}
