package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"neuraslide/internal/aiclient"
	"neuraslide/internal/billing"
	"neuraslide/internal/config"
	"neuraslide/internal/handler"
	"neuraslide/internal/instagram"
	"neuraslide/internal/middleware"
	"neuraslide/internal/models"
	"neuraslide/internal/notifier"
	"neuraslide/internal/repository"
	"neuraslide/internal/service"
)

type Server struct {
	router    *gin.Engine
	db        *sqlx.DB
	cfg       *config.Config
	logger    *zap.Logger
	accessLog *logrus.Logger
	ig        *instagram.Client
	generator aiclient.Generator
	billing   *billing.Client
	notifier  *notifier.Notifier
}

func NewServer(
	db *sqlx.DB,
	cfg *config.Config,
	logger *zap.Logger,
	ig *instagram.Client,
	generator aiclient.Generator,
	billingClient *billing.Client,
	n *notifier.Notifier,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	accessLog := logrus.New()
	accessLog.SetFormatter(&logrus.JSONFormatter{})
	router.Use(middleware.RequestLog(accessLog))

	s := &Server{
		router:    router,
		db:        db,
		cfg:       cfg,
		logger:    logger,
		accessLog: accessLog,
		ig:        ig,
		generator: generator,
		billing:   billingClient,
		notifier:  n,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	userRepo := repository.NewUserRepository(s.db, s.logger)
	teamRepo := repository.NewTeamRepository(s.db, s.logger)
	automationRepo := repository.NewAutomationRepository(s.db, s.logger)
	conversationRepo := repository.NewConversationRepository(s.db, s.logger)
	messageRepo := repository.NewMessageRepository(s.db, s.logger)
	productRepo := repository.NewProductRepository(s.db, s.logger)
	aiRepo := repository.NewAIRepository(s.db, s.logger)
	adminRepo := repository.NewAdminRepository(s.db, s.logger)

	tokenTTL := time.Duration(s.cfg.Auth.TokenTTLHours) * time.Hour

	authService := service.NewAuthService(userRepo, teamRepo, s.billing, s.notifier, s.cfg.Auth.JWTSecret, tokenTTL, s.logger)
	automationService := service.NewAutomationService(automationRepo, s.logger)
	conversationService := service.NewConversationService(conversationRepo, messageRepo, aiRepo, s.ig, s.generator, s.logger)
	productService := service.NewProductService(productRepo, s.logger)
	aiService := service.NewAIService(aiRepo, s.generator, s.logger)
	adminService := service.NewAdminService(userRepo, teamRepo, adminRepo, s.billing, s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	automationHandler := handler.NewAutomationHandler(automationService, s.logger)
	conversationHandler := handler.NewConversationHandler(conversationService, s.logger)
	productHandler := handler.NewProductHandler(productService, s.logger)
	aiHandler := handler.NewAIHandler(aiService, s.logger)
	adminHandler := handler.NewAdminHandler(adminService, s.logger)

	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	secret := []byte(s.cfg.Auth.JWTSecret)
	authRequired := middleware.AuthMiddleware(secret, s.logger)

	authGroup := s.router.Group("/crystal/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/forgot-password", authHandler.ForgotPassword)
	authGroup.POST("/reset-password", authHandler.ResetPassword)
	authGroup.POST("/verify-email", authHandler.VerifyEmail)
	authGroup.POST("/logout", authRequired, authHandler.Logout)
	authGroup.GET("/me", authRequired, authHandler.Me)
	authGroup.POST("/change-password", authRequired, authHandler.ChangePassword)

	app := s.router.Group("/crystal")
	app.Use(authRequired)
	{
		automations := app.Group("/automations")
		automations.POST("", automationHandler.Create)
		automations.GET("", automationHandler.List)
		automations.GET("/:id", automationHandler.Get)
		automations.PUT("/:id", automationHandler.Update)
		automations.DELETE("/:id", automationHandler.Delete)
		automations.POST("/:id/toggle", automationHandler.Toggle)
		automations.POST("/:id/test", automationHandler.Test)

		conversations := app.Group("/conversations")
		conversations.GET("", conversationHandler.List)
		conversations.GET("/stats", conversationHandler.Stats)
		conversations.GET("/:id", conversationHandler.Get)
		conversations.GET("/:id/messages", conversationHandler.Messages)
		conversations.POST("/:id/send", conversationHandler.Send)
		conversations.POST("/:id/reply", conversationHandler.Reply)
		conversations.PATCH("/:id/status", conversationHandler.UpdateStatus)
		conversations.POST("/:id/tags", conversationHandler.UpdateTags)

		products := app.Group("/products")
		products.POST("", productHandler.Create)
		products.GET("", productHandler.List)
		products.GET("/search", productHandler.Search)
		products.GET("/categories", productHandler.Categories)
		products.GET("/analytics", productHandler.Analytics)
		products.POST("/bulk-import", productHandler.BulkImport)
		products.GET("/:id", productHandler.Get)
		products.PUT("/:id", productHandler.Update)
		products.DELETE("/:id", productHandler.Delete)

		ai := app.Group("/ai")
		ai.POST("/generate", aiHandler.Generate)
		ai.GET("/performance", aiHandler.Performance)
		ai.POST("/conversations", aiHandler.CreateConversation)
		ai.GET("/conversations", aiHandler.ListConversations)
		ai.GET("/conversations/:id", aiHandler.GetConversation)
		ai.DELETE("/conversations/:id", aiHandler.DeleteConversation)
		ai.GET("/conversations/:id/messages", aiHandler.ListMessages)
		ai.POST("/training", aiHandler.CreateTrainingData)
		ai.GET("/training", aiHandler.ListTrainingData)
		ai.DELETE("/training/:id", aiHandler.DeleteTrainingData)
	}

	admin := s.router.Group("/nexus/admin")
	admin.Use(authRequired, middleware.RequireRole(models.RoleOwner, models.RoleAdmin))
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.PATCH("/users/:id", adminHandler.UpdateUser)
		admin.POST("/users/bulk", adminHandler.BulkUserOperation)
		admin.GET("/metrics", adminHandler.Metrics)
		admin.GET("/health", adminHandler.Health)
		admin.GET("/actions", adminHandler.ListActions)
		admin.GET("/settings", adminHandler.ListSettings)
		admin.PUT("/settings", adminHandler.UpdateSetting)
	}
}

func (s *Server) Run(addr string) {
	s.logger.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.logger.Fatal("Server failed to start", zap.Error(err))
	}
}
