package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/F0gboy/DiscGolfCoachingSite/internal/config"
	"github.com/F0gboy/DiscGolfCoachingSite/internal/handlers"
	"github.com/F0gboy/DiscGolfCoachingSite/internal/middleware"
	"github.com/F0gboy/DiscGolfCoachingSite/internal/repository"
	"github.com/F0gboy/DiscGolfCoachingSite/internal/services"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	roundRepo := repository.NewRoundRepository(db)

	var storageService services.StorageService
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	accountService := services.NewAccountService(db)
	conversationService := services.NewConversationService(conversationRepo, profileRepo, messageRepo)
	messageService := services.NewMessageService(db, conversationRepo, messageRepo, responseRepo, conversationService)
	progressService := services.NewProgressService(roundRepo)

	authHandler := handlers.NewAuthHandler(accountService, cfg.JWTSecret)
	dashboardHandler := handlers.NewDashboardHandler(userRepo, conversationService)
	conversationHandler := handlers.NewConversationHandler(conversationService, messageService)
	messageHandler := handlers.NewMessageHandler(messageService, storageService)
	profileHandler := handlers.NewProfileHandler(profileRepo, storageService)
	progressHandler := handlers.NewProgressHandler(progressService)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	api.Post("/submit", middleware.OptionalAuth(cfg.JWTSecret), messageHandler.Submit)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	authProtected.Get("/dashboard", dashboardHandler.Dashboard)
	authProtected.Get("/inbox", messageHandler.Inbox)

	messages := authProtected.Group("/messages")
	messages.Get("/:id", messageHandler.GetMessage)
	messages.Post("/:id/responses", messageHandler.Respond)

	conversations := authProtected.Group("/conversations")
	conversations.Get("", conversationHandler.List)
	conversations.Post("/start/:userID", conversationHandler.Start)
	conversations.Get("/:id", conversationHandler.GetThread)
	conversations.Get("/:id/messages", conversationHandler.GetThread)
	conversations.Post("/:id/messages", conversationHandler.PostMessage)

	profile := authProtected.Group("/profile")
	profile.Get("", profileHandler.GetProfile)
	profile.Put("", profileHandler.UpdateProfile)
	profile.Post("/avatar", profileHandler.UploadAvatar)

	progress := authProtected.Group("/progress")
	progress.Get("", progressHandler.GetProgress)
	progress.Post("/rounds", progressHandler.LogRound)

	return nil
}
