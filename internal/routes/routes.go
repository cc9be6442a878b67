package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/config"
	"github.com/Josef-Holecek/krouzky-hb-main/internal/handlers"
	"github.com/Josef-Holecek/krouzky-hb-main/internal/middleware"
	"github.com/Josef-Holecek/krouzky-hb-main/internal/repository"
	"github.com/Josef-Holecek/krouzky-hb-main/internal/services"
	chatws "github.com/Josef-Holecek/krouzky-hb-main/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	clubRepo := repository.NewClubRepository(db)
	trainerRepo := repository.NewTrainerRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	savedClubRepo := repository.NewSavedClubRepository(db)

	authorizer := services.NewAdminAllowList(cfg.AdminEmails)

	var storageService services.StorageService
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	moderationService := services.NewModerationService(authorizer)
	messageService := services.NewMessageService(db, messageRepo)

	hub := chatws.NewHub()
	go hub.Run()

	authHandler := handlers.NewAuthHandler(userRepo, authorizer, cfg.JWTSecret)
	clubHandler := handlers.NewClubHandler(clubRepo, authorizer, storageService)
	trainerHandler := handlers.NewTrainerHandler(trainerRepo, authorizer, storageService)
	adminHandler := handlers.NewAdminHandler(clubRepo, trainerRepo, moderationService, authorizer)
	messageHandler := handlers.NewMessageHandler(messageService, hub, cfg.JWTSecret)
	savedClubHandler := handlers.NewSavedClubHandler(savedClubRepo)

	optionalAuth := middleware.AuthOptional(cfg.JWTSecret)
	requireAuth := middleware.AuthRequired(cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", requireAuth, authHandler.Me)

	v1 := api.Group("/v1")

	// Public listings; optional auth lets owners see their own
	// pending/rejected entities on the detail routes.
	v1.Get("/clubs", optionalAuth, clubHandler.ListClubs)
	v1.Get("/clubs/:id", optionalAuth, clubHandler.GetClub)
	v1.Get("/trainers", optionalAuth, trainerHandler.ListTrainers)
	v1.Get("/trainers/:id", optionalAuth, trainerHandler.GetTrainer)

	v1.Post("/clubs", requireAuth, clubHandler.CreateClub)
	v1.Get("/my/clubs", requireAuth, clubHandler.MyClubs)
	v1.Put("/clubs/:id", requireAuth, clubHandler.UpdateClub)
	v1.Post("/clubs/:id/image", requireAuth, clubHandler.UploadClubImage)

	v1.Post("/trainers", requireAuth, trainerHandler.CreateTrainer)
	v1.Get("/my/trainers", requireAuth, trainerHandler.MyTrainers)
	v1.Put("/trainers/:id", requireAuth, trainerHandler.UpdateTrainer)
	v1.Post("/trainers/:id/image", requireAuth, trainerHandler.UploadTrainerImage)

	admin := v1.Group("/admin", requireAuth)
	admin.Get("/clubs", adminHandler.ListAllClubs)
	admin.Get("/trainers", adminHandler.ListAllTrainers)
	admin.Put("/clubs/:id/status", adminHandler.SetClubStatus)
	admin.Put("/trainers/:id/status", adminHandler.SetTrainerStatus)

	v1.Get("/messages", requireAuth, messageHandler.ListMessages)
	v1.Post("/messages", requireAuth, messageHandler.SendMessage)
	v1.Get("/messages/unread-count", requireAuth, messageHandler.UnreadCount)
	v1.Get("/conversations", requireAuth, messageHandler.ListConversations)
	v1.Post("/conversations/:userId/read", requireAuth, messageHandler.MarkConversationRead)

	v1.Get("/saved-clubs", requireAuth, savedClubHandler.ListSavedClubs)
	v1.Post("/saved-clubs/:clubId", requireAuth, savedClubHandler.SaveClub)
	v1.Delete("/saved-clubs/:clubId", requireAuth, savedClubHandler.UnsaveClub)

	api.Use("/v1/ws", messageHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(messageHandler.HandleWebSocket))
}
