package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/FitSyncBack/internal/config"
	"github.com/saeid-a/FitSyncBack/internal/handlers"
	"github.com/saeid-a/FitSyncBack/internal/middleware"
	"github.com/saeid-a/FitSyncBack/internal/program"
	"github.com/saeid-a/FitSyncBack/internal/repository"
	"github.com/saeid-a/FitSyncBack/internal/services"
	syncws "github.com/saeid-a/FitSyncBack/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	programRepo := repository.NewProgramRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	resultRepo := repository.NewResultRepository(db)

	hub := syncws.NewHub()
	go hub.Run()

	programStore := program.NewStore()
	programEditor := program.NewEditor(programStore, programRepo, hub)
	programService := services.NewProgramService(programStore, programEditor, programRepo)
	chatService := services.NewChatService(messageRepo, userRepo)
	accountService := services.NewAccountService(userRepo, cfg.JWTSecret)
	feedbackService := services.NewFeedbackService(resultRepo, taskRepo)

	authHandler := handlers.NewAuthHandler(accountService)
	accountHandler := handlers.NewAccountHandler(accountService)
	programHandler := handlers.NewProgramHandler(programService)
	chatHandler := handlers.NewChatHandler(chatService, hub, cfg.JWTSecret)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	roles := authProtected.Group("/roles")
	roles.Post("/get", accountHandler.GetRole)
	roles.Post("/set", accountHandler.SetRole)

	authProtected.Get("/users", accountHandler.ListUsers)
	authProtected.Get("/profile", accountHandler.GetProfile)
	authProtected.Put("/profile", accountHandler.UpdateProfile)

	programs := authProtected.Group("/programs")
	programs.Get("/:clientId", programHandler.GetWeek)
	programs.Post("/:clientId/copy-week", programHandler.CopyWeek)
	programs.Post("/:clientId/:day/blocks", programHandler.AddBlock)
	programs.Post("/:clientId/:day/blocks/:index/exercises", programHandler.AppendExercise)
	programs.Post("/:clientId/:day/blocks/:index/toggle", programHandler.ToggleBlock)

	authProtected.Post("/results", feedbackHandler.SubmitResult)
	authProtected.Get("/results/:clientId", feedbackHandler.ListResults)
	authProtected.Post("/tasks", feedbackHandler.AppendTask)
	authProtected.Get("/tasks/:clientId", feedbackHandler.ListTasks)

	authProtected.Get("/messages/:userId", chatHandler.GetMessages)

	api.Use("/v1/ws", chatHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(chatHandler.HandleWebSocket))
}
