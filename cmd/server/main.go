package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"quizroom-backend/internal/config"
	"quizroom-backend/internal/database"
	"quizroom-backend/internal/handlers"
	"quizroom-backend/internal/services"
	"quizroom-backend/internal/store"
	"quizroom-backend/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Quiz Room API
// @version         1.0
// @description     Real-time multiplayer quiz-room coordination service
// @host            localhost:8080
// @BasePath        /

func main() {
	// A .env file is optional; plain environment variables still apply.
	_ = godotenv.Load()
	cfg := config.Load()

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		logger.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Error("index bootstrap failed", "error", err)
		os.Exit(1)
	}

	roomStore := store.NewRoomStore(db)
	quizStore := store.NewQuizStore(db)

	hub := ws.NewHub(logger)
	defer hub.Stop()

	// Broadcasts stay process-local unless NATS bridges them across
	// instances; without it push delivery only reaches clients served
	// by this process and the client-side poller covers the rest.
	var broadcaster services.Broadcaster = hub
	if cfg.NatsURL != "" {
		bridge, err := ws.NewBridge(hub, cfg.NatsURL, logger)
		if err != nil {
			logger.Error("nats bridge failed", "error", err)
			os.Exit(1)
		}
		defer bridge.Close()
		broadcaster = bridge
		logger.Info("broadcast bridge enabled", "url", cfg.NatsURL)
	}

	roomService := services.NewRoomService(roomStore, quizStore, broadcaster, logger)
	quizService := services.NewQuizService(quizStore)

	roomHandler := handlers.NewRoomHandler(roomService)
	quizHandler := handlers.NewQuizHandler(quizService)
	wsHandler := handlers.NewWSHandler(hub, logger)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.CORSOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/room", wsHandler.HandleRoomSocket)

	api := r.Group("/api/v1")
	{
		rooms := api.Group("/rooms")
		{
			rooms.POST("", roomHandler.CreateRoom)
			rooms.POST("/join", roomHandler.JoinRoom)
			rooms.GET("/:code", roomHandler.GetRoom)
			rooms.POST("/:code/start", roomHandler.StartQuiz)
			rooms.POST("/:code/submit", roomHandler.SubmitResult)
			rooms.POST("/:code/leave", roomHandler.LeaveRoom)
		}

		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("/:id", quizHandler.GetQuiz)
			quizzes.POST("/:id/attempts", quizHandler.ScoreSoloAttempt)
		}
	}

	logger.Info("server starting", "port", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
