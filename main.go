package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"assessment-service/internal/config"
	"assessment-service/internal/db"
	"assessment-service/internal/event"
	"assessment-service/internal/grading"
	"assessment-service/internal/handlers"
	"assessment-service/internal/logger"
	"assessment-service/internal/repository"
	"assessment-service/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Server.Mode, cfg.Log.File)
	defer logger.Log.Sync()

	if cfg.Mongo.URI == "" {
		logger.Log.Fatal("MONGO_URI is required")
	}
	mongoClient, err := db.Connect(cfg.Mongo.URI)
	if err != nil {
		logger.Log.Fatal("failed to connect to mongo", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())
	database := mongoClient.Database(cfg.Mongo.Database)

	// RabbitMQ event publisher; a nil publisher is a no-op.
	var publisher *event.Publisher
	if cfg.Rabbit.URI != "" && cfg.Rabbit.Exchange != "" {
		publisher, err = event.NewPublisher(cfg.Rabbit.URI, cfg.Rabbit.Exchange)
		if err != nil {
			logger.Log.Fatal("failed to connect to rabbitmq", zap.Error(err))
		}
		defer publisher.Close()
	} else {
		logger.Log.Info("rabbitmq not configured, events will not be published")
	}

	// External grading capability.
	var grader grading.Grader
	if cfg.Grading.APIKey != "" {
		grader = grading.NewOpenAIGrader(cfg.Grading.APIKey, cfg.Grading.Model, cfg.Grading.BaseURL)
	} else {
		logger.Log.Info("grading capability not configured, free-text answers will be flagged for review")
	}

	definitionRepo := repository.NewDefinitionRepository(database)
	questionRepo := repository.NewQuestionRepository(database)
	sessionRepo := repository.NewSessionRepository(database)

	definitionService := service.NewDefinitionService(definitionRepo, questionRepo)
	questionService := service.NewQuestionService(questionRepo)
	sessionService := service.NewSessionService(sessionRepo, definitionRepo, questionRepo, grader, publisher)

	definitionHandler := handlers.NewDefinitionHandler(definitionService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	sessionHandler := handlers.NewSessionHandler(sessionService)

	gin.SetMode(ginMode(cfg.Server.Mode))
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization", "X-User-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Authoring endpoints: answer keys flow through here, never through the
	// session routes.
	authoring := r.Group("/protected/assessment")
	authoring.Use(requireUser())
	{
		authoring.POST("/definitions", definitionHandler.Create)
		authoring.GET("/definitions", definitionHandler.List)
		authoring.GET("/definitions/:id", definitionHandler.Get)
		authoring.POST("/definitions/:id/publish", definitionHandler.Publish)
		authoring.GET("/definitions/:id/questions", questionHandler.ListByDefinition)
		authoring.POST("/questions", questionHandler.Create)
		authoring.GET("/questions/:id", questionHandler.Get)
		authoring.PUT("/questions/:id", questionHandler.Update)
	}

	// Student-facing adaptive loop.
	sessions := r.Group("/protected/assessment/sessions")
	sessions.Use(requireUser())
	{
		sessions.POST("/", sessionHandler.Start)
		sessions.GET("/", sessionHandler.List)
		sessions.POST("/:id/answers", sessionHandler.SubmitAnswer)
		sessions.POST("/:id/abandon", sessionHandler.Abandon)
		sessions.GET("/:id", sessionHandler.Get)
		sessions.GET("/:id/report", sessionHandler.Report)
	}

	logger.Log.Info("assessment service listening", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Log.Fatal("server exited", zap.Error(err))
	}
}

func ginMode(mode string) string {
	if mode == "debug" {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

// requireUser rejects requests without the gateway-set user header.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
