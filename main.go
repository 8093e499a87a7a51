package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-system/config"
	"quiz-system/internal/handlers"
	"quiz-system/internal/middleware"
	"quiz-system/internal/repository"
	"quiz-system/internal/service"
	"quiz-system/pkg/cache"
	"quiz-system/pkg/database"
	"quiz-system/pkg/messaging"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	log.Println("Configuration loaded")

	pgClient, err := database.NewPostgresClient(&cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	log.Println("Connected to PostgreSQL")
	defer pgClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := pgClient.InitSchema(ctx); err != nil {
		log.Printf("Warning: Failed to initialize PostgreSQL schema: %v", err)
	} else {
		log.Println("PostgreSQL schema initialized")
	}
	cancel()

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")
	defer redisClient.Close()

	rabbitClient, err := messaging.NewRabbitMQClient(&cfg.RabbitMQ)
	if err != nil {
		log.Printf("Warning: Failed to connect to RabbitMQ: %v", err)
		rabbitClient = nil
	} else {
		log.Println("Connected to RabbitMQ")
		defer rabbitClient.Close()
	}

	db := pgClient.GetDB()
	quizRepo := repository.NewQuizRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	sessionTTL := time.Duration(cfg.Session.GraceHours) * time.Hour
	sessionStore := repository.NewSessionStore(redisClient, sessionTTL)

	var mqPublisher service.RabbitMQPublisher
	if rabbitClient != nil {
		mqPublisher = rabbitClient
	}

	activityService := service.NewActivityService(activityRepo, notificationRepo, mqPublisher)
	accessValidator := service.NewAccessValidator(quizRepo)
	attemptService := service.NewAttemptService(accessValidator, sessionStore, submissionRepo, activityService)
	quizService := service.NewQuizService(quizRepo, submissionRepo, activityService)
	reportService := service.NewReportService(submissionRepo, quizRepo, activityRepo)
	notificationService := service.NewNotificationService(notificationRepo)

	if rabbitClient != nil && os.Getenv("CONSUME_EVENTS") == "true" {
		go consumeQueue(context.Background(), rabbitClient, "quiz.submitted", notificationService.HandleActivityEvent)
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "quiz-system",
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		if pgClient == nil || redisClient == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
		})
	})

	quizHandler := handlers.NewQuizHandler(quizService)
	attemptHandler := handlers.NewAttemptHandler(attemptService)
	reportHandler := handlers.NewReportHandler(reportService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	api := router.Group("/api/v1")
	api.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		api.GET("/quizzes", quizHandler.ListQuizzes)
		api.GET("/quizzes/:id", quizHandler.GetQuiz)
		api.POST("/quizzes", middleware.AdminOnly(), quizHandler.CreateQuiz)
		api.PUT("/quizzes/:id", middleware.AdminOnly(), quizHandler.UpdateQuiz)
		api.DELETE("/quizzes/:id", middleware.AdminOnly(), quizHandler.DeleteQuiz)
		api.POST("/quizzes/:id/assignments", middleware.AdminOnly(), quizHandler.AssignStudents)

		api.POST("/quizzes/:id/attempt", attemptHandler.StartAttempt)
		api.PUT("/quizzes/:id/attempt", attemptHandler.SaveProgress)
		api.GET("/quizzes/:id/attempt", attemptHandler.LoadProgress)
		api.DELETE("/quizzes/:id/attempt", attemptHandler.ClearProgress)
		api.POST("/quizzes/:id/submit", attemptHandler.Submit)
		api.POST("/quizzes/:id/auto-submit", attemptHandler.AutoSubmit)
		api.GET("/submissions/:id", attemptHandler.GetSubmission)

		api.GET("/reports/students/:id", reportHandler.StudentReport)
		api.GET("/reports/students/:id/gradebook", reportHandler.Gradebook)
		api.GET("/reports/quizzes/:id", reportHandler.QuizReport)
		api.GET("/reports/quizzes/:id/submissions", reportHandler.QuizSubmissions)
		api.GET("/reports/overview", reportHandler.Overview)
		api.GET("/reports/activity", reportHandler.RecentActivity)

		api.GET("/notifications", notificationHandler.List)
		api.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		api.DELETE("/notifications/:id", notificationHandler.Delete)
	}

	httpAddr := ":" + cfg.Server.HTTPPort
	log.Printf("Quiz System HTTP server starting on port %s...", cfg.Server.HTTPPort)

	go func() {
		if err := router.Run(httpAddr); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Quiz System stopped")
}

func consumeQueue(ctx context.Context, rabbitClient *messaging.RabbitMQClient, queueName string, handler func(context.Context, []byte) error) {
	msgs, err := rabbitClient.Consume(queueName)
	if err != nil {
		log.Printf("Failed to start consumer for queue %s: %v", queueName, err)
		return
	}

	log.Printf("Started consumer for queue: %s", queueName)

	for msg := range msgs {
		if err := handler(ctx, msg.Body); err != nil {
			log.Printf("Error handling message from %s: %v", queueName, err)
			msg.Nack(false, true)
		} else {
			msg.Ack(false)
		}
	}
}
