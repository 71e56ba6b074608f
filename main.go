package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"practice-service/internal/ai"
	"practice-service/internal/config"
	"practice-service/internal/db"
	"practice-service/internal/event"
	"practice-service/internal/handlers"
	"practice-service/internal/repository"
	"practice-service/internal/selection"
	"practice-service/internal/service"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()

	if err := db.InitMongo(&cfg.MongoDB); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.CloseDB()

	// RabbitMQ event publisher hands completed attempts to the external
	// report/email renderer.
	var publisher *event.EventPublisher
	if cfg.RabbitMQ.URI != "" && cfg.RabbitMQ.Exchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, attempt events will not be published")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	database := db.Database

	// Questions
	questionRepo := repository.NewQuestionRepository(database)
	questionService := service.NewQuestionService(questionRepo)
	questionHandler := handlers.NewQuestionHandler(questionService)

	// Results
	resultRepo := repository.NewResultRepository(database)
	resultService := service.NewResultService(resultRepo)
	resultHandler := handlers.NewResultHandler(resultService)

	// Practice selection with AI fallback. Without an API key the
	// selector returns short batches instead of synthesizing.
	var generator *selection.SyntheticGenerator
	if cfg.AI.APIKey != "" {
		generator = selection.NewSyntheticGenerator(ai.NewClient(cfg.AI))
	} else {
		log.Println("AI provider not configured, synthetic practice questions disabled")
	}
	selector := selection.NewSelector(questionRepo, generator, cfg.AI.Delay)

	// Attempt workflow: evaluate -> select practice -> persist -> publish
	evaluator := service.NewEvaluationService(questionRepo)
	var sink service.EventSink
	if publisher != nil {
		sink = publisher
	}
	attemptService := service.NewAttemptService(evaluator, selector, resultRepo, sink)
	attemptHandler := handlers.NewAttemptHandler(attemptService)

	// Public routes - Questions
	publicQuestion := r.Group("/public/practice/question")
	{
		publicQuestion.GET("/", func(c *gin.Context) {
			questionHandler.ListQuestions(c)
			if publisher != nil {
				publisher.Publish("question.list", gin.H{"job_id": c.Query("job_id"), "topic": c.Query("topic")})
			}
		})
		publicQuestion.GET("/:id", func(c *gin.Context) {
			questionHandler.GetQuestion(c)
			if publisher != nil {
				publisher.Publish("question.get", gin.H{"id": c.Param("id")})
			}
		})
	}

	publicUser := r.Group("/public/practice/user")
	{
		publicUser.GET("/:id/results", func(c *gin.Context) {
			resultHandler.GetResultsByUser(c)
			if publisher != nil {
				publisher.Publish("user.results", gin.H{"id": c.Param("id")})
			}
		})
	}

	// Protected routes - question bank maintenance
	protectedQuestion := r.Group("/protected/practice/question")
	protectedQuestion.Use(handlers.RequireUser(cfg.JWT.Secret))
	{
		protectedQuestion.POST("/", questionHandler.CreateQuestion)
		protectedQuestion.PUT("/:id", questionHandler.UpdateQuestion)
		protectedQuestion.DELETE("/:id", questionHandler.DeleteQuestion)
	}

	// Protected routes - attempt submission
	protectedAttempt := r.Group("/protected/practice/attempt")
	protectedAttempt.Use(handlers.RequireUser(cfg.JWT.Secret))
	{
		protectedAttempt.POST("/", func(c *gin.Context) {
			attemptHandler.Submit(c)
			if publisher != nil {
				publisher.Publish("practice.attempt.submitted", gin.H{
					"user_id":   c.GetString("userID"),
					"timestamp": time.Now(),
				})
			}
		})
	}

	r.Run(cfg.Server.Host + ":" + cfg.Server.Port)
}
