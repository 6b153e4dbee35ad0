package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sales-objectives-api/internal/config"
	"github.com/yukikurage/sales-objectives-api/internal/constants"
	"github.com/yukikurage/sales-objectives-api/internal/database"
	"github.com/yukikurage/sales-objectives-api/internal/handlers"
	"github.com/yukikurage/sales-objectives-api/internal/middleware"
	"github.com/yukikurage/sales-objectives-api/internal/repository"
	"github.com/yukikurage/sales-objectives-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,                        // Redis pool size
		"tcp",                     // network type
		redisAddr,                 // Redis address from config
		"",                        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize services
	uow := repository.NewUnitOfWork(database.GetDB())

	var drafter services.ObjectiveDrafter
	if cfg.OpenAIAPIKey != "" {
		drafter = services.NewAIService(cfg.OpenAIAPIKey)
	}

	authService := services.NewAuthService(uow.Users())
	contributorService := services.NewContributorService(uow)
	objectiveService := services.NewObjectiveService(uow)
	assignmentService := services.NewAssignmentService(uow)
	qualitativeService := services.NewQualitativeService(uow, drafter)
	reportService := services.NewReportService(uow)

	// Daily status sweep so objectives past their end date settle without a write
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to resolve timezone: %v", err)
	}
	scheduler := services.NewScheduler(loc)
	if _, err := scheduler.ScheduleStatusSweep(cfg.StatusSweepTime, assignmentService, constants.StatusSweepTimeout); err != nil {
		log.Fatalf("Failed to schedule status sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	contributorHandler := handlers.NewContributorHandler(contributorService)
	objectiveHandler := handlers.NewObjectiveHandler(objectiveService, assignmentService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService)
	qualitativeHandler := handlers.NewQualitativeHandler(qualitativeService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Health check endpoint
	r.GET("/health", handlers.Health)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Contributor directory (managers)
		contributors := api.Group("/contributors")
		contributors.Use(middleware.RequireAuth(), middleware.RequireManager())
		{
			contributors.GET("", contributorHandler.ListContributors)
			contributors.PATCH("/:id/active", contributorHandler.SetActive)
			contributors.DELETE("/:id", contributorHandler.DeleteContributor)
		}

		// Numeric objective catalog
		objectives := api.Group("/objectives")
		objectives.Use(middleware.RequireAuth())
		{
			objectives.GET("", objectiveHandler.ListObjectives)
			objectives.GET("/:id", objectiveHandler.GetObjective)
			objectives.GET("/:id/suggested-target", objectiveHandler.GetSuggestedTarget)

			manage := objectives.Group("")
			manage.Use(middleware.RequireManager())
			{
				manage.POST("", objectiveHandler.CreateObjective)
				manage.POST("/bulk-assign-global", objectiveHandler.BulkAssignGlobal)
				manage.PATCH("/:id", objectiveHandler.UpdateObjective)
				manage.DELETE("/:id", objectiveHandler.DeleteObjective)
				manage.POST("/:id/assignments", objectiveHandler.AssignObjective)
				manage.GET("/:id/assignments", objectiveHandler.ListObjectiveAssignments)
			}
		}

		// Contributor assignments and monthly progress
		assignments := api.Group("/assignments")
		assignments.Use(middleware.RequireAuth())
		{
			assignments.GET("", assignmentHandler.ListMyObjectives)
			assignments.GET("/:id", middleware.RequireAssignmentAccess(), assignmentHandler.GetAssignment)
			assignments.DELETE("/:id", middleware.RequireManager(), assignmentHandler.DeleteAssignment)
			assignments.PUT("/:id/progress/:month", middleware.RequireAssignmentAccess(), assignmentHandler.RecordProgress)
			assignments.DELETE("/:id/progress/:month", middleware.RequireAssignmentAccess(), assignmentHandler.ClearProgress)
		}

		// Qualitative objectives
		qualitative := api.Group("/qualitative-objectives")
		qualitative.Use(middleware.RequireAuth())
		{
			qualitative.GET("", qualitativeHandler.ListQualitativeObjectives)
			qualitative.GET("/:id", qualitativeHandler.GetQualitativeObjective)

			manage := qualitative.Group("")
			manage.Use(middleware.RequireManager())
			{
				manage.POST("", qualitativeHandler.CreateQualitativeObjective)
				manage.POST("/generate", qualitativeHandler.GenerateDrafts)
				manage.PATCH("/:id", qualitativeHandler.UpdateQualitativeObjective)
				manage.DELETE("/:id", qualitativeHandler.DeleteQualitativeObjective)
				manage.PUT("/:id/assignees", qualitativeHandler.SetAssignees)
				manage.POST("/:id/complete", qualitativeHandler.CompleteQualitativeObjective)
			}
		}

		// Reports
		reports := api.Group("/reports")
		reports.Use(middleware.RequireAuth())
		{
			reports.GET("/me/scorecard", reportHandler.GetMyScorecard)
			reports.GET("/contributors/:id/scorecard", reportHandler.GetContributorScorecard)
			reports.GET("/company", middleware.RequireManager(), reportHandler.GetCompanyDashboard)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
