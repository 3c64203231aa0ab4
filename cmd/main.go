package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/config"
	"github.com/lshigami/Quokka/database"
	_ "github.com/lshigami/Quokka/docs" // Swagger docs - auto-generated
	adminctrl "github.com/lshigami/Quokka/internal/controller/admin"
	userctrl "github.com/lshigami/Quokka/internal/controller/user"
	"github.com/lshigami/Quokka/internal/logger"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/lshigami/Quokka/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Course Quiz Generation API
// @version 1.0
// @description Automated quiz generation from course materials with attempt governance.
// @contact.name API Support
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		// Repositories layer
		fx.Provide(
			repository.NewCourseRepository,
			repository.NewQuizRepository,
			repository.NewQuizAttemptRepository,
		),

		// Services layer
		fx.Provide(
			service.NewTextExtractionService,
			service.NewChunkingService,
			service.NewGeminiBackend,
			service.NewQuestionGenerationService,
			service.NewQuizConsolidationService,
			service.NewFileFetcher,
			service.NewCourseContentLocator,
			func(l *service.CourseContentLocator) service.MaterialLocator { return l },
			func(l *service.CourseContentLocator) service.CourseStatusProvider { return l },
			service.NewQuizOrchestratorService,
			service.NewAttemptGovernorService,
		),

		// API controllers layer
		fx.Provide(
			adminctrl.NewQuizAdminController,
			userctrl.NewQuizUserController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	quizAdminCtrl *adminctrl.QuizAdminController,
	quizUserCtrl *userctrl.QuizUserController,
) {
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		adminAPIGroup.POST("/courses/:course_id/quiz/generate", quizAdminCtrl.GenerateQuiz)
		adminAPIGroup.POST("/quizzes/:quiz_id/attempts/reset", quizAdminCtrl.ResetBlock)
	}

	userAPIGroup := router.Group("/api/v1")
	{
		userAPIGroup.GET("/courses/:course_id/quiz", quizUserCtrl.GetQuiz)
		userAPIGroup.GET("/courses/:course_id/quiz/eligibility", quizUserCtrl.CheckEligibility)
		userAPIGroup.POST("/courses/:course_id/quiz/attempts", quizUserCtrl.SubmitAttempt)
		userAPIGroup.GET("/quizzes/:quiz_id/attempts", quizUserCtrl.GetAttemptHistory)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quiz generation API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Course{},
		&model.CourseMaterial{},
		&model.Assignment{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizAttempt{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
