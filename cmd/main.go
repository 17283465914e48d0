package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"github.com/haiminh-dev/drivemaster/config"
	_ "github.com/haiminh-dev/drivemaster/docs"
	adminctrl "github.com/haiminh-dev/drivemaster/internal/controller/admin"
	userctrl "github.com/haiminh-dev/drivemaster/internal/controller/user"
	"github.com/haiminh-dev/drivemaster/internal/logger"
	"github.com/haiminh-dev/drivemaster/internal/repository"
	"github.com/haiminh-dev/drivemaster/internal/service"
)

// @title Drive Master API
// @version 1.0
// @description Driving theory practice and trial exam backend. Progress and exam history live in an external record store; this service owns all scoring and aggregation.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewClient,
			repository.NewQuestionRepository,
			repository.NewProgressRepository,
			repository.NewExamRepository,
			repository.NewUserRepository,
		),

		fx.Provide(
			service.NewProgressSource,
			service.NewEvaluationService,
			service.NewPracticeService,
			service.NewCategoryService,
			service.NewExamSessionService,
			service.NewStatisticsService,
			service.NewAuthService,
		),

		fx.Provide(
			userctrl.NewPracticeController,
			userctrl.NewExamController,
			userctrl.NewStatisticController,
			userctrl.NewAuthController,
			adminctrl.NewAdminQuestionController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
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
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	practiceCtrl *userctrl.PracticeController,
	examCtrl *userctrl.ExamController,
	statisticCtrl *userctrl.StatisticController,
	authCtrl *userctrl.AuthController,
	adminQuestionCtrl *adminctrl.AdminQuestionController,
) {
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		questionsAdminGroup := adminAPIGroup.Group("/questions")
		questionsAdminGroup.POST("", adminQuestionCtrl.CreateQuestion)
		questionsAdminGroup.GET("", adminQuestionCtrl.GetAllQuestions)
		questionsAdminGroup.GET("/:id", adminQuestionCtrl.GetQuestion)
		questionsAdminGroup.PUT("/:id", adminQuestionCtrl.UpdateQuestion)
		questionsAdminGroup.DELETE("/:id", adminQuestionCtrl.DeleteQuestion)
	}

	userAPIGroup := router.Group("/api/v1")
	{
		userAPIGroup.GET("/questions", practiceCtrl.GetQuestions)

		userAPIGroup.GET("/progress", practiceCtrl.GetProgress)
		userAPIGroup.DELETE("/progress", practiceCtrl.ResetProgress)
		userAPIGroup.POST("/progress/select", practiceCtrl.SelectOption)
		userAPIGroup.POST("/progress/reveal", practiceCtrl.RevealAnswer)

		userAPIGroup.GET("/topics/stats", practiceCtrl.GetTopicStats)

		userAPIGroup.POST("/exams/sessions", examCtrl.StartSession)
		userAPIGroup.GET("/exams/sessions/:session_id", examCtrl.GetSession)
		userAPIGroup.PUT("/exams/sessions/:session_id/answers", examCtrl.SelectAnswer)
		userAPIGroup.POST("/exams/sessions/:session_id/submit", examCtrl.Submit)
		userAPIGroup.POST("/exams/sessions/:session_id/abandon", examCtrl.Abandon)
		userAPIGroup.GET("/exams/history", examCtrl.GetHistory)
		userAPIGroup.GET("/exams/history/:record_id", examCtrl.GetResultDetail)

		userAPIGroup.GET("/statistics", statisticCtrl.GetStatistics)
		userAPIGroup.GET("/statistics/frequently-wrong", statisticCtrl.GetFrequentlyWrong)

		userAPIGroup.POST("/auth/login", authCtrl.Login)
		userAPIGroup.POST("/auth/register", authCtrl.Register)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Drive Master API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
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
