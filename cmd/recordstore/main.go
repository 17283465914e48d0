package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/haiminh-dev/drivemaster/config"
	"github.com/haiminh-dev/drivemaster/database"
	"github.com/haiminh-dev/drivemaster/internal/logger"
	"github.com/haiminh-dev/drivemaster/internal/model"
	"github.com/haiminh-dev/drivemaster/internal/recordstore"
)

func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			recordstore.NewServer,
		),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(StartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start record store")
	}

	<-app.Done()
	log.Info().Msg("Record store shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Msg("store_request")
		return ""
	}))
	r.Use(gin.Recovery())
	return r
}

func StartServer(lc fx.Lifecycle, router *gin.Engine, cfg *config.Config, store *recordstore.Server) {
	store.RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.RecordStore.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Record store starting on port %s", cfg.RecordStore.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Record store ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Record store shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running record store migrations...")
	err := db.AutoMigrate(
		&model.Question{},
		&model.ProgressRecord{},
		&model.ExamRecord{},
		&model.User{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Record store migration failed")
		return err
	}
	log.Info().Msg("Record store migration completed")
	return nil
}
