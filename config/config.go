package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server      Server
	RecordStore RecordStore
	Exam        Exam
	Database    Database
}

type Server struct {
	Port string
}

// RecordStore points the API server at the record-collection service.
// Port is what the record store binary itself listens on.
type RecordStore struct {
	BaseURL string
	Port    string
	Timeout time.Duration
}

// Exam holds the trial-exam rules: draw size, countdown length and the
// normalized score (0-100) counted as a pass.
type Exam struct {
	QuestionCount int
	Duration      time.Duration
	PassThreshold float64
}

// Database is only used by the record store binary.
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("RECORD_STORE_URL", "http://localhost:9999")
	viper.SetDefault("RECORD_STORE_PORT", "9999")
	viper.SetDefault("RECORD_STORE_TIMEOUT_SECONDS", 10)
	viper.SetDefault("EXAM_QUESTION_COUNT", 25)
	viper.SetDefault("EXAM_DURATION_SECONDS", 1140)
	viper.SetDefault("EXAM_PASS_THRESHOLD", 80)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")

	config.RecordStore.BaseURL = viper.GetString("RECORD_STORE_URL")
	config.RecordStore.Port = viper.GetString("RECORD_STORE_PORT")
	config.RecordStore.Timeout = time.Duration(viper.GetInt("RECORD_STORE_TIMEOUT_SECONDS")) * time.Second

	config.Exam.QuestionCount = viper.GetInt("EXAM_QUESTION_COUNT")
	config.Exam.Duration = time.Duration(viper.GetInt("EXAM_DURATION_SECONDS")) * time.Second
	config.Exam.PassThreshold = viper.GetFloat64("EXAM_PASS_THRESHOLD")

	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	log.Info().Str("port", config.Server.Port).Str("record_store", config.RecordStore.BaseURL).Msg("Config loaded")
	return &config, nil
}
