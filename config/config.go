package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	GeminiApiKey string
	UploadsDir   string
	Pipeline     Pipeline
	Attempts     Attempts
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Pipeline holds every tunable of the quiz generation pipeline. They are plain
// config fields so tests can construct variants without touching globals.
type Pipeline struct {
	MinChunkWords       int
	TargetChunkWords    int
	MaxChunkWords       int
	PromptCharLimit     int
	MaxRetries          int
	RetryDelaySeconds   int
	PacingDelayMillis   int
	SimilarityThreshold float64
	MinQualityScore     float64
	TargetMCQ           int
	TargetShortAnswer   int
	TargetConceptual    int
	MinFinalQuestions   int
	MinExtractedChars   int
}

// Attempts holds the attempt governance policy.
type Attempts struct {
	MaxAttempts       int
	PassingPercentage float64
	BlockDurationDays int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("UPLOADS_DIR", "./uploads")

	viper.SetDefault("PIPELINE_MIN_CHUNK_WORDS", 800)
	viper.SetDefault("PIPELINE_TARGET_CHUNK_WORDS", 1200)
	viper.SetDefault("PIPELINE_MAX_CHUNK_WORDS", 1500)
	viper.SetDefault("PIPELINE_PROMPT_CHAR_LIMIT", 2000)
	viper.SetDefault("PIPELINE_MAX_RETRIES", 3)
	viper.SetDefault("PIPELINE_RETRY_DELAY_SECONDS", 2)
	viper.SetDefault("PIPELINE_PACING_DELAY_MILLIS", 1000)
	viper.SetDefault("PIPELINE_SIMILARITY_THRESHOLD", 0.75)
	viper.SetDefault("PIPELINE_MIN_QUALITY_SCORE", 0.6)
	viper.SetDefault("PIPELINE_TARGET_MCQ", 15)
	viper.SetDefault("PIPELINE_TARGET_SHORT_ANSWER", 10)
	viper.SetDefault("PIPELINE_TARGET_CONCEPTUAL", 5)
	viper.SetDefault("PIPELINE_MIN_FINAL_QUESTIONS", 15)
	viper.SetDefault("PIPELINE_MIN_EXTRACTED_CHARS", 100)

	viper.SetDefault("ATTEMPTS_MAX", 5)
	viper.SetDefault("ATTEMPTS_PASSING_PERCENTAGE", 70)
	viper.SetDefault("ATTEMPTS_BLOCK_DURATION_DAYS", 30)

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.UploadsDir = viper.GetString("UPLOADS_DIR")

	config.Pipeline.MinChunkWords = viper.GetInt("PIPELINE_MIN_CHUNK_WORDS")
	config.Pipeline.TargetChunkWords = viper.GetInt("PIPELINE_TARGET_CHUNK_WORDS")
	config.Pipeline.MaxChunkWords = viper.GetInt("PIPELINE_MAX_CHUNK_WORDS")
	config.Pipeline.PromptCharLimit = viper.GetInt("PIPELINE_PROMPT_CHAR_LIMIT")
	config.Pipeline.MaxRetries = viper.GetInt("PIPELINE_MAX_RETRIES")
	config.Pipeline.RetryDelaySeconds = viper.GetInt("PIPELINE_RETRY_DELAY_SECONDS")
	config.Pipeline.PacingDelayMillis = viper.GetInt("PIPELINE_PACING_DELAY_MILLIS")
	config.Pipeline.SimilarityThreshold = viper.GetFloat64("PIPELINE_SIMILARITY_THRESHOLD")
	config.Pipeline.MinQualityScore = viper.GetFloat64("PIPELINE_MIN_QUALITY_SCORE")
	config.Pipeline.TargetMCQ = viper.GetInt("PIPELINE_TARGET_MCQ")
	config.Pipeline.TargetShortAnswer = viper.GetInt("PIPELINE_TARGET_SHORT_ANSWER")
	config.Pipeline.TargetConceptual = viper.GetInt("PIPELINE_TARGET_CONCEPTUAL")
	config.Pipeline.MinFinalQuestions = viper.GetInt("PIPELINE_MIN_FINAL_QUESTIONS")
	config.Pipeline.MinExtractedChars = viper.GetInt("PIPELINE_MIN_EXTRACTED_CHARS")

	config.Attempts.MaxAttempts = viper.GetInt("ATTEMPTS_MAX")
	config.Attempts.PassingPercentage = viper.GetFloat64("ATTEMPTS_PASSING_PERCENTAGE")
	config.Attempts.BlockDurationDays = viper.GetInt("ATTEMPTS_BLOCK_DURATION_DAYS")

	log.Info().Str("port", config.Server.Port).Str("db", config.Database.Name).Msg("Config loaded")
	return &config, nil
}
