package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	IMAP     IMAPConfig
	LinkedIn LinkedInConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	ContractDir        string
	DraftDir           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type IMAPConfig struct {
	Server   string
	Email    string
	Password string
}

type LinkedInConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenPath    string
}

type AIConfig struct {
	LLMProvider          string // "ollama" or "huggingface"
	LLMModel             string // e.g. "llama3", "tinyllama"
	LLMAPIKey            string
	OllamaBaseURL        string
	EmbeddingProvider    string // "ollama"
	OllamaEmbeddingModel string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			ContractDir:        getEnv("CONTRACT_DIR", "data/contracts"),
			DraftDir:           getEnv("LINKEDIN_DRAFT_DIR", "data/linkedin_drafts"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", getEnv("SENDER_EMAIL", "")),
			Password:   getEnv("SMTP_PASSWORD", getEnv("SENDER_PASSWORD", "")),
			SenderName: getEnv("SMTP_SENDER_NAME", "Smart-Hire"),
		},
		IMAP: IMAPConfig{
			Server:   getEnv("IMAP_SERVER", "imap.gmail.com"),
			Email:    getEnv("SENDER_EMAIL", ""),
			Password: getEnv("SENDER_PASSWORD", ""),
		},
		LinkedIn: LinkedInConfig{
			ClientID:     getEnv("LINKEDIN_CLIENT_ID", ""),
			ClientSecret: getEnv("LINKEDIN_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("LINKEDIN_REDIRECT_URL", "http://localhost:3000/api/linkedin/v1/callback"),
			TokenPath:    getEnv("LINKEDIN_TOKEN_PATH", "data/linkedin_token.json"),
		},
		Ai: AIConfig{
			LLMProvider:          getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:             getEnv("LLM_MODEL", "tinyllama"),
			LLMAPIKey:            getEnv("LLM_API_KEY", ""),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
