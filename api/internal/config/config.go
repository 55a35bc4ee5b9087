package config

import (
	"log"
	"os"
)

const (
	// MaxUploadSize is the ceiling for a single product image upload.
	MaxUploadSize = 10 << 20 // 10 MiB

	DefaultTimeoutSec = 180
)

// AllowedImageTypes are the media types accepted by the classify endpoint.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type Config struct {
	Port string

	// IBM watsonx (primary vision provider)
	WatsonxAPIKey    string
	WatsonxProjectID string
	WatsonxURL       string
	WatsonxModel     string

	// Alternate vision providers
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string

	// Which engine serves requests unless the caller picks one
	DefaultEngine string

	// Optional: keep a copy of accepted uploads on disk
	UploadDir string

	// Bot mode
	TelegramBotToken string
	WebhookURL       string
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8000"),

		WatsonxAPIKey:    mustEnv("WATSONX_API_KEY"),
		WatsonxProjectID: mustEnv("WATSONX_PROJECT_ID"),
		WatsonxURL:       getEnv("WATSONX_URL", "https://us-south.ml.cloud.ibm.com"),
		WatsonxModel:     getEnv("WATSONX_MODEL", "meta-llama/llama-3-2-90b-vision-instruct"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		DefaultEngine: getEnv("VISION_ENGINE", "watsonx"),

		UploadDir: os.Getenv("UPLOAD_DIR"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebhookURL:       os.Getenv("WEBHOOK_URL"),
	}
}

// LoadBot is Load plus the envs only the bot binary requires.
func LoadBot() *Config {
	cfg := Load()
	cfg.TelegramBotToken = mustEnv("TELEGRAM_BOT_TOKEN")
	return cfg
}
