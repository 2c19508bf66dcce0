package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Payment provider: checkout sessions are created by proxying to it.
	CheckoutSessionURL string
	CheckoutReturnURL  string

	// IBGE municipality lookup backing the Brazilian tax-info branch.
	IBGEBaseURL string

	// Resend (invitation emails)
	ResendAPIKey string
	InviteFrom   string
	AppBaseURL   string

	// Gemini
	GeminiAPIKey         string
	GeminiModel          string
	GeminiEmbeddingModel string

	UploadDir string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:        get("PORT", "8080"),
		DatabaseURL: must("DATABASE_URL"),
		JWTSecret:   must("JWT_SECRET"),

		CheckoutSessionURL: get("CHECKOUT_SESSION_URL", "https://pay.orbita.app/v1/checkout/sessions"),
		CheckoutReturnURL:  get("CHECKOUT_RETURN_URL", "https://console.orbita.app/billing"),

		IBGEBaseURL: get("IBGE_BASE_URL", "https://servicodados.ibge.gov.br/api/v1/localidades"),

		ResendAPIKey: get("RESEND_API_KEY", ""),
		InviteFrom:   get("INVITE_FROM_EMAIL", "Orbita <invites@orbita.app>"),
		AppBaseURL:   get("APP_BASE_URL", "https://console.orbita.app"),

		GeminiAPIKey:         get("GEMINI_API_KEY", ""),
		GeminiModel:          get("GEMINI_MODEL", "gemini-2.5-pro"),
		GeminiEmbeddingModel: get("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),

		UploadDir: get("UPLOAD_DIR", "./uploads"),
	}
	return cfg
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env: %s", k)
	}
	return v
}
