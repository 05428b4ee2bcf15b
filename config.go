package main

import (
	"fmt"
	"os"
)

// Config holds every environment variable the server reads.
type Config struct {
	Port           string
	Env            string
	MongoURL       string
	MongoDB        string
	JWTSecret      string
	RedisURL       string
	CloudinaryURL  string
	WhatsappNumber string
	FrontendURL    string
	SmtpServer     string
	SmtpPort       string
	SenderEmail    string
	SenderPass     string
	SenderName     string
}

// LoadConfig reads the environment into a Config and validates the required
// fields. Redis is optional; the product list cache is skipped without it.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		MongoURL:       getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "lizzy-moda"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RedisURL:       os.Getenv("REDIS_URL"),
		CloudinaryURL:  os.Getenv("CLOUDINARY_URL"),
		WhatsappNumber: getEnv("WHATSAPP_NUMBER", "5500000000000"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		SmtpServer:     os.Getenv("SMTP_SERVER"),
		SmtpPort:       os.Getenv("SMTP_PORT"),
		SenderEmail:    os.Getenv("SENDER_EMAIL"),
		SenderPass:     os.Getenv("SENDER_PASS"),
		SenderName:     os.Getenv("SENDER_NAME"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
