package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	DBName string
	JWTKey string

	EmailSender string
	Password    string // SMTP Password

	PortalWebhookURL string // Optional callback endpoint notified on certificate verification
	DigestRecipient  string // Where the daily pending-work digest is sent

	ProgressStep int // Default progress increment when the client does not send one
	SaltRound    int // bcrypt cost
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	// Initialize AppConfig with values from environment variables
	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		DBName: getEnv("DB_NAME", "lms"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		EmailSender: getEnv("EMAIL_SENDER", "defaultSecret"),
		Password:    getEnv("PASSWORD", "defaultSecret"),

		PortalWebhookURL: getEnv("PORTAL_WEBHOOK_URL", ""),
		DigestRecipient:  getEnv("DIGEST_RECIPIENT", ""),

		ProgressStep: getEnvInt("PROGRESS_STEP", 10),
		SaltRound:    getEnvInt("SALT_ROUND", 10),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
