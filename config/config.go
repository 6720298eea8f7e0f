package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	MailProviderSMTP     = "smtp"
	MailProviderSendGrid = "sendgrid"
)

type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	AllowedOrigins []string
	// Mail transport
	MailProvider     string
	SMTPHost         string
	SMTPPort         string
	EmailUser        string
	EmailPassword    string
	EmailFrom        string // Sender identity, defaults to the SMTP login
	EmailFromName    string
	ContactEmailTo   string // Owner address receiving notification mails
	ContactSignature string
	SendGridAPIKey   string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate limiting on the contact endpoint, 0 disables it
	ContactRateLimit       int
	RateLimitWindowSeconds int
	// HTTP server
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	// .env only exists locally; production injects the environment directly
	_ = godotenv.Load()

	emailUser := getEnv("EMAIL_USER", "")

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		// Mail
		MailProvider:     strings.ToLower(getEnv("MAIL_PROVIDER", MailProviderSMTP)),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnv("SMTP_PORT", "587"),
		EmailUser:        emailUser,
		EmailPassword:    getEnv("EMAIL_PASSWORD", ""),
		EmailFrom:        getEnv("EMAIL_FROM", emailUser),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", ""),
		ContactEmailTo:   getEnv("CONTACT_EMAIL_TO", ""),
		ContactSignature: getEnv("CONTACT_SIGNATURE", "Portfolio"),
		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
		// Redis/Upstash
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate limiting
		ContactRateLimit:       getEnvInt("CONTACT_RATE_LIMIT", 0),
		RateLimitWindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		// HTTP server
		ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:     getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
	}

	return cfg, nil
}

// Validate returns the names of missing mail settings. Missing settings are
// not fatal; the server still starts so health checks can report them.
func (c *Config) Validate() []string {
	var missing []string

	switch c.MailProvider {
	case MailProviderSendGrid:
		if c.SendGridAPIKey == "" {
			missing = append(missing, "SENDGRID_API_KEY")
		}
	default:
		if c.SMTPHost == "" {
			missing = append(missing, "SMTP_HOST")
		}
		if c.EmailUser == "" {
			missing = append(missing, "EMAIL_USER")
		}
		if c.EmailPassword == "" {
			missing = append(missing, "EMAIL_PASSWORD")
		}
	}
	if c.EmailFrom == "" {
		missing = append(missing, "EMAIL_FROM")
	}
	if c.ContactEmailTo == "" {
		missing = append(missing, "CONTACT_EMAIL_TO")
	}

	return missing
}

// RateLimitWindow returns the configured window as a duration
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

// getEnv treats an empty variable like an unset one, so blank lines in .env
// keep the defaults
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvDuration parses values such as "10s" or "1m", falling back if not set/invalid
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty items and trailing slashes
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimRight(strings.TrimSpace(item), "/")
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
