package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	RateLimit    RateLimitConfig
	Notification NotificationConfig
	CORS         CORSConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	StaticDir             string
	// TrustedProxies lists the peers whose X-Forwarded-For is believed.
	TrustedProxies        []string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string
	AccessTokenTTLMinutes   int
	PasswordResetTTLMinutes int
	BcryptCost              int
}

// RateLimitConfig bounds login attempts and public signups.
type RateLimitConfig struct {
	LoginMaxAttempts    int
	LoginLockoutMinutes int
	SignupPerMinute     float64
	SignupBurst         int
}

// NotificationConfig selects and configures the mail transport.
type NotificationConfig struct {
	Provider        string
	AdminRecipients []string
	ResetURLBase    string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	SESSenderEmail     string

	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	signupRate, err := strconv.ParseFloat(getEnv("SIGNUP_RATE_PER_MINUTE", "10"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SIGNUP_RATE_PER_MINUTE: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "CPBC Volunteer App API"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			StaticDir:             os.Getenv("STATIC_DIR"),
			TrustedProxies:        getEnvAsList("TRUSTED_PROXIES", nil),
		},
		Postgres: PostgresConfig{
			DSN:            getEnv("POSTGRES_DSN", os.Getenv("DATABASE_URL")),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:               getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes:   getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 480),
			PasswordResetTTLMinutes: getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 60),
			BcryptCost:              getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		RateLimit: RateLimitConfig{
			LoginMaxAttempts:    getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
			LoginLockoutMinutes: getEnvAsInt("LOGIN_LOCKOUT_MINUTES", 15),
			SignupPerMinute:     signupRate,
			SignupBurst:         getEnvAsInt("SIGNUP_RATE_BURST", 5),
		},
		Notification: NotificationConfig{
			Provider:           strings.ToLower(getEnv("MAIL_PROVIDER", "auto")),
			AdminRecipients:    getEnvAsList("ADMIN_NOTIFICATION_EMAILS", nil),
			ResetURLBase:       getEnv("RESET_URL_BASE", "http://localhost:8080/admin"),
			AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
			AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SESSenderEmail:     getEnv("SES_SENDER_EMAIL", "noreply@crosspointbc.org"),
			SMTPHost:           os.Getenv("SMTP_HOST"),
			SMTPPort:           smtpPort,
			SMTPUsername:       os.Getenv("SMTP_USERNAME"),
			SMTPPassword:       os.Getenv("SMTP_PASSWORD"),
			SMTPFromEmail:      os.Getenv("SMTP_FROM_EMAIL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// LoginLockout returns the window in which failed logins are counted.
func (r RateLimitConfig) LoginLockout() time.Duration {
	if r.LoginLockoutMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(r.LoginLockoutMinutes) * time.Minute
}

// SESConfigured reports whether AWS credentials and a sender are present.
func (n NotificationConfig) SESConfigured() bool {
	return n.AWSAccessKeyID != "" && n.AWSSecretAccessKey != "" && n.SESSenderEmail != ""
}

// SMTPConfigured reports whether every SMTP setting is present.
func (n NotificationConfig) SMTPConfigured() bool {
	return n.SMTPHost != "" && n.SMTPUsername != "" && n.SMTPPassword != "" && n.SMTPFromEmail != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

// getEnvAsList splits a comma separated value, dropping blank entries.
func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
