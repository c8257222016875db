package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type (
	// Config - структура конфига сервера
	Config struct {
		HTTP      HTTPConfig      // настройки HTTP сервера
		Database  DatabaseConfig  // настройки БД
		JWT       JWTConfig       // настройки токенов
		RateLimit RateLimitConfig // настройки rate limiting
		CORS      CORSConfig      // настройки CORS
		Log       LogConfig       // настройки логгирования
	}

	// HTTPConfig - структура конфига HTTP сервера
	HTTPConfig struct {
		Addr         string        `env:"HTTP_ADDR" env-default:":8080"`
		ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
		IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	}

	// DatabaseConfig - структура конфига БД
	DatabaseConfig struct {
		Path string `env:"DB_PATH" env-default:"gomarket.db"` // путь к файлу SQLite, ":memory:" для тестов
	}

	// JWTConfig - структура конфига токенов
	JWTConfig struct {
		Secret   string        `env:"JWT_SECRET"` // обязательный, процесс не стартует без него
		TokenTTL time.Duration `env:"JWT_TOKEN_TTL" env-default:"24h"`
	}

	// RateLimitConfig - структура конфига rate limiting
	// AuthRate применяется к /api/auth/login и /api/auth/register
	RateLimitConfig struct {
		Rate     int           `env:"RATE_LIMIT" env-default:"100"`
		AuthRate int           `env:"RATE_LIMIT_AUTH" env-default:"10"`
		Window   time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"1m"`
	}

	// CORSConfig - структура конфига CORS
	CORSConfig struct {
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	}

	// LogConfig - структура конфига логгирования
	LogConfig struct {
		Level  string `env:"LOG_LEVEL" env-default:"info"`
		Format string `env:"LOG_FORMAT" env-default:"text"` // text или json
	}
)

// Load читает конфигурацию из переменных окружения
func Load() (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from env: %w", err)
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &cfg, nil
}
