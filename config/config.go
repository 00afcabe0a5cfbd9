package config

import (
	"os"
	"strconv"
	"strings"
)

// AppConfig собирает все настройки сервиса из переменных окружения.
type AppConfig struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisHost string
	RedisPort string

	// Секрет для проверки bearer-токенов identity-провайдера.
	AuthTokenSecret string

	// Сколько дней вперёд сеять шаблонное расписание.
	SeedHorizonDays int

	CORSOrigins []string

	// Опциональный OpenAI-совместимый провайдер для мотивационных цитат.
	QuoteAIBaseURL string
	QuoteAIKey     string
	QuoteAIModel   string
}

// Load читает конфигурацию с безопасными значениями по умолчанию.
func Load() AppConfig {
	horizon, err := strconv.Atoi(getEnv("SEED_HORIZON_DAYS", "1"))
	if err != nil || horizon < 1 {
		horizon = 1
	}

	origins := strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return AppConfig{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "1234"),
		DBName:     getEnv("DB_NAME", "zensnoopy_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),

		AuthTokenSecret: getEnv("AUTH_TOKEN_SECRET", "supersecretkey"),

		SeedHorizonDays: horizon,

		CORSOrigins: origins,

		QuoteAIBaseURL: getEnv("QUOTE_AI_BASE_URL", "https://api.openai.com/v1"),
		QuoteAIKey:     os.Getenv("QUOTE_AI_KEY"),
		QuoteAIModel:   getEnv("QUOTE_AI_MODEL", "gpt-4o-mini"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
