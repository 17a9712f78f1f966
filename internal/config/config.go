package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const EnvProduction = "production"

var defaultCORSOrigins = []string{
	"https://convenzadmin.netlify.app",
	"http://localhost:5173",
	"http://localhost:5174",
	"http://localhost:5175",
	"http://localhost:5176",
	"http://localhost:3000",
}

type Config struct {
	Env               string
	MongoURI          string
	MongoDB           string
	ServerAddr        string
	CORSOrigins       []string
	RedisURL          string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	CacheTTLSeconds   int
	JWTSecret         string
	TokenTTLHours     int
	APIKey            string
	SeedAdminName     string
	SeedAdminEmail    string
	SeedAdminPassword string
	LogLevel          string
	RequestTimeoutSec int
	Timezone          *time.Location
}

// IsProduction reports whether internal error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func Load() (*Config, error) {
	// Real environment wins over .env; a missing file is fine.
	_ = godotenv.Load()

	loc, err := time.LoadLocation(getEnv("TZ", "UTC"))
	if err != nil {
		return nil, err
	}

	mongoURI := getEnv("MONGO_URI", "mongodb://127.0.0.1:27017/Convenz")
	mongoDB := getEnv("MONGO_DB", "")
	if mongoDB == "" {
		mongoDB = mongoDBFromURI(mongoURI)
	}
	if mongoDB == "" {
		mongoDB = "Convenz"
	}

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		MongoURI:          mongoURI,
		MongoDB:           mongoDB,
		ServerAddr:        getEnv("SERVER_ADDR", ":3001"),
		CORSOrigins:       getEnvList("CORS_ORIGINS", defaultCORSOrigins),
		RedisURL:          getEnv("REDIS_URL", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds:   getEnvInt("CACHE_TTL_SECONDS", 60),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		TokenTTLHours:     getEnvInt("JWT_TTL_HOURS", 24),
		APIKey:            getEnv("API_KEY", ""),
		SeedAdminName:     getEnv("SEED_ADMIN_NAME", "Super Admin"),
		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@gmail.com"),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin123"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		RequestTimeoutSec: getEnvInt("REQUEST_TIMEOUT_SEC", 30),
		Timezone:          loc,
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.TokenTTLHours <= 0 {
		return nil, errors.New("JWT_TTL_HOURS must be positive")
	}

	return cfg, nil
}

func mongoDBFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	db := strings.Trim(u.Path, "/")
	if db == "" {
		return ""
	}
	// only the first path segment names the database
	if idx := strings.Index(db, "/"); idx >= 0 {
		db = db[:idx]
	}
	return db
}
