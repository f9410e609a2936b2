package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all process-level settings, read once at startup.
type Config struct {
	Port        string
	CORSOrigins []string

	MySQLDSN string

	KafkaBrokers []string

	RedisAddr string
	RedisPass string
	RedisDB   int

	PerplexityAPIKey string
	OpenAIAPIKey     string
	CohereAPIKey     string

	S3Bucket       string
	S3Region       string
	S3Prefix       string
	S3UsePathStyle bool

	SessionsDir string

	// ResearchTimeout bounds one research provider call.
	ResearchTimeout time.Duration
	// SchedulerInterval is how often due scheduled publications are checked.
	SchedulerInterval time.Duration
}

// Load reads configuration from the environment with defaults.
// Call godotenv.Load() before this in main.
func Load() Config {
	cfg := Config{
		Port:              GetEnvOrDefault("PORT", "8080"),
		MySQLDSN:          GetEnvOrDefault("MYSQL_DSN", "root:root@tcp(localhost:3306)/content_pipeline?charset=utf8mb4&parseTime=true&loc=Local"),
		RedisAddr:         GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPass:         os.Getenv("REDIS_PASS"),
		PerplexityAPIKey:  os.Getenv("PERPLEXITY_API_KEY"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		CohereAPIKey:      os.Getenv("COHERE_API_KEY"),
		S3Bucket:          strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:          strings.TrimSpace(os.Getenv("S3_REGION")),
		SessionsDir:       GetEnvOrDefault("SESSIONS_DIR", "sessions"),
		ResearchTimeout:   5 * time.Minute,
		SchedulerInterval: time.Minute,
	}

	cfg.KafkaBrokers = splitList(GetEnvOrDefault("KAFKA_BROKERS", "localhost:9092"))
	cfg.CORSOrigins = splitList(GetEnvOrDefault("CORS_ORIGIN", "http://localhost:3000,http://localhost:5173"))

	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = db
		}
	}

	prefix := strings.TrimSpace(os.Getenv("S3_PREFIX"))
	if prefix != "" {
		prefix = strings.Trim(prefix, "/") + "/"
	}
	cfg.S3Prefix = prefix
	cfg.S3UsePathStyle = strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true")

	return cfg
}

// GetEnvOrDefault returns the env value or a fallback when unset.
func GetEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
