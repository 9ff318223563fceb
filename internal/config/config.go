package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string

	// AuditPgDSN, when set, mirrors audit log entries to a Postgres table
	// in addition to the primary Mongo sink.
	AuditPgDSN string

	// Scheduler settings. The batch pass is normally triggered externally
	// (POST /api/scheduler/run or the cmd/runner binary); the in-process
	// cron trigger is opt-in.
	SchedulerEnabled  bool
	SchedulerCron     string
	SchedulerParallel bool

	// Per-prompt fan-out controls.
	UserConcurrency int
	UserTimeout     time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		JWTSecret:         getEnv("JWT_SECRET", "secret"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:            getEnv("DB_NAME", "go-assistant"),
		SkipAuth:          getEnv("SKIP_AUTH", "false") == "true",
		Environment:       getEnv("ENVIRONMENT", "development"),
		AppId:             getEnv("APP_ID", "go-assistant"),
		AuditPgDSN:        getEnv("AUDIT_PG_DSN", ""),
		SchedulerEnabled:  getEnv("SCHEDULER_ENABLED", "false") == "true",
		SchedulerCron:     getEnv("SCHEDULER_CRON", "@every 1m"),
		SchedulerParallel: getEnv("SCHEDULER_PARALLEL", "false") == "true",
		UserConcurrency:   getEnvInt("EXEC_USER_CONCURRENCY", 5),
		UserTimeout:       time.Duration(getEnvInt("EXEC_USER_TIMEOUT_SECONDS", 300)) * time.Second,
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
