package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	JwtSecret  string
	Issuer     string
	DbHost     string
	DbPort     string
	DbUser     string
	DbPassword string
	DbName     string
	ServerPort string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	// TimerTick is the poll interval of the deadline timer loop.
	TimerTick time.Duration
	// TimerGrace is how long after its fire time an overdue deadline timer
	// is still honored (e.g. across a process restart). Timers older than
	// this are dropped without firing.
	TimerGrace time.Duration

	StagePresetsPath string

	AuditRetentionDays int

	// ReservedAdminUsername names the bootstrap administrator account.
	ReservedAdminUsername = "admin"
)

func LoadConfig() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	JwtSecret = getEnv("JWT_SECRET", "defaultsecret")
	Issuer = getEnv("ISSUER", "atelier")
	DbHost = getEnv("DB_HOST", "localhost")
	DbPort = getEnv("DB_PORT", "5432")
	DbUser = getEnv("DB_USER", "postgres")
	DbPassword = getEnv("DB_PASSWORD", "password")
	DbName = getEnv("DB_NAME", "atelier")
	ServerPort = getEnv("SERVER_PORT", "8080")

	MinioEndpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	MinioAccessKey = getEnv("MINIO_ACCESS_KEY", "minioadmin")
	MinioSecretKey = getEnv("MINIO_SECRET_KEY", "minioadmin")
	MinioBucket = getEnv("MINIO_BUCKET", "atelier-files")
	MinioUseSSL, _ = strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))

	TimerTick = getEnvDuration("TIMER_TICK", 5*time.Second)
	TimerGrace = getEnvDuration("TIMER_GRACE", 7*24*time.Hour)

	StagePresetsPath = getEnv("STAGE_PRESETS_PATH", "configs/stage_presets.yaml")

	AuditRetentionDays = getEnvInt("AUDIT_RETENTION_DAYS", 30)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
