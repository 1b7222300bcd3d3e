package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port                    string
	Env                     string
	LogLevel                string
	DBDriver                string
	PostgresURL             string
	SQLitePath              string
	AutoMigrate             bool
	MongoURI                string
	MongoDatabase           string
	FirebaseCredentialsPath string
	JWTSecret               string
	JWTTTL                  time.Duration
	MetricsPort             string
	MediaBackend            string
	MediaRoot               string
	MediaBaseURL            string
	S3Endpoint              string
	S3AccessKey             string
	S3SecretKey             string
	S3Bucket                string
	S3UseSSL                bool
	OTLPEndpoint            string
	ServiceName             string
}

// Load reads the environment, after merging a .env file when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, assuming environment variables are set.")
	}
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "INFO"),
		DBDriver:                getEnv("DB_DRIVER", "postgres"),
		PostgresURL:             getEnv("POSTGRES_CONN_STR", "host=localhost port=5432 user=postgres password=postgres dbname=yatube sslmode=disable"),
		SQLitePath:              getEnv("SQLITE_PATH", "yatube.db"),
		AutoMigrate:             getBool("AUTO_MIGRATE", true),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DB", "yatube"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		JWTTTL:                  getDuration("JWT_TTL", 24*time.Hour),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
		MediaBackend:            getEnv("MEDIA_BACKEND", "file"),
		MediaRoot:               getEnv("MEDIA_ROOT", "media"),
		MediaBaseURL:            getEnv("MEDIA_BASE_URL", "http://localhost:8080/media"),
		S3Endpoint:              getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKey:             getEnv("S3_ACCESS_KEY", "minio"),
		S3SecretKey:             getEnv("S3_SECRET_KEY", "minio123"),
		S3Bucket:                getEnv("S3_BUCKET", "yatube-media"),
		S3UseSSL:                getBool("S3_USE_SSL", false),
		OTLPEndpoint:            getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:             getEnv("OTEL_SERVICE_NAME", "yatube-api"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
