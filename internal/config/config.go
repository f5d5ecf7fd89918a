package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	MigrationsDir   string
	JWTSecret       string
	GoogleAudience  string
	AllowOrigins    []string
	LogstashTCPAddr string
	SessionTTL      time.Duration

	// ElasticsearchURL enables the visitor report over the request logs
	// Logstash ships. Empty disables it.
	ElasticsearchURL      string
	ElasticsearchUsername string
	ElasticsearchPassword string
	VisitorLogIndex       string

	MinIOEndpoint      string
	MinIOAccessKey     string
	MinIOSecretKey     string
	MinIOUseSSL        bool
	MinIOBucketListing string
	MinIOBucketArticle string
	MinIOPublicURL     string

	ImageMaxBytes     int64
	ImageMaxDimension int
	MaxImagesPerItem  int

	// AdminEmail and AdminPassword seed the first back-office account on
	// startup. Both empty disables seeding.
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	return Config{
		Port:                  getenv("PORT", "8080"),
		DatabaseURL:           must("DATABASE_URL"),
		MigrationsDir:         getenv("MIGRATIONS_DIR", "migrations"),
		JWTSecret:             must("JWT_SECRET"),
		GoogleAudience:        getenv("GOOGLE_AUDIENCE", ""),
		AllowOrigins:          splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogstashTCPAddr:       getenv("LOGSTASH_TCP_ADDR", ""),
		ElasticsearchURL:      getenv("ELASTICSEARCH_URL", ""),
		ElasticsearchUsername: getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPassword: getenv("ELASTICSEARCH_PASSWORD", ""),
		VisitorLogIndex:       getenv("VISITOR_LOG_INDEX", "desa-wisata-logs-*"),
		SessionTTL:            getDuration("SESSION_TTL", 24*time.Hour),
		MinIOEndpoint:         must("MINIO_ENDPOINT"),
		MinIOAccessKey:        must("MINIO_ACCESS_KEY"),
		MinIOSecretKey:        must("MINIO_SECRET_KEY"),
		MinIOUseSSL:           getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketListing:    getenv("MINIO_BUCKET_LISTINGS", "desa-listings"),
		MinIOBucketArticle:    getenv("MINIO_BUCKET_ARTICLES", "desa-articles"),
		MinIOPublicURL:        getenv("MINIO_PUBLIC_URL", ""),
		ImageMaxBytes:         getInt64("IMAGE_MAX_BYTES", 5*1024*1024),
		ImageMaxDimension:     int(getInt64("IMAGE_MAX_DIMENSION", 3840)),
		MaxImagesPerItem:      int(getInt64("MAX_IMAGES_PER_ITEM", 5)),
		AdminEmail:            getenv("ADMIN_EMAIL", ""),
		AdminPassword:         getenv("ADMIN_PASSWORD", ""),
		AdminName:             getenv("ADMIN_NAME", "Admin Desa"),
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getInt64(k string, d int64) int64 {
	if v, err := strconv.ParseInt(getenv(k, ""), 10, 64); err == nil && v > 0 {
		return v
	}
	return d
}

func getDuration(k string, d time.Duration) time.Duration {
	if v, err := time.ParseDuration(getenv(k, "")); err == nil && v > 0 {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
