package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	PublicURL  string
}

type S3 struct {
	BaseEndpoint string
	Region       string
	AccessKey    string
	SecretKey    string
	Bucket       string
	PublicURL    string
}

type Tokens struct {
	AccessTokenSecret    string
	RefreshTokenSecret   string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

type Config struct {
	ServerPort    int
	DB            DB
	MinIO         MinIO
	S3            S3
	Tokens        Tokens
	MediaBackend  string
	CookieSecure  bool
	CORSOrigins   []string
	MaxUploadSize int64
	UploadTempDir string
	StoreTimeout  time.Duration
	MediaTimeout  time.Duration
	LogLevel      string
	LogFormat     string
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

func getEnvList(key string, fallback string) []string {
	var list []string
	for _, item := range strings.Split(getEnv(key, fallback), ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "accounts"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "avatars"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
		PublicURL:  getEnv("MINIO_PUBLIC_URL", "http://localhost:9000"),
	}
}

func LoadS3() S3 {
	return S3{
		BaseEndpoint: getEnv("S3_BASE_ENDPOINT", ""),
		Region:       getEnv("S3_REGION", "us-east-1"),
		AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		SecretKey:    getEnv("S3_SECRET_KEY", ""),
		Bucket:       getEnv("S3_BUCKET", "avatars"),
		PublicURL:    getEnv("S3_PUBLIC_URL", ""),
	}
}

func LoadTokens() Tokens {
	return Tokens{
		AccessTokenSecret:    getEnv("ACCESS_TOKEN_SECRET", ""),
		RefreshTokenSecret:   getEnv("REFRESH_TOKEN_SECRET", ""),
		AccessTokenDuration:  getEnvDuration("ACCESS_TOKEN_EXPIRY", 24*time.Hour),
		RefreshTokenDuration: getEnvDuration("REFRESH_TOKEN_EXPIRY", 240*time.Hour),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return &Config{
		ServerPort:    getEnvAsInt("SERVER_PORT", 8000),
		DB:            LoadDB(),
		MinIO:         LoadMinIO(),
		S3:            LoadS3(),
		Tokens:        LoadTokens(),
		MediaBackend:  strings.ToLower(getEnv("MEDIA_BACKEND", "minio")),
		CookieSecure:  getEnvBool("COOKIE_SECURE", true),
		CORSOrigins:   getEnvList("CORS_ORIGIN", "http://localhost:3000"),
		MaxUploadSize: parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "10485760")),
		UploadTempDir: getEnv("UPLOAD_TEMP_DIR", "./public/temp"),
		StoreTimeout:  getEnvDuration("STORE_TIMEOUT", 5*time.Second),
		MediaTimeout:  getEnvDuration("MEDIA_TIMEOUT", 30*time.Second),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
	}
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size <= 0 {
		return 10 * 1024 * 1024
	}
	return size
}
