package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Mail     MailConfig
	Queue    QueueConfig
}

type ServerConfig struct {
	Env             string
	Port            string
	GinMode         string
	LogLevel        string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type CacheConfig struct {
	EventTTL time.Duration
}

// StorageConfig S3 相容的圖片儲存設定
type StorageConfig struct {
	Bucket          string
	Region          string
	Endpoint        string // 非 AWS 的 S3 相容服務（MinIO 等）才需要
	AccessKeyID     string
	SecretAccessKey string
	Folder          string
	PublicBaseURL   string
}

// MailConfig 報名確認信設定；Provider 為 "ses" 或 "noop"
type MailConfig struct {
	Provider        string
	FromAddress     string
	FromName        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// QueueConfig 報名通知隊列設定；Driver 為 "memory" 或 "redis"
type QueueConfig struct {
	Driver        string
	BufferSize    int
	ConsumerID    string
	MaxRetryCount int           // 單筆通知的投遞次數上限
	RetryBackoff  time.Duration // 記憶體隊列第一次重試的延遲
}

var AppConfig *Config

func LoadConfig() *Config {
	env := getEnv("APP_ENV", "development")
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded, using process environment: %v", err)
		}
	}

	AppConfig = &Config{
		Server:   GetServerConfig(env),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Cache:    GetCacheConfig(),
		Storage:  GetStorageConfig(),
		Mail:     GetMailConfig(),
		Queue:    GetQueueConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server: ServerConfig{
			Env:             "test",
			Port:            "8080",
			GinMode:         "test",
			LogLevel:        "debug",
			ShutdownTimeout: time.Second,
		},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Cache:    CacheConfig{EventTTL: time.Minute},
		Storage: StorageConfig{
			Bucket: "test-bucket",
			Region: "us-east-1",
			Folder: "DevEvent",
		},
		Mail:  MailConfig{Provider: "noop", FromAddress: "events@example.com"},
		Queue: QueueConfig{Driver: "memory", BufferSize: 10, MaxRetryCount: 3, RetryBackoff: 10 * time.Millisecond},
	}
}

func GetServerConfig(env string) ServerConfig {
	return ServerConfig{
		Env:             env,
		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "release"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getInt("REDIS_DB", 0),
	}
}

func GetCacheConfig() CacheConfig {
	// 60 秒與活動頁面的重新驗證週期一致
	return CacheConfig{
		EventTTL: getDuration("EVENT_CACHE_TTL", 60*time.Second),
	}
}

func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Bucket:          getEnv("S3_BUCKET", "dev-events"),
		Region:          getEnv("S3_REGION", "us-east-1"),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		Folder:          getEnv("S3_FOLDER", "DevEvent"),
		PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
	}
}

func GetMailConfig() MailConfig {
	return MailConfig{
		Provider:        getEnv("MAIL_PROVIDER", "noop"),
		FromAddress:     getEnv("MAIL_FROM_ADDRESS", "events@example.com"),
		FromName:        getEnv("MAIL_FROM_NAME", "DevEvent"),
		Region:          getEnv("SES_REGION", "us-east-1"),
		AccessKeyID:     getEnv("SES_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("SES_SECRET_ACCESS_KEY", ""),
	}
}

func GetQueueConfig() QueueConfig {
	return QueueConfig{
		Driver:        getEnv("QUEUE_DRIVER", "memory"),
		BufferSize:    getInt("QUEUE_BUFFER_SIZE", 100),
		ConsumerID:    getEnv("QUEUE_CONSUMER_ID", ""),
		MaxRetryCount: getInt("QUEUE_MAX_RETRY_COUNT", 5),
		RetryBackoff:  getDuration("QUEUE_RETRY_BACKOFF", time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		panic(err)
	}
	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		panic(err)
	}
	return value
}
