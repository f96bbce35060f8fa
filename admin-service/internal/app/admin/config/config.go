package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит все настройки приложения Admin Service
// Redis, Kafka, MinIO и планировщик необязательны: пустой хост отключает компонент
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Minio   MinioConfig
	Refresh RefreshConfig
	Log     LogConfig
	Session SessionConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host           string   // Адрес хоста (по умолчанию 0.0.0.0)
	Port           string   // Порт сервера (по умолчанию 8090)
	AllowedOrigins []string // Разрешенные origin для CORS
}

// CatalogConfig - удаленный Catalog API
type CatalogConfig struct {
	BaseURL string        // Базовый URL, к нему добавляются /product и /category
	Timeout time.Duration // Таймаут одного запроса
	Token   string        // Bearer токен, передается как есть
}

// RedisConfig - кеш списка категорий
type RedisConfig struct {
	Host     string        // Хост Redis, пустой - кеш отключен
	Port     string        // Порт Redis
	Password string        // Пароль Redis (опционально)
	DB       int           // Номер БД Redis (0-15)
	TTL      time.Duration // Время жизни кеша категорий
}

// KafkaConfig - получатель уведомлений
type KafkaConfig struct {
	Brokers []string // Список брокеров, пустой - уведомления только в лог
	Topic   string
}

// MinioConfig - хранилище изображений товаров
type MinioConfig struct {
	Endpoint  string // host:port, пустой - загрузка изображений отключена
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
}

// RefreshConfig - периодическая перезагрузка списка
type RefreshConfig struct {
	Schedule string // cron выражение, пустое - отключено
}

// LogConfig - уровень логирования и Logstash
type LogConfig struct {
	Level        string
	LogstashAddr string
}

// SessionConfig - начальное состояние страницы
type SessionConfig struct {
	InitialLocation string // строка запроса при старте, например page=2&name=boot
}

// Load загружает конфигурацию из переменных окружения
// Возвращает ошибку, если не удалось распарсить значения
func Load() (*Config, error) {
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	catalogTimeout, err := getEnvDuration("CATALOG_API_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cacheTTL, err := getEnvDuration("CATEGORY_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	minioSecure, err := getEnvBool("MINIO_SECURE", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnv("SERVER_PORT", "8090"),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Catalog: CatalogConfig{
			BaseURL: getEnv("CATALOG_API_URL", "http://localhost:8081"),
			Timeout: catalogTimeout,
			Token:   getEnv("CATALOG_API_TOKEN", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTL:      cacheTTL,
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", "admin_notifications"),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "products"),
			Secure:    minioSecure,
		},
		Refresh: RefreshConfig{
			Schedule: getEnv("REFRESH_SCHEDULE", ""),
		},
		Log: LogConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			LogstashAddr: getEnv("LOGSTASH_ADDR", ""),
		},
		Session: SessionConfig{
			InitialLocation: getEnv("INITIAL_LOCATION", ""),
		},
	}

	if cfg.Catalog.BaseURL == "" {
		return nil, fmt.Errorf("CATALOG_API_URL is required")
	}
	return cfg, nil
}

// Address возвращает адрес сервера в формате host:port для HTTP сервера
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port для подключения
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

func (c *MinioConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c *RefreshConfig) Enabled() bool {
	return c.Schedule != ""
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// getEnvList разбирает список через запятую, пустые элементы отбрасываются
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
