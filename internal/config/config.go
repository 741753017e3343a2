package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr            string
	MySQLDSN            string
	RedisAddr           string
	ManufacturerBaseURL string
	ManufacturerTimeout time.Duration
	DistributorID       int64
	WorkerCount         int
	QueueSize           int
}

func Load() *Config {
	return &Config{
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		MySQLDSN:            getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/distribution?parseTime=true"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		ManufacturerBaseURL: getEnv("MANUFACTURER_API_URL", "http://localhost:6002"),
		ManufacturerTimeout: getDuration("MANUFACTURER_TIMEOUT", 5*time.Second),
		DistributorID:       getInt64("DISTRIBUTOR_ID", 1),
		WorkerCount:         getInt("WORKER_COUNT", 4),
		QueueSize:           getInt("QUEUE_SIZE", 1024),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
