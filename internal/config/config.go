package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/Cecile-Hirschauer/adaboards-api/internal/pkg"
)

type Config struct {
	Addr          string
	MySQLDSN      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	AccessSecret  string
	RefreshSecret string
	KafkaBrokers  []string
	KafkaTopic    string
	SMTP          pkg.SMTPConfig
}

// Load 从环境变量读取配置，缺省值适用于本地开发
func Load() Config {
	cfg := Config{
		Addr:          getenv("ADDR", ":8080"),
		MySQLDSN:      getenv("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/adaboards?charset=utf8mb4&parseTime=True"),
		RedisAddr:     getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		AccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		RefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		KafkaTopic:    getenv("KAFKA_TOPIC", "membership-events"),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}
	cfg.SMTP = pkg.SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     587,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     getenv("SMTP_FROM", "NoReply <no-reply@adaboards.dev>"),
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SMTP.Port = n
		}
	}
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
