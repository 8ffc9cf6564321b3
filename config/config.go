package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	AppEnv  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret     string
	JWTAccessTTL  time.Duration
	JWTRefreshTTL time.Duration

	// เข้มงวดตอน answer: ต้องเป็น ACCEPTED/IN_PROGRESS ก่อนเท่านั้น
	// (พฤติกรรมเดิมยอมให้ตอบจาก REQUESTED ได้เลย — เปิด flag นี้เพื่อปิดช่องนั้น)
	QAStrictAnswer bool
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func Load() *Config {
	// .env มีก็โหลด ไม่มีก็ข้าม (บน prod ใช้ env จริง)
	_ = godotenv.Load()

	return &Config{
		AppPort: get("APP_PORT", "3001"),
		AppEnv:  get("APP_ENV", "dev"),

		DBHost:     get("DB_HOST", "localhost"),
		DBPort:     get("DB_PORT", "5432"),
		DBUser:     get("DB_USER", "postgres"),
		DBPassword: get("DB_PASSWORD", "postgres"),
		DBName:     get("DB_NAME", "studyroom"),
		DBSSLMode:  get("DB_SSLMODE", "disable"),

		JWTSecret:     get("JWT_SECRET", "dev-secret"),
		JWTAccessTTL:  getDuration("JWT_ACCESS_TTL", 7*24*time.Hour),
		JWTRefreshTTL: getDuration("JWT_REFRESH_TTL", 30*24*time.Hour),

		QAStrictAnswer: getBool("QA_STRICT_ANSWER", false),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}
