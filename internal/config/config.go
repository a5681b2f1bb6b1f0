package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config memusatkan konfigurasi yang dibaca dari environment.
type Config struct {
	Port          int
	DBDSN         string
	RedisURL      string
	JWTSecret     string
	JWTAccessTTL  time.Duration
	JWTRefreshTTL time.Duration
	AllowOrigins  []string

	// BaseURL dipakai untuk menyusun URL publik foto/tandatangan saat render PDF.
	BaseURL string

	// UploadDir menampung berkas unggahan (foto_kegiatan, tandatangan, fotoberita, profil).
	UploadDir string
	// PublicDir menampung aset statis (logo) dan PDF transien hasil generate.
	PublicDir string
	// PDFDeleteDelay menentukan berapa lama PDF transien bertahan setelah dikirim.
	PDFDeleteDelay time.Duration

	RateLimitPublic RateLimitConfig
	RateLimitAuth   RateLimitConfig
}

// RateLimitConfig merepresentasikan batas sederhana untuk throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load membaca variabel environment dan menerapkan default yang aman.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "5000")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT tidak valid")
	}
	cfg.Port = port

	cfg.DBDSN = getEnv("DB_DSN", "")
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN wajib diisi")
	}

	cfg.RedisURL = getEnv("REDIS_URL", "")
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL wajib diisi")
	}

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", ""))
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET minimal 32 karakter")
	}

	accessTTL, err := parseDurationEnv("JWT_ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.JWTAccessTTL = accessTTL

	refreshTTL, err := parseDurationEnv("JWT_REFRESH_TTL", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.JWTRefreshTTL = refreshTTL

	allowOrigins := strings.Split(getEnv("ALLOW_ORIGINS", ""), ",")
	cfg.AllowOrigins = nil
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	cfg.BaseURL = strings.TrimRight(getEnv("BASE_URL", fmt.Sprintf("http://localhost:%d", cfg.Port)), "/")
	cfg.UploadDir = getEnv("UPLOAD_DIR", "uploads")
	cfg.PublicDir = getEnv("PUBLIC_DIR", "public")

	deleteDelay, err := parseDurationEnv("PDF_DELETE_DELAY", 5*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.PDFDeleteDelay = deleteDelay

	cfg.RateLimitPublic = RateLimitConfig{RequestsPerSecond: 10, Burst: 20}
	cfg.RateLimitAuth = RateLimitConfig{RequestsPerSecond: 10, Burst: 40}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " tidak valid")
	}
	return dur, nil
}
