package config

import (
	"flag"
	"os"
	"strconv"
)

type Config struct {
	RunAddress     string
	UploadDir      string
	OrdersFile     string
	StaticDir      string
	AdminLogin     string
	AdminPassword  string
	JWTSecret      string
	MaxUploadBytes int64
}

func New() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "server address and port")
	flag.StringVar(&cfg.UploadDir, "u", "uploads", "directory for uploaded files")
	flag.StringVar(&cfg.OrdersFile, "o", "db.json", "path to the orders document")
	flag.StringVar(&cfg.StaticDir, "static", "static", "directory with the web frontend")
	flag.StringVar(&cfg.AdminLogin, "admin", "admin", "admin login")
	flag.StringVar(&cfg.AdminPassword, "password", "", "admin password")
	flag.StringVar(&cfg.JWTSecret, "s", "super-secret-jwt-key", "jwt signing key")
	flag.Int64Var(&cfg.MaxUploadBytes, "max-upload", 50<<20, "upload request size limit in bytes")
	flag.Parse()

	cfg.RunAddress = getEnv("RUN_ADDRESS", cfg.RunAddress)
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.OrdersFile = getEnv("ORDERS_FILE", cfg.OrdersFile)
	cfg.StaticDir = getEnv("STATIC_DIR", cfg.StaticDir)
	cfg.AdminLogin = getEnv("ADMIN_LOGIN", cfg.AdminLogin)
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.MaxUploadBytes = getEnvInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
