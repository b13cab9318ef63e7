package config

import (
	"os"
	"strconv"
	"strings"
)

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// Enabled reports whether enough is configured to talk to object storage.
func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

type Config struct {
	Port           string
	Domain         string
	DatabaseURL    string
	MigrationsPath string
	AllowedOrigin  string
	APIToken       string
	BuildAssets    bool
	S3             S3Config
}

func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Domain:         strings.TrimSuffix(getEnv("DOMAIN", "http://localhost:8080"), "/"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),
		AllowedOrigin:  getEnv("ALLOWED_ORIGIN", "*"),
		APIToken:       os.Getenv("API_TOKEN"),
		BuildAssets:    getBool("BUILD_ASSETS", true),
		S3: S3Config{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    getEnv("S3_BUCKET", "covers"),
			UseSSL:    getBool("S3_USE_SSL", true),
			PublicURL: strings.TrimSuffix(os.Getenv("S3_PUBLIC_URL"), "/"),
		},
	}

	cfg.S3.Endpoint = strings.TrimPrefix(cfg.S3.Endpoint, "https://")
	cfg.S3.Endpoint = strings.TrimPrefix(cfg.S3.Endpoint, "http://")

	return cfg
}

func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
