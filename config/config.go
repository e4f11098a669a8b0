package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the server configuration. Values come from an optional YAML
// file (SURVEASE_CONFIG) with environment variables taking precedence.
type Config struct {
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
	RedisAddr     string `yaml:"redis_addr"`
	HTTPPort      string `yaml:"http_port"`
	JWTSecret     string `yaml:"jwt_secret"`
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
}

// Load builds the configuration from defaults, file and environment.
func Load() (*Config, error) {
	cfg := &Config{
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "survease",
		RedisAddr:     "localhost:6379",
		HTTPPort:      "4000",
		JWTSecret:     "super-secret-key-change-in-production",
		AdminUsername: "admin",
		AdminPassword: "password123",
	}

	if path := os.Getenv("SURVEASE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	overrideEnv(&cfg.MongoURI, "MONGO_URI")
	overrideEnv(&cfg.MongoDatabase, "MONGO_DATABASE")
	overrideEnv(&cfg.RedisAddr, "REDIS_ADDR")
	overrideEnv(&cfg.HTTPPort, "HTTP_PORT")
	overrideEnv(&cfg.JWTSecret, "JWT_SECRET")
	overrideEnv(&cfg.AdminUsername, "ADMIN_USERNAME")
	overrideEnv(&cfg.AdminPassword, "ADMIN_PASSWORD")

	return cfg, nil
}

func overrideEnv(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}
