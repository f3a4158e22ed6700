package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration. Values come from an
// optional config.yaml, overridden by environment variables (a .env
// file is loaded first if present).
type Config struct {
	Port           string `yaml:"port"`
	JWTSecret      string `yaml:"jwtSecret"`
	DataDir        string `yaml:"dataDir"`
	TimeZone       string `yaml:"timeZone"`
	TimeAPIBaseURL string `yaml:"timeApiBaseUrl"`
	CORSOrigin     string `yaml:"corsOrigin"`
	LogLevel       string `yaml:"logLevel"`
	LogDev         bool   `yaml:"logDev"`
}

func defaults() Config {
	return Config{
		Port:           "3000",
		DataDir:        "data",
		TimeZone:       "Europe/Berlin",
		TimeAPIBaseURL: "https://timeapi.io",
		CORSOrigin:     "http://localhost:5173",
		LogLevel:       "info",
	}
}

// Load reads configuration from yamlPath (skipped when the file does
// not exist) and the environment. ACCESS_TOKEN_SECRET is required.
func Load(yamlPath string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if data, err := os.ReadFile(yamlPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", yamlPath, err)
		}
	}

	applyEnv(&cfg.Port, "PORT")
	applyEnv(&cfg.JWTSecret, "ACCESS_TOKEN_SECRET")
	applyEnv(&cfg.DataDir, "DATA_DIR")
	applyEnv(&cfg.TimeZone, "TIME_ZONE")
	applyEnv(&cfg.TimeAPIBaseURL, "TIME_API_BASE_URL")
	applyEnv(&cfg.CORSOrigin, "CORS_ORIGIN")
	applyEnv(&cfg.LogLevel, "LOG_LEVEL")
	if os.Getenv("LOG_DEV") == "1" {
		cfg.LogDev = true
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_SECRET is not set")
	}
	return cfg, nil
}

func applyEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
