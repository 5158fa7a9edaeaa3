package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Store struct {
		// Driver selects the persistence backend: memory, postgres, or mongo.
		Driver string `yaml:"driver"`
	} `yaml:"store"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Mongo struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"mongo"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Cache struct {
		LeaderboardTTL string `yaml:"leaderboard_ttl"`
	} `yaml:"cache"`
	Admin struct {
		Email string `yaml:"email"`
	} `yaml:"admin"`
	Exam struct {
		SecondsPerQuestion int `yaml:"seconds_per_question"`
	} `yaml:"exam"`
}

// Load reads YAML config from path, with a best-effort .env overlay and
// environment overrides for deploy-time settings.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	overrideString(&cfg.Store.Driver, "STORE_DRIVER")
	overrideString(&cfg.Postgres.URL, "POSTGRES_URL")
	overrideString(&cfg.Mongo.URI, "MONGO_URI")
	overrideString(&cfg.Mongo.Database, "MONGO_DATABASE")
	overrideString(&cfg.Redis.Addr, "REDIS_ADDR")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")
	overrideString(&cfg.Admin.Email, "ADMIN_EMAIL")
	return cfg, nil
}

func overrideString(target *string, env string) {
	if v := os.Getenv(env); v != "" {
		*target = v
	}
}

// TTLDuration parses a duration string or returns the fallback if empty or
// malformed.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
