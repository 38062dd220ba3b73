// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type APIConfig struct {
	Port int `yaml:"port"`
	// Rate limit for job creation: at most Limit accepted per client key per Window.
	RateLimit       int           `yaml:"rate_limit"`
	RateLimitWindow time.Duration `yaml:"rate_limit_window"`
}

type AdminConfig struct {
	Port      int           `yaml:"port"`
	APIKey    string        `yaml:"api_key"`    // exchanged for a session JWT at /api/v1/login
	JWTSecret string        `yaml:"jwt_secret"` // HS256 signing key
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AIConfig struct {
	OpenAIKey       string `yaml:"openai_key"`
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	DefaultModel    string `yaml:"default_model"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
	ConcurrentLimit int    `yaml:"concurrent_limit"` // max concurrent AI calls
}

type VideoGenConfig struct {
	APIKey        string        `yaml:"api_key"`
	BaseURL       string        `yaml:"base_url"`
	UploadBaseURL string        `yaml:"upload_base_url"`
	Model         string        `yaml:"model"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	PollDeadline  time.Duration `yaml:"poll_deadline"`
	SubmitRetries int           `yaml:"submit_retries"`
}

type PlacesConfig struct {
	GoogleAPIKey string `yaml:"google_api_key"`
	// When no key is configured the canned fallback dataset is served instead.
}

type StorageConfig struct {
	UploadsDir string `yaml:"uploads_dir"`
	ClipsDir   string `yaml:"clips_dir"`
	VideosDir  string `yaml:"videos_dir"`
}

type WorkerConfig struct {
	Workers       int           `yaml:"workers"`        // concurrent jobs
	ClaimInterval time.Duration `yaml:"claim_interval"` // queue poll cadence
	StaleAfter    time.Duration `yaml:"stale_after"`    // processing heartbeat cutoff
	SweepInterval time.Duration `yaml:"sweep_interval"` // recovery sweep cadence
}

type NotifyConfig struct {
	TelegramToken string        `yaml:"telegram_token"`
	Interval      time.Duration `yaml:"interval"`
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	API      APIConfig      `yaml:"api"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	VideoGen VideoGenConfig `yaml:"videogen"`
	Places   PlacesConfig   `yaml:"places"`
	Storage  StorageConfig  `yaml:"storage"`
	Worker   WorkerConfig   `yaml:"worker"`
	Notify   NotifyConfig   `yaml:"notify"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8080
	}
	if cfg.API.RateLimit <= 0 {
		cfg.API.RateLimit = 3
	}
	if cfg.API.RateLimitWindow <= 0 {
		cfg.API.RateLimitWindow = time.Hour
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 9090
	}
	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = 30 * time.Minute
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gpt-4o-mini"
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 2048
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.VideoGen.BaseURL == "" {
		cfg.VideoGen.BaseURL = "https://api.kie.ai/api/v1/veo"
	}
	if cfg.VideoGen.UploadBaseURL == "" {
		cfg.VideoGen.UploadBaseURL = "https://kieai.redpandaai.co"
	}
	if cfg.VideoGen.Model == "" {
		cfg.VideoGen.Model = "veo3"
	}
	if cfg.VideoGen.PollInterval <= 0 {
		cfg.VideoGen.PollInterval = 10 * time.Second
	}
	if cfg.VideoGen.PollDeadline <= 0 {
		cfg.VideoGen.PollDeadline = 600 * time.Second
	}
	if cfg.VideoGen.SubmitRetries <= 0 {
		cfg.VideoGen.SubmitRetries = 3
	}
	if cfg.Storage.UploadsDir == "" {
		cfg.Storage.UploadsDir = "uploads"
	}
	if cfg.Storage.ClipsDir == "" {
		cfg.Storage.ClipsDir = "clips"
	}
	if cfg.Storage.VideosDir == "" {
		cfg.Storage.VideosDir = "videos"
	}
	if cfg.Worker.Workers <= 0 {
		cfg.Worker.Workers = 4
	}
	if cfg.Worker.ClaimInterval <= 0 {
		cfg.Worker.ClaimInterval = 2 * time.Second
	}
	if cfg.Worker.StaleAfter <= 0 {
		cfg.Worker.StaleAfter = 15 * time.Minute
	}
	if cfg.Worker.SweepInterval <= 0 {
		cfg.Worker.SweepInterval = 5 * time.Minute
	}
	if cfg.Notify.Interval <= 0 {
		cfg.Notify.Interval = 30 * time.Second
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.VideoGen.APIKey == "" && !dev {
		return nil, errors.New("videogen.api_key is required outside dev mode")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
