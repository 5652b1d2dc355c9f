package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mkpass/mkpass-go/internal/crypto"
)

const devJWTSecret = "dev-secret-change-in-production"

type Config struct {
	Port           string
	Env            string
	DatabaseDSN    string
	JWTSecret      string
	JWTExpiry      time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	Defaults       crypto.Requirements
}

// File is the optional YAML configuration named by MKPASS_CONFIG.
//
//	defaults:
//	  length: 24
//	  numbers: 3
//	  specials: 2
//	  first_is_letter: true
//	  allow_repeats: false
//	server:
//	  port: "9090"
//	  rate_limit_rps: 2
//	  rate_limit_burst: 5
type File struct {
	Defaults *Defaults   `yaml:"defaults"`
	Server   *ServerFile `yaml:"server"`
}

// Defaults overrides individual fields of crypto.DefaultRequirements.
type Defaults struct {
	Length        *uint16 `yaml:"length"`
	Numbers       *uint16 `yaml:"numbers"`
	Specials      *uint16 `yaml:"specials"`
	FirstIsLetter *bool   `yaml:"first_is_letter"`
	AllowRepeats  *bool   `yaml:"allow_repeats"`
}

type ServerFile struct {
	Port           string  `yaml:"port"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

// Apply returns base with every field set in d replaced.
func (d *Defaults) Apply(base crypto.Requirements) crypto.Requirements {
	if d == nil {
		return base
	}
	if d.Length != nil {
		base.Length = *d.Length
	}
	if d.Numbers != nil {
		base.Digits = *d.Numbers
	}
	if d.Specials != nil {
		base.Specials = *d.Specials
	}
	if d.FirstIsLetter != nil {
		base.FirstIsLetter = *d.FirstIsLetter
	}
	if d.AllowRepeats != nil {
		base.AllowRepeats = *d.AllowRepeats
	}
	return base
}

// ReadFile parses the YAML file at path. Unknown keys are rejected.
func ReadFile(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	var file File
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return file, nil
}

// Load builds the server configuration from the environment and the
// optional MKPASS_CONFIG file. Environment variables win over the file.
func Load() Config {
	cfg := Config{
		Port:           "8080",
		Env:            getEnv("ENV", "development"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/mkpass?parseTime=true"),
		JWTSecret:      getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry:      getDuration("JWT_EXPIRY", 24*time.Hour),
		RateLimitRPS:   10,
		RateLimitBurst: 20,
		Defaults:       crypto.DefaultRequirements(),
	}

	if path := os.Getenv("MKPASS_CONFIG"); path != "" {
		file, err := ReadFile(path)
		if err != nil {
			slog.Error("failed to load config file", "path", path, "error", err)
			os.Exit(1)
		}
		cfg.Defaults = file.Defaults.Apply(cfg.Defaults)
		if s := file.Server; s != nil {
			if s.Port != "" {
				cfg.Port = s.Port
			}
			if s.RateLimitRPS > 0 {
				cfg.RateLimitRPS = s.RateLimitRPS
			}
			if s.RateLimitBurst > 0 {
				cfg.RateLimitBurst = s.RateLimitBurst
			}
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.RateLimitRPS = getFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = getInt("RATE_LIMIT_BURST", cfg.RateLimitBurst)

	if cfg.Env == "production" && cfg.JWTSecret == devJWTSecret {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("ignoring invalid duration", "key", key, "value", v, "error", err)
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		slog.Warn("ignoring invalid number", "key", key, "value", v)
		return fallback
	}
	return f
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid integer", "key", key, "value", v)
		return fallback
	}
	return n
}
