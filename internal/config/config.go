// Package config loads runtime settings from the environment, with a
// .env file honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"arxdex/internal/texindex"
)

type Config struct {
	// DataDir holds one subdirectory per fetched paper.
	DataDir string

	// HTTP server
	Port string

	// Indexing knobs
	ReadingSpeedWPM int
	EquationMinutes float64
	MaxKeyTerms     int
	ExtraHeadings   []string
}

// Load reads settings from the environment. A .env file in the working
// directory is merged in first; missing .env is not an error.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		DataDir: envOr("ARXDEX_DATA_DIR", "papers"),
		Port:    envOr("PORT", "8080"),

		ReadingSpeedWPM: envInt("READING_SPEED_WPM", 200),
		EquationMinutes: envFloat("EQUATION_MINUTES", 0.5),
		MaxKeyTerms:     envInt("MAX_KEY_TERMS", 10),
		ExtraHeadings:   envList("EXTRA_HEADINGS"),
	}

	if cfg.ReadingSpeedWPM <= 0 {
		cfg.ReadingSpeedWPM = 200
	}
	if cfg.EquationMinutes < 0 {
		cfg.EquationMinutes = 0.5
	}
	if cfg.MaxKeyTerms <= 0 {
		cfg.MaxKeyTerms = 10
	}

	return cfg
}

// Validate rejects settings no command could run with.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("ARXDEX_DATA_DIR must not be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT %q is not a number", c.Port)
	}
	return nil
}

// Index maps the loaded settings onto the indexing pipeline's config.
func (c Config) Index() texindex.Config {
	return texindex.Config{
		ReadingSpeedWPM: float64(c.ReadingSpeedWPM),
		EquationMinutes: c.EquationMinutes,
		MaxKeyTerms:     c.MaxKeyTerms,
		ExtraHeadings:   c.ExtraHeadings,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
