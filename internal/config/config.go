package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"

	"github.com/dgallion1/docstruct/internal/sheet"
)

type Config struct {
	Port string

	// Auth for /api/*; empty disables it
	APIKey string

	// CLI defaults
	InputPath  string
	OutputPath string

	// Workbook layout
	FlatSheetName    string
	OutlineSheetName string

	// Upload limits
	MaxUploadBytes int64

	// Rolling window for /api/stats
	StatsWindow time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadDotEnv reads KEY=VALUE pairs from the given files (default ".env") into
// the environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DOCSTRUCT_API_KEY"),

		InputPath:  envOr("DOCSTRUCT_INPUT", "input.docx"),
		OutputPath: envOr("DOCSTRUCT_OUTPUT", "document_structure.xlsx"),

		FlatSheetName:    envOr("FLAT_SHEET_NAME", sheet.DefaultFlatSheet),
		OutlineSheetName: envOr("OUTLINE_SHEET_NAME", sheet.DefaultOutlineSheet),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", "json"),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	for _, name := range []string{c.FlatSheetName, c.OutlineSheetName} {
		if err := validSheetName(name); err != nil {
			return err
		}
	}
	if c.FlatSheetName == c.OutlineSheetName {
		return fmt.Errorf("FLAT_SHEET_NAME and OUTLINE_SHEET_NAME must differ")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

// SheetOptions returns the workbook layout for this configuration.
func (c Config) SheetOptions() sheet.Options {
	return sheet.Options{FlatSheet: c.FlatSheetName, OutlineSheet: c.OutlineSheetName}
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

// Excel limits sheet names to 31 characters and forbids a few symbols.
func validSheetName(name string) error {
	if name == "" {
		return fmt.Errorf("sheet name must not be empty")
	}
	if utf8.RuneCountInString(name) > 31 {
		return fmt.Errorf("sheet name %q exceeds 31 characters", name)
	}
	if strings.ContainsAny(name, `:\/?*[]`) {
		return fmt.Errorf("sheet name %q contains one of : \\ / ? * [ ]", name)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
