// Package config loads runtime settings from defaults, an optional YAML
// file, a .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultUserAgent      = "Mozilla/5.0 (compatible; EventScraperMCP/1.0; +https://example.com/bot)"
	DefaultRequestTimeout = 15 * time.Second
	DefaultNavTimeout     = 30 * time.Second
	DefaultGraceDelay     = 2 * time.Second
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 8765
	DefaultLogLevel       = "INFO"
	DefaultLogFormat      = "json"

	// DefaultScreenshotQuality captures lossless PNG; lower values give JPEG.
	DefaultScreenshotQuality = 100
)

// Config holds every runtime setting.
type Config struct {
	UserAgent         string        `yaml:"user_agent"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	NavTimeout        time.Duration `yaml:"nav_timeout"`
	GraceDelay        time.Duration `yaml:"grace_delay"`
	ScreenshotQuality int           `yaml:"screenshot_quality"`
	Headless          bool          `yaml:"headless"`
	ChromePath        string        `yaml:"chrome_path"`
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	LogLevel          string        `yaml:"log_level"`
	LogFormat         string        `yaml:"log_format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		UserAgent:         DefaultUserAgent,
		RequestTimeout:    DefaultRequestTimeout,
		NavTimeout:        DefaultNavTimeout,
		GraceDelay:        DefaultGraceDelay,
		ScreenshotQuality: DefaultScreenshotQuality,
		Headless:          true,
		Host:              DefaultHost,
		Port:              DefaultPort,
		LogLevel:          DefaultLogLevel,
		LogFormat:         DefaultLogFormat,
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped
// when path is empty), the .env files in envFiles (missing ones are
// ignored) and finally the process environment.
func Load(path string, envFiles ...string) (Config, error) {
	c := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	if err := c.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	seconds := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
		*dst = time.Duration(f * float64(time.Second))
		return nil
	}

	str("SCRAPER_USER_AGENT", &c.UserAgent)
	str("SCRAPER_CHROME_PATH", &c.ChromePath)
	str("MCP_HOST", &c.Host)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	for key, dst := range map[string]*time.Duration{
		"SCRAPER_REQUEST_TIMEOUT": &c.RequestTimeout,
		"SCRAPER_NAV_TIMEOUT":     &c.NavTimeout,
		"SCRAPER_GRACE_DELAY":     &c.GraceDelay,
	} {
		if err := seconds(key, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup("SCRAPER_HEADLESS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing SCRAPER_HEADLESS: %w", err)
		}
		c.Headless = b
	}
	if v, ok := lookup("SCRAPER_SCREENSHOT_QUALITY"); ok && v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing SCRAPER_SCREENSHOT_QUALITY: %w", err)
		}
		c.ScreenshotQuality = q
	}
	if v, ok := lookup("MCP_PORT"); ok && v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing MCP_PORT: %w", err)
		}
		c.Port = p
	}
	return nil
}

// Validate rejects settings the scraper cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.NavTimeout <= 0 {
		errs = append(errs, errors.New("navigation timeout must be positive"))
	}
	if c.GraceDelay <= 0 {
		errs = append(errs, errors.New("grace delay must be positive"))
	}
	if c.ScreenshotQuality < 1 || c.ScreenshotQuality > 100 {
		errs = append(errs, fmt.Errorf("screenshot quality %d out of range 1-100", c.ScreenshotQuality))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// Addr returns host:port for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
