package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c := Default()

	if c.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q", c.UserAgent)
	}
	if c.RequestTimeout != 15*time.Second || c.NavTimeout != 30*time.Second || c.GraceDelay != 2*time.Second {
		t.Errorf("unexpected timeouts %v %v %v", c.RequestTimeout, c.NavTimeout, c.GraceDelay)
	}
	if c.ScreenshotQuality != 100 {
		t.Errorf("ScreenshotQuality = %d, want 100", c.ScreenshotQuality)
	}
	if c.Addr() != "0.0.0.0:8765" {
		t.Errorf("Addr() = %q", c.Addr())
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SCRAPER_USER_AGENT":         "TestBot/1.0",
		"SCRAPER_REQUEST_TIMEOUT":    "5",
		"SCRAPER_NAV_TIMEOUT":        "12.5",
		"SCRAPER_GRACE_DELAY":        "0",
		"SCRAPER_SCREENSHOT_QUALITY": "80",
		"SCRAPER_HEADLESS":           "false",
		"SCRAPER_CHROME_PATH":        "/usr/bin/chromium",
		"MCP_HOST":                   "127.0.0.1",
		"MCP_PORT":                   "9000",
		"LOG_LEVEL":                  "debug",
		"LOG_FORMAT":                 "console",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	c := Default()
	if err := c.applyEnv(lookup); err != nil {
		t.Fatalf("applyEnv() error = %v", err)
	}

	if c.UserAgent != "TestBot/1.0" {
		t.Errorf("UserAgent = %q", c.UserAgent)
	}
	if c.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v", c.RequestTimeout)
	}
	if c.NavTimeout != 12500*time.Millisecond {
		t.Errorf("NavTimeout = %v", c.NavTimeout)
	}
	if c.GraceDelay != 0 {
		t.Errorf("GraceDelay = %v", c.GraceDelay)
	}
	if c.ScreenshotQuality != 80 {
		t.Errorf("ScreenshotQuality = %d", c.ScreenshotQuality)
	}
	if c.Headless {
		t.Error("Headless should be false")
	}
	if c.ChromePath != "/usr/bin/chromium" || c.Addr() != "127.0.0.1:9000" {
		t.Errorf("ChromePath = %q, Addr = %q", c.ChromePath, c.Addr())
	}
	if c.LogLevel != "debug" || c.LogFormat != "console" {
		t.Errorf("log settings = %q %q", c.LogLevel, c.LogFormat)
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SCRAPER_REQUEST_TIMEOUT", "soon"},
		{"SCRAPER_HEADLESS", "maybe"},
		{"MCP_PORT", "http"},
		{"SCRAPER_SCREENSHOT_QUALITY", "high"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			c := Default()
			err := c.applyEnv(func(k string) (string, bool) {
				if k == tt.key {
					return tt.value, true
				}
				return "", false
			})
			if err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("applyEnv() error = %v, want mention of %s", err, tt.key)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"zero request timeout", func(c *Config) { c.RequestTimeout = 0 }, "request timeout"},
		{"negative nav timeout", func(c *Config) { c.NavTimeout = -time.Second }, "navigation timeout"},
		{"negative grace", func(c *Config) { c.GraceDelay = -1 }, "grace delay"},
		{"zero screenshot quality", func(c *Config) { c.ScreenshotQuality = 0 }, "screenshot quality"},
		{"screenshot quality too high", func(c *Config) { c.ScreenshotQuality = 101 }, "screenshot quality 101"},
		{"port too high", func(c *Config) { c.Port = 70000 }, "port 70000"},
		{"port zero", func(c *Config) { c.Port = 0 }, "port 0"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scraper.yaml")
	data := "user_agent: YamlBot\nnav_timeout: 45s\nport: 9100\nheadless: false\nscreenshot_quality: 70\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.UserAgent != "YamlBot" || c.NavTimeout != 45*time.Second || c.Port != 9100 || c.Headless {
		t.Errorf("unexpected config %+v", c)
	}
	if c.ScreenshotQuality != 70 {
		t.Errorf("ScreenshotQuality = %d, want 70", c.ScreenshotQuality)
	}
	if c.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("unset keys should keep defaults, RequestTimeout = %v", c.RequestTimeout)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scraper.yaml")
	if err := os.WriteFile(path, []byte("port: 9100\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MCP_PORT", "9200")

	c, err := Load(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Port != 9200 {
		t.Errorf("Port = %d, want 9200", c.Port)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("SCRAPER_CHROME_PATH=/opt/chrome\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, set := os.LookupEnv("SCRAPER_CHROME_PATH"); set {
		t.Skip("SCRAPER_CHROME_PATH already set in environment")
	}
	t.Cleanup(func() { os.Unsetenv("SCRAPER_CHROME_PATH") })

	c, err := Load("", envFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.ChromePath != "/opt/chrome" {
		t.Errorf("ChromePath = %q, want /opt/chrome", c.ChromePath)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("port: [1, 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad, filepath.Join(dir, "missing.env")); err == nil || !strings.Contains(err.Error(), "parsing config file") {
		t.Errorf("Load() error = %v, want parse error", err)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("port: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(invalid, filepath.Join(dir, "missing.env")); err == nil {
		t.Error("expected validation error")
	}
}
