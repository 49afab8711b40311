package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Mode selects how the application runs.
type Mode string

const (
	// ModeTUI runs the interactive terminal browser.
	ModeTUI Mode = "tui"
	// ModeWatch runs the scheduled article watcher.
	ModeWatch Mode = "watch"
)

// Environment names where the binary runs. Local and dev enable strict invariant checks.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config contains runtime configuration values.
type Config struct {
	Mode           Mode          `yaml:"mode"`
	Env            string        `yaml:"env"`
	APIBaseURL     string        `yaml:"api_base_url"`
	AccessToken    string        `yaml:"access_token"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	DBPath         string        `yaml:"db_path"`
	LogFile        string        `yaml:"log_file"`
	LogLevel       string        `yaml:"log_level"`
	Watch          WatchConfig   `yaml:"watch"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Users             []string `yaml:"users"`
	Schedule          string   `yaml:"schedule"`
	Timezone          string   `yaml:"timezone"`
	DiscordWebhookURL string   `yaml:"discord_webhook_url"`
}

const (
	defaultBaseURL    = "https://qiita.com/api/v2"
	defaultTimeout    = 5 * time.Second
	defaultDBPath     = "qiitawatch.db"
	defaultTUILogFile = "qiitawatch.log"
	defaultCron       = "0 * * * *" // hourly
	defaultTimezone   = "UTC"
)

// Defaults returns a Config with every default applied.
func Defaults() Config {
	return Config{
		Mode:           ModeTUI,
		Env:            EnvProd,
		APIBaseURL:     defaultBaseURL,
		RequestTimeout: defaultTimeout,
		DBPath:         defaultDBPath,
		LogLevel:       "info",
		Watch: WatchConfig{
			Schedule: defaultCron,
			Timezone: defaultTimezone,
		},
	}
}

// Load builds a Config from defaults, the optional YAML file at path and then
// environment variables. QIITAWATCH_CONFIG overrides path.
func Load(path string) (*Config, error) {
	path = getenvDefault("QIITAWATCH_CONFIG", path)

	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.Mode = Mode(getenvDefault("QIITAWATCH_MODE", string(c.Mode)))
	c.Env = getenvDefault("QIITAWATCH_ENV", c.Env)
	c.APIBaseURL = getenvDefault("QIITA_API_BASE_URL", c.APIBaseURL)
	c.AccessToken = getenvDefault("QIITA_ACCESS_TOKEN", c.AccessToken)
	c.RequestTimeout = parseDurationDefault("QIITA_REQUEST_TIMEOUT", c.RequestTimeout)
	c.DBPath = getenvDefault("QIITAWATCH_DB_PATH", c.DBPath)
	c.LogFile = getenvDefault("QIITAWATCH_LOG_FILE", c.LogFile)
	c.LogLevel = getenvDefault("LOG_LEVEL", c.LogLevel)
	c.Watch.Users = parseListDefault("WATCH_USERS", c.Watch.Users)
	c.Watch.Schedule = getenvDefault("WATCH_SCHEDULE", c.Watch.Schedule)
	c.Watch.Timezone = getenvDefault("WATCH_TIMEZONE", c.Watch.Timezone)
	c.Watch.DiscordWebhookURL = getenvDefault("DISCORD_WEBHOOK_URL", c.Watch.DiscordWebhookURL)
}

func (c *Config) normalize() {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultTimeout
	}
	if c.Mode == ModeTUI && c.LogFile == "" {
		c.LogFile = defaultTUILogFile
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
}

// Validate checks that the values are usable.
func (c *Config) Validate() error {
	var errs []error

	switch c.Mode {
	case ModeTUI, ModeWatch:
	default:
		errs = append(errs, fmt.Errorf("mode must be %q or %q, got %q", ModeTUI, ModeWatch, c.Mode))
	}

	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		errs = append(errs, fmt.Errorf("env must be local, dev or prod, got %q", c.Env))
	}

	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("api_base_url is required"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}

	if c.Mode == ModeWatch {
		if len(c.Watch.Users) == 0 {
			errs = append(errs, errors.New("watch.users is required in watch mode"))
		}
		if _, err := cron.ParseStandard(c.Watch.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("invalid watch.schedule %q: %w", c.Watch.Schedule, err))
		}
		if _, err := time.LoadLocation(c.Watch.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("invalid watch.timezone %q: %w", c.Watch.Timezone, err))
		}
	}

	return errors.Join(errs...)
}

// StrictInvariants reports whether programming errors should panic.
func (c *Config) StrictInvariants() bool {
	return c.Env == EnvLocal || c.Env == EnvDev
}

func getenvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDurationDefault(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func parseListDefault(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
