package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"TrendScreener/internal/logger"
)

// DefaultPath is read when CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

const dateLayout = "2006-01-02"

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider          string  `yaml:"provider" validate:"oneof=yahoo polygon mock"`
		PolygonAPIKey     string  `yaml:"polygon_api_key" validate:"required_if=Provider polygon"`
		RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gt=0"`
	} `yaml:"data_source"`
	Cache struct {
		Backend    string        `yaml:"backend" validate:"oneof=sqlite redis none"`
		SQLitePath string        `yaml:"sqlite_path"`
		RedisAddr  string        `yaml:"redis_addr" validate:"required_if=Backend redis"`
		RedisDB    int           `yaml:"redis_db" validate:"gte=0"`
		TTL        time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Screen struct {
		Scrips       string  `yaml:"scrips"`
		Filter       string  `yaml:"filter"`
		Start        string  `yaml:"start" validate:"datetime=2006-01-02"`
		End          string  `yaml:"end" validate:"omitempty,datetime=2006-01-02"`
		Workers      int     `yaml:"workers" validate:"gte=1,lte=64"`
		Strategy     string  `yaml:"strategy"`
		MinVolume    float64 `yaml:"min_volume" validate:"gte=0"`
		MinPrice     float64 `yaml:"min_price" validate:"gte=0"`
		MaxPrice     float64 `yaml:"max_price" validate:"gte=0"`
		Trend        string  `yaml:"trend" validate:"oneof=all bullish bearish flat"`
		VolumeWindow int     `yaml:"volume_window" validate:"gte=1"`
	} `yaml:"screen"`
	Schedule struct {
		ScreenCron string `yaml:"screen_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Chart struct {
		OutputDir   string `yaml:"output_dir"`
		Width       int    `yaml:"width" validate:"gte=200"`
		PanelHeight int    `yaml:"panel_height" validate:"gte=50"`
	} `yaml:"chart"`
	Metrics struct {
		Listen string `yaml:"listen"`
	} `yaml:"metrics"`
	Log   logger.Options `yaml:"log"`
	Proxy string         `yaml:"proxy"`
}

// Path returns CONFIG_PATH or the default location.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.DataSource.PolygonAPIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SCREEN_CRON"); v != "" {
		cfg.Schedule.ScreenCron = v
	}
	if v := os.Getenv("SCREEN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Screen.Workers = n
		}
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.RequestsPerSecond == 0 {
		cfg.DataSource.RequestsPerSecond = 2
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "sqlite"
	}
	if cfg.Cache.SQLitePath == "" {
		cfg.Cache.SQLitePath = "data/trend_screener.db"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 24 * time.Hour
	}
	if cfg.Screen.Scrips == "" {
		cfg.Screen.Scrips = "configs/nse.txt"
	}
	if cfg.Screen.Start == "" {
		cfg.Screen.Start = "2014-01-01"
	}
	if cfg.Screen.Workers == 0 {
		cfg.Screen.Workers = 8
	}
	if cfg.Screen.Trend == "" {
		cfg.Screen.Trend = "all"
	}
	if cfg.Screen.MinVolume == 0 {
		cfg.Screen.MinVolume = 1
	}
	if cfg.Screen.VolumeWindow == 0 {
		cfg.Screen.VolumeWindow = 100
	}
	if cfg.Schedule.ScreenCron == "" {
		cfg.Schedule.ScreenCron = "0 30 16 * * 1-5"
	}
	if cfg.Chart.OutputDir == "" {
		cfg.Chart.OutputDir = "charts"
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = 1200
	}
	if cfg.Chart.PanelHeight == 0 {
		cfg.Chart.PanelHeight = 200
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = ":9108"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Screen.MaxPrice > 0 && c.Screen.MinPrice > c.Screen.MaxPrice {
		return fmt.Errorf("screen.min_price must not exceed screen.max_price")
	}
	start, end, _ := c.ScreenRange()
	if !end.IsZero() && end.Before(start) {
		return fmt.Errorf("screen.end is before screen.start")
	}
	return nil
}

// ScreenRange parses the screening window. A zero end means today.
func (c *Config) ScreenRange() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, c.Screen.Start)
	if err != nil {
		return start, end, fmt.Errorf("screen.start: %w", err)
	}
	if c.Screen.End != "" {
		end, err = time.Parse(dateLayout, c.Screen.End)
		if err != nil {
			return start, end, fmt.Errorf("screen.end: %w", err)
		}
	}
	return start, end, nil
}

// TelegramEnabled reports whether reports should be sent.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
