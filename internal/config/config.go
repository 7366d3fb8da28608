package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultBaseURL  = "https://api.chatwork.com/v2"
	DefaultPort     = "3000"
	DefaultInterval = 60 * time.Second
	DefaultTimeout  = 10 * time.Second
)

type Config struct {
	Chatwork  ChatworkConfig  `koanf:"chatwork"`
	Server    ServerConfig    `koanf:"server"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Log       LogConfig       `koanf:"log"`
}

type ChatworkConfig struct {
	APIKey  string        `koanf:"api_key"`
	RoomID  string        `koanf:"room_id"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

type ServerConfig struct {
	Port string `koanf:"port"`
}

func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

type SchedulerConfig struct {
	Interval time.Duration `koanf:"interval"`
	Timezone string        `koanf:"timezone"`
}

// Location resolves Timezone, falling back to the process local zone.
func (s SchedulerConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// envKeys maps the environment variables we honour onto config keys.
var envKeys = map[string]string{
	"CHATWORK_API_KEY":   "chatwork.api_key",
	"CHATWORK_ROOM_ID":   "chatwork.room_id",
	"CHATWORK_BASE_URL":  "chatwork.base_url",
	"CHATWORK_TIMEOUT":   "chatwork.timeout",
	"PORT":               "server.port",
	"SCHEDULER_INTERVAL": "scheduler.interval",
	"SCHEDULER_TIMEZONE": "scheduler.timezone",
	"LOG_LEVEL":          "log.level",
	"LOG_FORMAT":         "log.format",
}

// Load reads the optional YAML file named by CONFIG_FILE (config.yaml by
// default) and overlays the environment on top of it.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	// A longer interval can step over the :00 minute and skip an hour.
	if cfg.Scheduler.Interval > DefaultInterval {
		return nil, fmt.Errorf("scheduler interval %s exceeds %s", cfg.Scheduler.Interval, DefaultInterval)
	}

	if _, err := cfg.Scheduler.Location(); err != nil {
		return nil, fmt.Errorf("scheduler timezone: %w", err)
	}

	return cfg, nil
}

// envValue drops unknown and empty variables so that an exported but blank
// PORT behaves like an unset one.
func envValue(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	return envKeys[key], value
}

func (c *Config) applyDefaults() {
	if c.Chatwork.BaseURL == "" {
		c.Chatwork.BaseURL = DefaultBaseURL
	}
	if c.Chatwork.Timeout <= 0 {
		c.Chatwork.Timeout = DefaultTimeout
	}
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Scheduler.Interval <= 0 {
		c.Scheduler.Interval = DefaultInterval
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// MissingCredentials lists the credential keys left empty. Credentials are
// not enforced; a bad token only shows up as a failed send.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.Chatwork.APIKey == "" {
		missing = append(missing, "CHATWORK_API_KEY")
	}
	if c.Chatwork.RoomID == "" {
		missing = append(missing, "CHATWORK_ROOM_ID")
	}
	return missing
}
