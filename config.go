package folio

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"folio/logger"
)

// Config is the full application configuration, read from folio.yaml with
// FOLIO_* environment overrides (FOLIO_AUTH_SECRET overrides auth.secret).
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Site    SiteConfig    `mapstructure:"site"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Upload  UploadConfig  `mapstructure:"upload"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"` // listen address, default ":3000"
	Mode string `mapstructure:"mode"` // "debug" or "release"
}

// SiteConfig holds site-wide settings passed to templates and feeds.
type SiteConfig struct {
	Name          string   `mapstructure:"name"`
	URL           string   `mapstructure:"url"` // canonical base URL
	Description   string   `mapstructure:"description"`
	Author        string   `mapstructure:"author"`
	Locales       []string `mapstructure:"locales"`
	DefaultLocale string   `mapstructure:"default_locale"`
}

type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions converts the log section into logger package options.
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite" (default) or "file"
	Path   string `mapstructure:"path"`
}

type AuthConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"` // bcrypt hash, required
	Secret       string `mapstructure:"secret"`        // JWT signing secret, required
	TTLHours     int    `mapstructure:"ttl_hours"`     // default 24
	CookieSecure bool   `mapstructure:"cookie_secure"`
	// SessionSecret encrypts the admin flash-message cookie, distinct from
	// the JWT secret.
	SessionSecret string `mapstructure:"session_secret"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"` // post cache TTL, default 5m
}

type UploadConfig struct {
	Dir      string `mapstructure:"dir"`       // default "public/uploads"
	MaxWidth int    `mapstructure:"max_width"` // resize bound, default 1200
}

func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Site.Name == "" {
		c.Site.Name = "Folio"
	}
	if c.Site.URL == "" {
		c.Site.URL = "http://localhost:3000"
	}
	c.Site.URL = strings.TrimRight(c.Site.URL, "/")
	if len(c.Site.Locales) == 0 {
		c.Site.Locales = []string{"en", "fa"}
	}
	if c.Site.DefaultLocale == "" {
		c.Site.DefaultLocale = c.Site.Locales[0]
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.Path == "" {
		if c.Storage.Driver == "file" {
			c.Storage.Path = "data/posts.json"
		} else {
			c.Storage.Path = "data/folio.db"
		}
	}
	if c.Auth.Username == "" {
		c.Auth.Username = "admin"
	}
	if c.Auth.TTLHours == 0 {
		c.Auth.TTLHours = 24
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = "public/uploads"
	}
	if c.Upload.MaxWidth == 0 {
		c.Upload.MaxWidth = 1200
	}
}

// Validate rejects a config missing required secrets.
func (c *Config) Validate() error {
	if c.Auth.PasswordHash == "" {
		return fmt.Errorf("config: auth.password_hash is required")
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("config: auth.secret is required")
	}
	if c.Auth.SessionSecret == "" {
		return fmt.Errorf("config: auth.session_secret is required")
	}
	return nil
}

// LoadConfig reads folio.yaml from path (or the working directory when path
// is empty) and applies environment overrides. A missing file is fine; env
// and defaults carry the rest.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("folio")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	// Every key needs a registered default so AutomaticEnv-sourced values
	// survive Unmarshal even when the key never appears in a config file.
	v.SetDefault("server.addr", "")
	v.SetDefault("server.mode", "")
	v.SetDefault("site.name", "")
	v.SetDefault("site.url", "")
	v.SetDefault("site.description", "")
	v.SetDefault("site.author", "")
	v.SetDefault("site.locales", []string{})
	v.SetDefault("site.default_locale", "")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "")
	v.SetDefault("log.max_size_mb", 0)
	v.SetDefault("log.max_backups", 0)
	v.SetDefault("log.max_age_days", 0)
	v.SetDefault("log.compress", false)
	v.SetDefault("storage.driver", "")
	v.SetDefault("storage.path", "")
	v.SetDefault("auth.username", "")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.session_secret", "")
	v.SetDefault("auth.ttl_hours", 0)
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("cache.ttl", time.Duration(0))
	v.SetDefault("upload.dir", "")
	v.SetDefault("upload.max_width", 0)

	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.setDefaults()
	return &cfg, nil
}
