// Package config provides application configuration loaded from defaults,
// an optional config file, and environment variables via Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/goclone/internal/logger"
)

// Default configuration values.
const (
	// DefaultServerAddress is the default HTTP listen address.
	DefaultServerAddress = ":8080"
	// DefaultStaticTimeout bounds the plain GET of the target page.
	DefaultStaticTimeout = 15 * time.Second
	// DefaultRenderTimeout bounds a headless render, navigation included.
	DefaultRenderTimeout = 45 * time.Second
	// DefaultAssetTimeout bounds a single asset retrieval.
	DefaultAssetTimeout = 20 * time.Second
	// DefaultAssetConcurrency bounds the asset fetch fan-out per clone run.
	DefaultAssetConcurrency = 8
	// DefaultMinStaticBytes is the body size below which a page is presumed
	// to depend on client-side rendering.
	DefaultMinStaticBytes = 1024
	// DefaultWorkDir is where clone folders and archives are materialized.
	DefaultWorkDir = "."
	// DefaultPublicDir is the fixed public downloads directory.
	DefaultPublicDir = "public/downloads"
	// DefaultUserAgent identifies the cloner to origin servers.
	DefaultUserAgent = "goclone/1.0 (+https://github.com/jonesrussell/goclone)"
)

// Config is the root application configuration. It is constructed once and
// injected explicitly; nothing in the application reads Viper after Load.
type Config struct {
	App    AppConfig     `mapstructure:"app"`
	Logger logger.Config `mapstructure:"logger"`
	Server ServerConfig  `mapstructure:"server"`
	Clone  CloneConfig   `mapstructure:"clone"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// CloneConfig holds the site-mirroring pipeline settings.
type CloneConfig struct {
	// WorkDir is the directory where clone folders and archives are written.
	WorkDir string `mapstructure:"work_dir"`
	// PublicDir is the directory archives are copied to for serving.
	PublicDir string `mapstructure:"public_dir"`
	// StaticTimeout bounds the static page fetch.
	StaticTimeout time.Duration `mapstructure:"static_timeout"`
	// RenderTimeout bounds the headless render fallback.
	RenderTimeout time.Duration `mapstructure:"render_timeout"`
	// AssetTimeout bounds each individual asset fetch.
	AssetTimeout time.Duration `mapstructure:"asset_timeout"`
	// AssetConcurrency bounds the concurrent asset fetch fan-out.
	AssetConcurrency int `mapstructure:"asset_concurrency"`
	// MinStaticBytes is the dynamic-content heuristic size threshold.
	MinStaticBytes int `mapstructure:"min_static_bytes"`
	// UserAgent is sent on all outbound requests.
	UserAgent string `mapstructure:"user_agent"`
}

// Validate checks the clone configuration for usable values.
func (c *CloneConfig) Validate() error {
	if c.AssetConcurrency <= 0 {
		return fmt.Errorf("asset_concurrency must be positive, got %d", c.AssetConcurrency)
	}
	if c.StaticTimeout <= 0 || c.RenderTimeout <= 0 || c.AssetTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.WorkDir == "" || c.PublicDir == "" {
		return fmt.Errorf("work_dir and public_dir must be set")
	}
	return nil
}

// Load builds the configuration from defaults, the optional config file, and
// environment variables. cfgFile may be empty, in which case config.yaml is
// searched for in the working directory.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("GOCLONE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// The config file is optional; defaults and environment variables are
	// enough to run.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.App.Debug {
		cfg.Logger.Level = logger.DebugLevel
	}

	if err := cfg.Clone.Validate(); err != nil {
		return nil, fmt.Errorf("invalid clone config: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers production-safe defaults on the given Viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app", map[string]any{
		"name":        "goclone",
		"environment": "production",
		"debug":       false,
	})

	v.SetDefault("logger", map[string]any{
		"level":       "info",
		"development": false,
		"encoding":    "json",
	})

	v.SetDefault("server", map[string]any{
		"address":       DefaultServerAddress,
		"read_timeout":  "15s",
		"write_timeout": "15s",
		"idle_timeout":  "60s",
	})

	v.SetDefault("clone", map[string]any{
		"work_dir":          DefaultWorkDir,
		"public_dir":        DefaultPublicDir,
		"static_timeout":    DefaultStaticTimeout.String(),
		"render_timeout":    DefaultRenderTimeout.String(),
		"asset_timeout":     DefaultAssetTimeout.String(),
		"asset_concurrency": DefaultAssetConcurrency,
		"min_static_bytes":  DefaultMinStaticBytes,
		"user_agent":        DefaultUserAgent,
	})
}
