// Package config loads runtime settings from an optional config file and
// YALLA_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/yalla-trip/concierge/provider"
	"github.com/yalla-trip/concierge/session"
)

// Settings is the full runtime configuration of the concierge service.
type Settings struct {
	AppName       string          `mapstructure:"app_name"`
	Debug         bool            `mapstructure:"debug"`
	ListenAddr    string          `mapstructure:"listen_addr"`
	ContextWindow int             `mapstructure:"context_window"`
	Provider      provider.Config `mapstructure:"provider"`
	Session       session.Config  `mapstructure:"session"`
}

// Defaults returns the built-in settings: a local Ollama backend and a
// SQLite session store in the working directory.
func Defaults() Settings {
	return Settings{
		AppName:       "Yalla Trip",
		ListenAddr:    ":8000",
		ContextWindow: 5,
		Provider:      provider.DefaultConfig(),
		Session:       session.DefaultConfig(),
	}
}

// Load reads settings from the given config file (optional: an empty path
// skips the file entirely) and the environment. Environment variables use
// the YALLA_ prefix with underscores for nesting, e.g.
// YALLA_PROVIDER_API_KEY overrides provider.api_key.
func Load(path string) (*Settings, error) {
	v := viper.New()

	defaults := Defaults()
	v.SetDefault("app_name", defaults.AppName)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("listen_addr", defaults.ListenAddr)
	v.SetDefault("context_window", defaults.ContextWindow)
	v.SetDefault("provider.backend", defaults.Provider.Backend)
	v.SetDefault("provider.model", defaults.Provider.Model)
	v.SetDefault("provider.api_key", defaults.Provider.APIKey)
	v.SetDefault("provider.base_url", defaults.Provider.BaseURL)
	v.SetDefault("provider.temperature", defaults.Provider.Temperature)
	v.SetDefault("session.backend", defaults.Session.Backend)
	v.SetDefault("session.path", defaults.Session.Path)
	v.SetDefault("session.cache_ttl", defaults.Session.CacheTTL)

	v.SetEnvPrefix("YALLA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &settings, nil
}
