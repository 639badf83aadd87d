// Package config loads server configuration from the environment, an
// optional .env file, and the per-user settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string   `mapstructure:"PORT"`
	Env           string   `mapstructure:"ENV"`
	CORSOrigins   []string `mapstructure:"CORS_ORIGINS"`
	MaxVCFSizeMB  int      `mapstructure:"MAX_VCF_SIZE_MB"`
	Workers       int      `mapstructure:"ANALYSIS_WORKERS"`
	ParserBackend string   `mapstructure:"PARSER_BACKEND"`
	AuditDBPath   string   `mapstructure:"AUDIT_DB_PATH"`
	GeminiAPIKey  string   `mapstructure:"GEMINI_API_KEY"`
	StaticDir     string   `mapstructure:"STATIC_DIR"`
}

// Keys are the settings read at startup. Precedence, lowest first:
// built-in defaults, the per-user settings file, .env, the environment.
var Keys = []string{
	"PORT", "ENV", "CORS_ORIGINS", "MAX_VCF_SIZE_MB", "ANALYSIS_WORKERS",
	"PARSER_BACKEND", "AUDIT_DB_PATH", "GEMINI_API_KEY", "STATIC_DIR",
}

// UserSettingsPath is the per-user settings file managed by the config
// subcommand.
func UserSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".pharmaguard.yaml"), nil
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("MAX_VCF_SIZE_MB", 5)
	v.SetDefault("ANALYSIS_WORKERS", 0) // 0 = one per CPU
	v.SetDefault("PARSER_BACKEND", "stream")
	v.SetDefault("AUDIT_DB_PATH", "") // "" = in-memory
	v.SetDefault("STATIC_DIR", "")

	// Per-user settings sit above the defaults, below .env and env vars.
	applyUserSettings(v)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range Keys {
		_ = v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = splitOrigins(origins)
		}
	}
	if cfg.MaxVCFSizeMB <= 0 {
		return nil, fmt.Errorf("MAX_VCF_SIZE_MB must be positive, got %d", cfg.MaxVCFSizeMB)
	}

	return cfg, nil
}

// applyUserSettings layers the per-user settings file onto the defaults.
// A missing or unreadable file just means no settings.
func applyUserSettings(v *viper.Viper) {
	path, err := UserSettingsPath()
	if err != nil {
		return
	}
	u := viper.New()
	u.SetConfigFile(path)
	if err := u.ReadInConfig(); err != nil {
		return
	}
	for _, key := range u.AllKeys() {
		v.SetDefault(key, u.Get(key))
	}
}

// MaxVCFBytes returns the upload size limit in bytes.
func (c *Config) MaxVCFBytes() int64 {
	return int64(c.MaxVCFSizeMB) << 20
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
