package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds process-level configuration. User preferences live in the
// settings file (see models.Settings), not here.
type Config struct {
	Env          string // "development" or "production"
	LogLevel     string
	SettingsPath string // empty means <storage root>/appsettings.json
	Hotkey       bool   // register the global acknowledge hotkey
}

// Load reads configuration from environment variables and a .env file in the
// working directory, if present.
func Load() *Config {
	// A missing .env is fine; real environment variables win over it.
	_ = godotenv.Load()

	return &Config{
		Env:          strings.ToLower(getEnv("MAGICTIMER_ENV", "development")),
		LogLevel:     strings.ToLower(getEnv("MAGICTIMER_LOG_LEVEL", "info")),
		SettingsPath: getEnv("MAGICTIMER_SETTINGS_PATH", ""),
		Hotkey:       getEnvBool("MAGICTIMER_HOTKEY", true),
	}
}

// IsDevelopment returns true when running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
