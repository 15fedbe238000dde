// Package config provides the application configuration and the persisted
// user settings.
//
// Static configuration (country, calculation method, API URL, paths) comes
// from environment variables with defaults; the last-selected city is
// persisted across restarts in a small JSON settings file under the data
// directory.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const settingsFileName = "settings.json"

var validate = validator.New()

// Config holds the static application configuration.
type Config struct {
	DefaultCity string `envconfig:"DEFAULT_CITY" default:"Kuala Lumpur" validate:"required"`
	Country     string `envconfig:"COUNTRY" default:"Malaysia" validate:"required"`
	Method      int    `envconfig:"CALCULATION_METHOD" default:"3" validate:"min=0,max=23"` // 3 = Muslim World League
	APIBaseURL  string `envconfig:"API_URL" default:"https://api.aladhan.com/v1" validate:"required,url"`

	DataDir string `envconfig:"DATA_DIR"`
	LogFile string `envconfig:"LOGFILE"`

	NotifyLeadMinutes int `envconfig:"NOTIFY_LEAD_MINUTES" default:"10" validate:"min=1,max=120"`

	ScreenWidth  int `envconfig:"SCREEN_WIDTH" default:"1920" validate:"min=1"`
	ScreenHeight int `envconfig:"SCREEN_HEIGHT" default:"1080" validate:"min=1"`

	// SingleInstancePort is bound on localhost purely as a mutex.
	SingleInstancePort int `envconfig:"SINGLE_INSTANCE_PORT" default:"47832" validate:"min=1024,max=65535"`

	GithubRepo string `envconfig:"GITHUB_REPO" default:"amjadrushdan/waktu-solat"`
}

// Cities maps API city keys to the display name shown on the wallpaper.
var Cities = map[string]string{
	"Kuala Lumpur":     "Kuala Lumpur",
	"George Town":      "Penang",
	"Johor Bahru":      "Johor Bahru",
	"Kuching":          "Kuching",
	"Kota Kinabalu":    "Kota Kinabalu",
	"Ipoh":             "Ipoh",
	"Melaka":           "Melaka",
	"Shah Alam":        "Shah Alam",
	"Kuantan":          "Kuantan",
	"Kota Bharu":       "Kota Bharu",
	"Kuala Terengganu": "Kuala Terengganu",
	"Alor Setar":       "Alor Setar",
	"Seremban":         "Seremban",
	"Putrajaya":        "Putrajaya",
}

// DisplayName returns the wallpaper display name for a city key.
func DisplayName(city string) string {
	if name, ok := Cities[city]; ok {
		return name
	}
	return city
}

// Load reads the configuration from environment variables and applies
// defaults, then validates it. DataDir falls back to ~/.local/share/waktu-solat
// and is created on load.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "reading environment")
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "cannot determine home directory")
		}
		cfg.DataDir = filepath.Join(home, ".local", "share", "waktu-solat")
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "cannot create data directory %s", cfg.DataDir)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// SettingsPath returns the full path of the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.DataDir, settingsFileName)
}

// WallpaperPath returns where the rendered wallpaper image is written.
func (c *Config) WallpaperPath() string {
	return filepath.Join(c.DataDir, "wallpaper.png")
}

// Settings holds the user preferences persisted across restarts.
type Settings struct {
	City string `json:"city,omitempty"`
}

// LoadSettings reads the settings file. A missing or corrupt file yields
// empty settings, never an error.
func (c *Config) LoadSettings() Settings {
	var s Settings
	data, err := os.ReadFile(c.SettingsPath())
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s); err != nil {
		log.Warn().Err(err).Msg("settings file is corrupt; using defaults")
		return Settings{}
	}
	return s
}

// SaveSettings writes the settings file. Failure is logged and dropped.
func (c *Config) SaveSettings(s Settings) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal settings")
		return
	}
	data = append(data, '\n')

	if err := os.WriteFile(c.SettingsPath(), data, 0o644); err != nil {
		log.Error().Err(err).Str("path", c.SettingsPath()).Msg("failed to save settings")
	}
}

// City returns the effective city: the saved preference when it is a known
// city, otherwise the configured default.
func (c *Config) City() string {
	s := c.LoadSettings()
	if s.City != "" {
		if _, ok := Cities[s.City]; ok {
			return s.City
		}
		log.Warn().Str("city", s.City).Msg("saved city is not in the known city list; using default")
	}
	return c.DefaultCity
}
