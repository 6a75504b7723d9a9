package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings configures the event server. Values come from an optional JSON
// file first, and environment variables override whatever the file set.
type Settings struct {
	Addr          string   `json:"addr" env:"EVENTMASTER_ADDR"`
	LogLevel      string   `json:"log_level" env:"EVENTMASTER_LOG_LEVEL"`
	SessionKey    string   `json:"session_key" env:"EVENTMASTER_SESSION_KEY"`
	SessionCoder  string   `json:"session_coder" env:"EVENTMASTER_SESSION_CODER"`
	AdminPassword string   `json:"admin_password" env:"EVENTMASTER_ADMIN_PASSWORD"`
	RollDuration  Duration `json:"roll_duration" env:"EVENTMASTER_ROLL_DURATION"`
	RollTick      Duration `json:"roll_tick" env:"EVENTMASTER_ROLL_TICK"`
	DefaultPrize  string   `json:"default_prize" env:"EVENTMASTER_DEFAULT_PRIZE"`
	Seed          int64    `json:"seed" env:"EVENTMASTER_SEED"`
}

func defaults() Settings {
	return Settings{
		Addr:         ":3001",
		LogLevel:     "info",
		SessionCoder: "eventmaster",
		RollDuration: Duration{3 * time.Second},
		RollTick:     Duration{50 * time.Millisecond},
		DefaultPrize: "特等獎",
	}
}

// Load reads path (a missing file is fine) and then the environment.
func Load(path string) (Settings, error) {
	settings := defaults()

	if path != "" {
		bytes, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Settings{}, fmt.Errorf("read settings file: %w", err)
		default:
			if err := json.Unmarshal(bytes, &settings); err != nil {
				return Settings{}, fmt.Errorf("parse settings file %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(&settings); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}

	if _, err := settings.Level(); err != nil {
		return Settings{}, err
	}
	if settings.RollTick.Duration <= 0 || settings.RollDuration.Duration <= 0 {
		return Settings{}, fmt.Errorf("roll duration and tick must be positive, got %s and %s", settings.RollDuration, settings.RollTick)
	}

	return settings, nil
}

func (s Settings) Level() (slog.Level, error) {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", s.LogLevel)
	}
}

// Duration reads "3s" style strings from both the settings file and the
// environment.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
