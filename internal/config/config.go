// Package config resolves ls-galaxy settings from defaults, a .env file,
// and GALAXY_* environment variables. Command-line flags are applied on
// top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/litescript/ls-galaxy/internal/galaxy"
)

// Environment variable names.
const (
	EnvServerURL = "GALAXY_SERVER_URL"
	EnvN         = "GALAXY_N"
	EnvD         = "GALAXY_D"
	EnvPhi       = "GALAXY_PHI"
	EnvWidth     = "GALAXY_WIDTH"
	EnvHeight    = "GALAXY_HEIGHT"
	EnvTimeout   = "GALAXY_TIMEOUT"
	EnvLoading   = "GALAXY_LOADING_LABEL"
	EnvLogLevel  = "GALAXY_LOG_LEVEL"
	EnvLogFile   = "GALAXY_LOG_FILE"
)

// Config holds all runtime settings.
type Config struct {
	ServerURL string

	// Initial contents of the n, d and phi inputs.
	N   string
	D   string
	Phi string

	// Viewport size in pixels.
	Width  int
	Height int

	// Timeout for the create request; zero waits forever.
	Timeout time.Duration

	LoadingLabel bool

	LogLevel string
	LogFile  string
}

// Default returns the built-in settings. Input defaults match what the
// galaxy server assumes when a value is missing.
func Default() Config {
	return Config{
		ServerURL:    galaxy.DefaultBaseURL,
		N:            "10000",
		D:            "100",
		Phi:          "0.5",
		Width:        160,
		Height:       80,
		LoadingLabel: true,
		LogLevel:     "info",
	}
}

// Load returns Default overridden by the given .env files (missing files
// are skipped) and then by the process environment.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv applies environment overrides read through getenv to Default.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	setString(&cfg.ServerURL, getenv(EnvServerURL))
	setString(&cfg.N, getenv(EnvN))
	setString(&cfg.D, getenv(EnvD))
	setString(&cfg.Phi, getenv(EnvPhi))
	setString(&cfg.LogLevel, getenv(EnvLogLevel))
	setString(&cfg.LogFile, getenv(EnvLogFile))

	if err := setInt(&cfg.Width, EnvWidth, getenv(EnvWidth)); err != nil {
		return Config{}, err
	}
	if err := setInt(&cfg.Height, EnvHeight, getenv(EnvHeight)); err != nil {
		return Config{}, err
	}
	if v := getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	if v := getenv(EnvLoading); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLoading, err)
		}
		cfg.LoadingLabel = b
	}

	return cfg, cfg.Validate()
}

// Validate checks settings that would make the viewer unusable.
// Input values are not checked; they are sent to the server as typed.
func (c Config) Validate() error {
	if c.ServerURL == "" {
		return errors.New("server URL is empty")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %v", c.Timeout)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, name, v string) error {
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}
