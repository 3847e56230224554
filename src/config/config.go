package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ConfigPathEnvVar   = "SCREEN_HUD"
	DefaultModeEnvVar  = "DEFAULT_MODE"
	DefaultModePick    = "pick"
	DefaultModeRescale = "rescale"

	DefaultHotkey        = "Ctrl+Alt+R"
	DefaultTidbitTimeout = 2 * time.Second
)

type LoadOptions struct {
	EnvPathOverride     string
	DefaultModeOverride string
}

type Config struct {
	EnvPath           string
	EnableFileLogging bool
	Trace             bool
	Hotkey            string
	DefaultMode       string
	AllowWindowPick   bool
	TidbitTimeout     time.Duration
	ClipboardSnapshot bool
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) explicit override, 2) .env in the executable directory,
	// 3) the file named by SCREEN_HUD. Real environment variables win over
	// every file.
	envPath := resolveEnvPath(opts)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	tidbitTimeout := DefaultTidbitTimeout
	if v := os.Getenv("TIDBIT_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			tidbitTimeout = time.Duration(n) * time.Millisecond
		}
	}

	cfg := &Config{
		EnvPath:           envPath,
		EnableFileLogging: getBool("ENABLE_FILE_LOGGING", false),
		Trace:             getBool("HUD_TRACE", false),
		Hotkey:            getEnvWithDefault("HOTKEY", DefaultHotkey),
		DefaultMode:       resolveDefaultModeValue(opts),
		AllowWindowPick:   getBool("ALLOW_WINDOW_PICK", true),
		TidbitTimeout:     tidbitTimeout,
		ClipboardSnapshot: getBool("CLIPBOARD_SNAPSHOT", true),
	}

	return cfg, nil
}

func resolveEnvPath(opts LoadOptions) string {
	if p := strings.TrimSpace(opts.EnvPathOverride); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(ConfigPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return v
}

func resolveDefaultMode(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case DefaultModeRescale, "resize":
		return DefaultModeRescale
	default:
		return DefaultModePick
	}
}

func resolveDefaultModeValue(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.DefaultModeOverride); override != "" {
		return resolveDefaultMode(override)
	}
	return resolveDefaultMode(os.Getenv(DefaultModeEnvVar))
}
