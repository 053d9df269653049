package host

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/BrandonKowalski/premo/pkg/premo"
	"github.com/BrandonKowalski/premo/pkg/premo/constants"
	"github.com/BrandonKowalski/premo/pkg/premo/saver"
)

// ErrInvalidConfig is returned for configuration values that cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// State backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config configures a host: where it logs and where the tree's state lives.
type Config struct {
	Log   LogConfig   `toml:"log"`
	State StateConfig `toml:"state"`
}

type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn or error
	Path  string `toml:"path"`  // Log file including filename; stderr only when empty
	Debug bool   `toml:"debug"` // Trace lifecycle transitions and navigation
}

type StateConfig struct {
	Backend string `toml:"backend"` // memory, file or sqlite
	Codec   string `toml:"codec"`   // toml, yaml or json
	Path    string `toml:"path"`    // State file or database; defaults under the user config dir
	Session string `toml:"session"` // SQLite session; a fresh one per process when empty
}

const defaultConfigTOML = `# premo host configuration

[log]
level = "info"
path = ""
debug = false

[state]
backend = "file"
codec = "json"
path = ""
session = "default"
`

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	cfg, err := ParseConfig([]byte(defaultConfigTOML))
	if err != nil {
		panic(err)
	}
	return cfg
}

// ParseConfig parses TOML on top of zero values and validates the result.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := decode(data, &cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the configuration at path, or at $PREMO_CONFIG when path
// is empty. A missing file yields DefaultConfig. PREMO_LOG_LEVEL and
// PREMO_DEBUG override the file; development mode (ENVIRONMENT=DEV) turns on
// debug tracing as well.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(constants.ConfigEnvVar)
	}

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			// Missing keys keep their defaults.
			if err := decode(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	if level := os.Getenv(constants.LogLevelEnvVar); level != "" {
		cfg.Log.Level = level
	}
	if os.Getenv(constants.InternalDebugEnvVar) != "" || constants.IsDevMode() {
		cfg.Log.Debug = true
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: unknown key %s", ErrInvalidConfig, undecoded[0])
	}
	return nil
}

func (c *Config) normalize() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.State.Backend = strings.ToLower(strings.TrimSpace(c.State.Backend))
	c.State.Codec = strings.ToLower(strings.TrimSpace(c.State.Codec))
	if c.State.Backend == "" {
		c.State.Backend = BackendMemory
	}
}

// Validate reports the first unusable value.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Log.Level)
	}
	switch c.State.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("%w: state backend %q", ErrInvalidConfig, c.State.Backend)
	}
	if _, err := saver.CodecFor(c.State.Codec); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// ApplyLogging configures the premo loggers. Call it once, before the first
// log line.
func (c Config) ApplyLogging() {
	if c.Log.Path != "" {
		premo.SetLogPath(c.Log.Path)
	}
	if c.Log.Level != "" {
		premo.SetRawLogLevel(c.Log.Level)
	}
	premo.SetDebug(c.Log.Debug)
}

// StatePath returns the configured state location, defaulting to
// <user config dir>/premo/state.<ext>.
func (c Config) StatePath() (string, error) {
	if c.State.Path != "" {
		return c.State.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}

	ext := "db"
	if c.State.Backend == BackendFile {
		codec, err := saver.CodecFor(c.State.Codec)
		if err != nil {
			return "", err
		}
		ext = codec.Extension()
	}
	return filepath.Join(dir, "premo", "state."+ext), nil
}

// OpenBackend creates the configured state backend. Nothing is loaded yet.
func (c Config) OpenBackend() (saver.Backend, error) {
	codec, err := saver.CodecFor(c.State.Codec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	switch c.State.Backend {
	case BackendMemory:
		return saver.NewMemoryBackend(), nil
	case BackendFile:
		path, err := c.StatePath()
		if err != nil {
			return nil, err
		}
		return saver.NewFileStateSaver(path, codec), nil
	case BackendSQLite:
		path, err := c.StatePath()
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
		return saver.NewSQLiteStateSaver(path, saver.SQLiteOptions{Session: c.State.Session, Codec: codec})
	default:
		return nil, fmt.Errorf("%w: state backend %q", ErrInvalidConfig, c.State.Backend)
	}
}
