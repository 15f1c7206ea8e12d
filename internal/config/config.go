package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Driver selects and configures the MSR driver backend.
type Driver struct {
	Backend   string `toml:"backend"`
	CPU       int    `toml:"cpu"`
	DeviceDir string `toml:"device_dir"`
	DLLPath   string `toml:"dll_path"`
	LockPath  string `toml:"lock_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Safety bounds what set and apply will accept.
type Safety struct {
	// MaxOffsetMV tightens the accepted absolute offset. It can never exceed
	// the hardware bound of 999 mV.
	MaxOffsetMV float64 `toml:"max_offset_mv"`
	// AllowOvervolt implies --allow-overvolt on every set.
	AllowOvervolt bool `toml:"allow_overvolt"`
}

// Profile is a named set of plane offsets keyed by plane key (cpu_core,
// gpu_core, cpu_cache, system_agent, gpu_uncore).
type Profile struct {
	AllowOvervolt bool               `toml:"allow_overvolt"`
	Offsets       map[string]float64 `toml:"offsets"`
}

// Config encapsulates all configuration values for voltctl.
//
// Configuration sections:
//   - Driver: backend selection and device locations
//   - Logging: log format, level, and optional file
//   - Safety: offset limit and overvolt policy
//   - Profiles: named offset sets for the apply command
type Config struct {
	Driver   Driver             `toml:"driver"`
	Logging  Logging            `toml:"logging"`
	Safety   Safety             `toml:"safety"`
	Profiles map[string]Profile `toml:"profiles"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/voltctl/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("voltctl.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Profile returns the named profile.
func (c *Config) Profile(name string) (Profile, error) {
	profile, ok := c.Profiles[strings.TrimSpace(name)]
	if !ok {
		names := c.ProfileNames()
		if len(names) == 0 {
			return Profile{}, fmt.Errorf("profile %q not found; no profiles are configured", name)
		}
		return Profile{}, fmt.Errorf("profile %q not found (available: %s)", name, strings.Join(names, ", "))
	}
	return profile, nil
}

// ProfileNames returns configured profile names in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
