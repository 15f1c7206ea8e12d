package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"voltctl/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose lock file lives in a per-test temp
// directory. It applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Driver.LockPath = filepath.Join(base, "voltctl.lock")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBackend sets the driver backend on the test config.
func WithBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Driver.Backend = backend
	}
}

// WithMaxOffset tightens the safety limit on the test config.
func WithMaxOffset(mv float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Safety.MaxOffsetMV = mv
	}
}

// WithProfile adds a named offset profile to the test config.
func WithProfile(name string, allowOvervolt bool, offsets map[string]float64) ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.Profiles == nil {
			b.cfg.Profiles = make(map[string]config.Profile)
		}
		b.cfg.Profiles[name] = config.Profile{AllowOvervolt: allowOvervolt, Offsets: offsets}
	}
}

// WriteConfig encodes cfg as TOML at path and returns path.
func WriteConfig(t testing.TB, path string, cfg *config.Config) string {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Driver.LockPath)
}
