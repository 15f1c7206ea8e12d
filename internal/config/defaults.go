package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultBackend     = "auto"
	defaultLogFormat   = "console"
	defaultLogLevel    = "warn"
	defaultMaxOffsetMV = 999.0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Driver: Driver{
			Backend:  defaultBackend,
			LockPath: defaultLockPath(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Safety: Safety{
			MaxOffsetMV: defaultMaxOffsetMV,
		},
	}
}

// defaultLockPath prefers the per-user runtime directory so one user's lock
// file never blocks another user's invocation.
func defaultLockPath() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); dir != "" {
		return filepath.Join(dir, "voltctl.lock")
	}
	if uid := os.Getuid(); uid >= 0 {
		return filepath.Join(os.TempDir(), "voltctl-"+strconv.Itoa(uid)+".lock")
	}
	return filepath.Join(os.TempDir(), "voltctl.lock")
}
