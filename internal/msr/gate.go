package msr

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/gofrs/flock"

	"voltctl/internal/logging"
)

// Gate owns the initialized state of one Driver. Construct it once at the
// process entry point and pass it to whatever needs hardware access.
type Gate struct {
	mu       sync.Mutex
	driver   Driver
	lockPath string
	logger   *slog.Logger
	live     *Handle
}

// GateOption customizes a Gate.
type GateOption func(*Gate)

// WithLockFile serializes hardware access across processes through an
// advisory lock on path. An empty path disables locking.
func WithLockFile(path string) GateOption {
	return func(g *Gate) {
		g.lockPath = path
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *slog.Logger) GateOption {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGate wraps driver.
func NewGate(driver Driver, opts ...GateOption) *Gate {
	g := &Gate{driver: driver, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = logging.NewComponentLogger(g.logger, "msr")
	return g
}

// Acquire initializes the driver and verifies it can perform MSR access.
// On failure nothing stays acquired.
func (g *Gate) Acquire(ctx context.Context) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.live != nil {
		return nil, ErrAlreadyInitialized
	}

	var lock *flock.Flock
	if g.lockPath != "" {
		lock = flock.New(g.lockPath)
		ok, err := lock.TryLock()
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s belongs to another user (set driver.lock_path): %w", ErrLockDenied, g.lockPath, err)
		}
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", g.lockPath, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w (lock %s)", ErrBusy, g.lockPath)
		}
	}
	unlock := func() {
		if lock != nil {
			_ = lock.Unlock()
		}
	}

	if err := g.driver.Initialize(); err != nil {
		unlock()
		return nil, fmt.Errorf("%w: %w", ErrInitFailed, err)
	}
	if err := g.driver.Status().Err(); err != nil {
		g.driver.Deinitialize()
		unlock()
		return nil, err
	}
	if !g.driver.MSRSupported() {
		g.driver.Deinitialize()
		unlock()
		return nil, ErrMSRUnsupported
	}

	h := &Handle{gate: g, lock: lock}
	g.live = h
	g.logger.Debug("driver initialized", logging.Bool("locked", lock != nil))
	return h, nil
}

// Live reports whether a handle currently owns the driver.
func (g *Gate) Live() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.live != nil
}

func (g *Gate) release(h *Handle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.live != h {
		return
	}
	g.driver.Deinitialize()
	if h.lock != nil {
		if err := h.lock.Unlock(); err != nil {
			g.logger.Warn("driver lock release failed", logging.Error(err))
		}
	}
	g.live = nil
	g.logger.Debug("driver released")
}

// Handle is the capability to issue MSR reads and writes. It is valid until
// Close.
type Handle struct {
	gate   *Gate
	lock   *flock.Flock
	mu     sync.Mutex
	closed bool
}

// ReadMSR reads register index.
func (h *Handle) ReadMSR(index uint32) (uint32, uint32, error) {
	if h.isClosed() {
		return 0, 0, ErrReleased
	}
	return h.gate.driver.ReadMSR(index)
}

// WriteMSR writes register index.
func (h *Handle) WriteMSR(index uint32, eax, edx uint32) error {
	if h.isClosed() {
		return ErrReleased
	}
	return h.gate.driver.WriteMSR(index, eax, edx)
}

// Close deinitializes the driver. Calling Close more than once is a no-op.
func (h *Handle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()
	h.gate.release(h)
	return nil
}

func (h *Handle) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
