package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"voltctl/internal/msr"
	"voltctl/internal/offsets"
	"voltctl/internal/voltage"
)

// CheckBackend resolves the configured backend for this platform.
func CheckBackend(backend string) Result {
	const name = "Driver backend"
	if backend == "" || backend == msr.BackendAuto {
		native := msr.NativeBackend()
		if native == "" {
			return Result{Name: name, Detail: "auto (no native backend on this platform)"}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("auto (%s)", native)}
	}
	return Result{Name: name, Passed: true, Detail: backend}
}

// CheckLockPath verifies the lock file's directory exists and is writable.
func CheckLockPath(path string) Result {
	const name = "Lock file"
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: directory does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s is not a directory)", path, dir)}
	}
	probe, err := os.CreateTemp(dir, ".voltctl-probe-*")
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: directory not writable: %v)", path, err)}
	}
	probe.Close()
	_ = os.Remove(probe.Name())
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", path)}
}

// CheckDriver acquires the driver, reads plane 0 through the offset mailbox,
// and releases the driver. It returns the driver result and the mailbox
// result; the latter is meaningful only when the driver passed.
func CheckDriver(ctx context.Context, gate *msr.Gate) (Result, Result) {
	driver := Result{Name: "MSR driver"}
	mailbox := Result{Name: "Voltage mailbox"}

	handle, err := gate.Acquire(ctx)
	if err != nil {
		driver.Detail = summarizeDriverError(err)
		return driver, mailbox
	}
	defer handle.Close()
	driver.Passed = true
	driver.Detail = "initialized, MSR access supported"

	reading, err := offsets.ReadPlane(handle, voltage.PlaneCPUCore)
	if err != nil {
		mailbox.Detail = err.Error()
		return driver, mailbox
	}
	mailbox.Passed = true
	mailbox.Detail = fmt.Sprintf("plane 0 reads %.1f mV", reading.OffsetMV)
	return driver, mailbox
}

func summarizeDriverError(err error) string {
	switch {
	case errors.Is(err, msr.ErrDriverNotLoaded):
		return "driver not loaded (on Linux: modprobe msr; on Windows: run as administrator)"
	case errors.Is(err, msr.ErrDriverNotFound):
		return "driver not found (install WinRing0 next to voltctl or load the msr module)"
	case errors.Is(err, msr.ErrBusy):
		return "driver in use by another voltctl process"
	case errors.Is(err, msr.ErrLockDenied):
		return "lock file belongs to another user; set driver.lock_path to a file you own"
	default:
		return err.Error()
	}
}
