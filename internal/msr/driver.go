package msr

import (
	"errors"
	"fmt"
)

// Status mirrors the driver library status query.
type Status int

const (
	StatusOK Status = iota
	StatusUnsupportedPlatform
	StatusDriverNotLoaded
	StatusDriverNotFound
	StatusDriverOnNetwork
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUnsupportedPlatform:
		return "unsupported platform"
	case StatusDriverNotLoaded:
		return "driver not loaded"
	case StatusDriverNotFound:
		return "driver not found"
	case StatusDriverOnNetwork:
		return "driver on network path"
	default:
		return "unknown"
	}
}

// Err returns the sentinel matching s, or nil for StatusOK.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusUnsupportedPlatform:
		return ErrUnsupportedPlatform
	case StatusDriverNotLoaded:
		return ErrDriverNotLoaded
	case StatusDriverNotFound:
		return ErrDriverNotFound
	case StatusDriverOnNetwork:
		return ErrDriverOnNetwork
	default:
		return fmt.Errorf("%w (status %d)", ErrUnknownStatus, int(s))
	}
}

var (
	ErrUnsupportedPlatform = errors.New("platform not supported")
	ErrDriverNotLoaded     = errors.New("driver not loaded")
	ErrDriverNotFound      = errors.New("driver not found")
	ErrDriverOnNetwork     = errors.New("start this application on a local drive")
	ErrUnknownStatus       = errors.New("unknown driver error")
	ErrMSRUnsupported      = errors.New("MSR control not supported")
	ErrAlreadyInitialized  = errors.New("driver already initialized")
	ErrInitFailed          = errors.New("unknown error in initializing driver")
	ErrBusy                = errors.New("driver in use by another process")
	ErrLockDenied          = errors.New("lock file not accessible")
	ErrReleased            = errors.New("driver handle already released")
)

// Driver is the raw ring-0 MSR capability. Implementations do not guard
// against double initialization; Gate does.
type Driver interface {
	// Initialize loads or opens the driver.
	Initialize() error
	// Deinitialize releases whatever Initialize acquired.
	Deinitialize()
	// Status reports whether the driver is usable after Initialize.
	Status() Status
	// MSRSupported reports whether the platform allows MSR access.
	MSRSupported() bool
	// ReadMSR returns the low (EAX) and high (EDX) halves of register index.
	ReadMSR(index uint32) (eax, edx uint32, err error)
	// WriteMSR writes EAX and EDX to register index.
	WriteMSR(index uint32, eax, edx uint32) error
}
