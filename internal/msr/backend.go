package msr

import (
	"fmt"
	"strings"
)

// Backend names accepted by New.
const (
	BackendAuto     = "auto"
	BackendWinRing0 = "winring0"
	BackendDevMSR   = "devmsr"
)

// Options selects and configures a driver backend.
type Options struct {
	Backend string
	// CPU is the logical CPU whose msr device is used by the devmsr backend.
	CPU int
	// DeviceDir overrides /dev/cpu for the devmsr backend.
	DeviceDir string
	// DLLPath overrides the WinRing0 library location.
	DLLPath string
}

// New returns the driver for opts.Backend. "auto" or empty picks the native
// backend of the running platform.
func New(opts Options) (Driver, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" || backend == BackendAuto {
		backend = nativeBackend
	}
	switch backend {
	case BackendDevMSR:
		return newDevMSR(opts), nil
	case BackendWinRing0:
		return newWinRing0(opts), nil
	case "":
		return unsupportedDriver{}, nil
	default:
		return nil, fmt.Errorf("unknown driver backend %q", opts.Backend)
	}
}

// NativeBackend returns the backend "auto" resolves to on this platform, or
// an empty string when there is none.
func NativeBackend() string {
	return nativeBackend
}

// unsupportedDriver initializes without error and reports an unsupported
// platform, matching how the vendor library behaves on foreign systems.
type unsupportedDriver struct{}

func (unsupportedDriver) Initialize() error  { return nil }
func (unsupportedDriver) Deinitialize()      {}
func (unsupportedDriver) Status() Status     { return StatusUnsupportedPlatform }
func (unsupportedDriver) MSRSupported() bool { return false }

func (unsupportedDriver) ReadMSR(uint32) (uint32, uint32, error) {
	return 0, 0, ErrUnsupportedPlatform
}

func (unsupportedDriver) WriteMSR(uint32, uint32, uint32) error {
	return ErrUnsupportedPlatform
}
