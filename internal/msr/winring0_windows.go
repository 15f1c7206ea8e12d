package msr

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

// OlsApi status codes returned by GetDllStatus.
const (
	olsDllNoError             = 0
	olsDllUnsupportedPlatform = 1
	olsDllDriverNotLoaded     = 2
	olsDllDriverNotFound      = 3
	olsDllDriverUnloaded      = 4
	olsDllDriverOnNetwork     = 5
)

// winRing0 binds the WinRing0 OlsApi exports.
type winRing0 struct {
	dll *windows.LazyDLL

	initializeOls   *windows.LazyProc
	deinitializeOls *windows.LazyProc
	getDllStatus    *windows.LazyProc
	isMsr           *windows.LazyProc
	rdmsr           *windows.LazyProc
	wrmsr           *windows.LazyProc

	loaded bool
}

func newWinRing0(opts Options) Driver {
	path := opts.DLLPath
	if path == "" {
		path = "WinRing0x64.dll"
		if runtime.GOARCH == "386" {
			path = "WinRing0.dll"
		}
	}
	dll := windows.NewLazyDLL(path)
	return &winRing0{
		dll:             dll,
		initializeOls:   dll.NewProc("InitializeOls"),
		deinitializeOls: dll.NewProc("DeinitializeOls"),
		getDllStatus:    dll.NewProc("GetDllStatus"),
		isMsr:           dll.NewProc("IsMsr"),
		rdmsr:           dll.NewProc("Rdmsr"),
		wrmsr:           dll.NewProc("Wrmsr"),
	}
}

func (w *winRing0) Initialize() error {
	if err := w.dll.Load(); err != nil {
		return fmt.Errorf("%w: load %s: %v", ErrDriverNotFound, w.dll.Name, err)
	}
	ret, _, _ := w.initializeOls.Call()
	if ret == 0 {
		return fmt.Errorf("InitializeOls returned false (status %s)", w.Status())
	}
	w.loaded = true
	return nil
}

func (w *winRing0) Deinitialize() {
	if !w.loaded {
		return
	}
	w.deinitializeOls.Call()
	w.loaded = false
}

func (w *winRing0) Status() Status {
	if w.getDllStatus.Find() != nil {
		return StatusDriverNotFound
	}
	ret, _, _ := w.getDllStatus.Call()
	switch ret {
	case olsDllNoError:
		return StatusOK
	case olsDllUnsupportedPlatform:
		return StatusUnsupportedPlatform
	case olsDllDriverNotLoaded, olsDllDriverUnloaded:
		return StatusDriverNotLoaded
	case olsDllDriverNotFound:
		return StatusDriverNotFound
	case olsDllDriverOnNetwork:
		return StatusDriverOnNetwork
	default:
		return StatusUnknown
	}
}

func (w *winRing0) MSRSupported() bool {
	ret, _, _ := w.isMsr.Call()
	return ret != 0
}

func (w *winRing0) ReadMSR(index uint32) (uint32, uint32, error) {
	var eax, edx uint32
	ret, _, _ := w.rdmsr.Call(uintptr(index), uintptr(unsafe.Pointer(&eax)), uintptr(unsafe.Pointer(&edx)))
	if ret == 0 {
		return 0, 0, fmt.Errorf("rdmsr %#x failed", index)
	}
	return eax, edx, nil
}

func (w *winRing0) WriteMSR(index uint32, eax, edx uint32) error {
	ret, _, _ := w.wrmsr.Call(uintptr(index), uintptr(eax), uintptr(edx))
	if ret == 0 {
		return fmt.Errorf("wrmsr %#x failed", index)
	}
	return nil
}
