package testsupport

import (
	"errors"
	"sync"

	"voltctl/internal/msr"
)

// ErrInjected is returned by FakeDriver for injected failures.
var ErrInjected = errors.New("injected failure")

// MSRWrite records one WriteMSR call.
type MSRWrite struct {
	Index uint32
	EAX   uint32
	EDX   uint32
}

// FakeDriver emulates the 0x150 voltage-offset mailbox in memory. A write
// with a read-intent control word in EDX selects the plane returned by the
// next read; a write-intent control word stores EAX for that plane.
type FakeDriver struct {
	mu sync.Mutex

	InitErr     error
	StatusValue msr.Status
	NoMSR       bool
	// FailReadPlane makes the read of that plane fail. Negative disables.
	FailReadPlane int
	// FailWritePlane makes the write-intent access of that plane fail.
	FailWritePlane int

	Offsets  [8]uint32
	Writes   []MSRWrite
	Reads    int
	Inits    int
	Deinits  int
	selected int
}

// NewFakeDriver returns a healthy fake with no injected failures.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{FailReadPlane: -1, FailWritePlane: -1}
}

func (f *FakeDriver) Initialize() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Inits++
	return f.InitErr
}

func (f *FakeDriver) Deinitialize() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deinits++
}

func (f *FakeDriver) Status() msr.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.StatusValue
}

func (f *FakeDriver) MSRSupported() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.NoMSR
}

func (f *FakeDriver) ReadMSR(index uint32) (uint32, uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reads++
	if f.selected == f.FailReadPlane {
		return 0, 0, ErrInjected
	}
	return f.Offsets[f.selected&7], 0, nil
}

func (f *FakeDriver) WriteMSR(index uint32, eax, edx uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	plane := int((edx >> 8) & 0xF)
	write := edx&1 == 1
	if write && plane == f.FailWritePlane {
		return ErrInjected
	}
	f.Writes = append(f.Writes, MSRWrite{Index: index, EAX: eax, EDX: edx})
	f.selected = plane
	if write {
		f.Offsets[plane&7] = eax
	}
	return nil
}

// OffsetWrites returns only the write-intent accesses, in order.
func (f *FakeDriver) OffsetWrites() []MSRWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []MSRWrite
	for _, w := range f.Writes {
		if w.EDX&1 == 1 {
			out = append(out, w)
		}
	}
	return out
}
