package msr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"
)

const defaultDeviceDir = "/dev/cpu"

// devMSR drives the Linux msr module through /dev/cpu/<n>/msr. Register
// index is the file offset; every access transfers eight bytes.
type devMSR struct {
	path   string
	fd     int
	status Status
}

func newDevMSR(opts Options) Driver {
	dir := opts.DeviceDir
	if dir == "" {
		dir = defaultDeviceDir
	}
	return &devMSR{
		path:   filepath.Join(dir, strconv.Itoa(opts.CPU), "msr"),
		fd:     -1,
		status: StatusUnknown,
	}
}

func (d *devMSR) Initialize() error {
	fd, err := unix.Open(d.path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	switch {
	case err == nil:
		d.fd = fd
		d.status = StatusOK
		return nil
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENXIO):
		// The cpu directory exists but the msr module is not loaded.
		if _, statErr := os.Stat(filepath.Dir(d.path)); statErr == nil {
			d.status = StatusDriverNotLoaded
		} else {
			d.status = StatusDriverNotFound
		}
		return nil
	case errors.Is(err, unix.EIO):
		d.status = StatusUnsupportedPlatform
		return nil
	default:
		return fmt.Errorf("open %s: %w", d.path, err)
	}
}

func (d *devMSR) Deinitialize() {
	if d.fd >= 0 {
		_ = unix.Close(d.fd)
		d.fd = -1
	}
	d.status = StatusUnknown
}

func (d *devMSR) Status() Status {
	return d.status
}

func (d *devMSR) MSRSupported() bool {
	return d.fd >= 0
}

func (d *devMSR) ReadMSR(index uint32) (uint32, uint32, error) {
	var buf [8]byte
	n, err := unix.Pread(d.fd, buf[:], int64(index))
	if err != nil {
		return 0, 0, fmt.Errorf("rdmsr %#x: %w", index, err)
	}
	if n != len(buf) {
		return 0, 0, fmt.Errorf("rdmsr %#x: got %d bytes", index, n)
	}
	value := binary.LittleEndian.Uint64(buf[:])
	return uint32(value), uint32(value >> 32), nil
}

func (d *devMSR) WriteMSR(index uint32, eax, edx uint32) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(edx)<<32|uint64(eax))
	n, err := unix.Pwrite(d.fd, buf[:], int64(index))
	if err != nil {
		return fmt.Errorf("wrmsr %#x: %w", index, err)
	}
	if n != len(buf) {
		return fmt.Errorf("wrmsr %#x: wrote %d bytes", index, n)
	}
	return nil
}
