// Package msr gives scoped access to a kernel-mode MSR driver.
//
// A Driver is the raw vendor capability (init, status, read, write). A Gate
// owns the "driver initialized" state for the process and hands out at most
// one live Handle at a time; closing the Handle deinitializes the driver.
// Backends: WinRing0 on Windows, the msr character device on Linux, and a
// stub reporting an unsupported platform everywhere else.
package msr
