//go:build !linux && !windows

package msr

const nativeBackend = ""
