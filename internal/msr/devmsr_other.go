//go:build !linux

package msr

func newDevMSR(Options) Driver {
	return unsupportedDriver{}
}
