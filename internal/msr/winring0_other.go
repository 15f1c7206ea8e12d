//go:build !windows

package msr

func newWinRing0(Options) Driver {
	return unsupportedDriver{}
}
