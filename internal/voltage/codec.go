package voltage

import (
	"errors"
	"fmt"
	"math"
)

const (
	// OffsetMSR is the MSR index of the voltage-offset mailbox.
	OffsetMSR uint32 = 0x150

	// MaxOffsetMV bounds the absolute offset accepted for any plane.
	MaxOffsetMV = 999.0

	countsPerMV   = 1.024
	offsetShift   = 21
	offsetMask    = 0xFFF
	signExtension = 0xFFFFF800
	controlHeader = 0x80000010
	writeBit      = 0x1
)

var (
	// ErrOffsetRange reports an offset outside [-MaxOffsetMV, MaxOffsetMV].
	ErrOffsetRange = errors.New("voltage offset out of range")
	// ErrOvervolt reports a positive offset without explicit opt-in.
	ErrOvervolt = errors.New("overvolting not allowed")
)

// EncodeOffset converts a millivolt offset into the register field.
// Values outside the 12-bit range wrap; callers validate first.
func EncodeOffset(mv float64) uint32 {
	counts := int32(math.Round(mv * countsPerMV))
	return (uint32(counts) & offsetMask) << offsetShift
}

// DecodeOffset extracts the signed offset from bits 21..31 of word.
func DecodeOffset(word uint32) float64 {
	raw := word >> offsetShift
	if word&0x80000000 != 0 {
		raw |= signExtension
	}
	return float64(int32(raw)) / countsPerMV
}

// Quantize returns the offset that will actually be stored for mv.
func Quantize(mv float64) float64 {
	return DecodeOffset(EncodeOffset(mv))
}

// BuildControlWord returns the EDX value addressing plane with the given intent.
func BuildControlWord(plane Plane, write bool) uint32 {
	word := uint32(controlHeader) | uint32(plane)<<8
	if write {
		word |= writeBit
	}
	return word
}

// ValidateOffset checks mv against limit (capped at MaxOffsetMV) and the
// overvolt policy.
func ValidateOffset(mv, limit float64, allowOvervolt bool) error {
	if limit <= 0 || limit > MaxOffsetMV {
		limit = MaxOffsetMV
	}
	if math.IsNaN(mv) || math.IsInf(mv, 0) {
		return fmt.Errorf("%w: %v is not a number", ErrOffsetRange, mv)
	}
	if math.Abs(mv) > limit {
		return fmt.Errorf("%w: voltage offset must be between -%g mV and %g mV", ErrOffsetRange, limit, limit)
	}
	if mv > 0 && !allowOvervolt {
		return fmt.Errorf("%w: use --allow-overvolt to enable overvolting", ErrOvervolt)
	}
	return nil
}
