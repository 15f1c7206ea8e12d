package voltage

import (
	"errors"
	"math"
	"testing"
)

func TestEncodeDecodeIntegerRoundTrip(t *testing.T) {
	step := 1 / countsPerMV
	for n := -998; n <= 998; n++ {
		got := DecodeOffset(EncodeOffset(float64(n)))
		if diff := math.Abs(got - float64(n)); diff > step/2+1e-9 {
			t.Fatalf("round trip of %d mV drifted to %v (diff %v)", n, got, diff)
		}
	}
}

func TestEncodeOfDecodedWordIsStable(t *testing.T) {
	for counts := int32(-1024); counts <= 1023; counts++ {
		word := (uint32(counts) & offsetMask) << offsetShift
		if got := EncodeOffset(DecodeOffset(word)); got != word {
			t.Fatalf("counts %d: re-encoded %#08x, want %#08x", counts, got, word)
		}
	}
}

func TestQuantizeIsIdempotent(t *testing.T) {
	for _, mv := range []float64{-999, -500.3, -100, -50.25, -0.4, 0, 0.7, 12.5, 999} {
		q := Quantize(mv)
		if again := Quantize(q); again != q {
			t.Fatalf("Quantize(%v)=%v but Quantize(%v)=%v", mv, q, q, again)
		}
		if math.Abs(q-mv) > 0.5/countsPerMV+1e-9 {
			t.Fatalf("Quantize(%v)=%v exceeds half a step", mv, q)
		}
	}
}

func TestEncodeOffsetKnownValues(t *testing.T) {
	tests := []struct {
		mv   float64
		want uint32
	}{
		{mv: 0, want: 0},
		{mv: -100, want: 0xF3400000},
		{mv: -50, want: 0xF9A00000},
		{mv: 50, want: 0x06600000},
		{mv: -999, want: 0x80200000},
		{mv: 999, want: 0x7FE00000},
	}
	for _, tt := range tests {
		if got := EncodeOffset(tt.mv); got != tt.want {
			t.Errorf("EncodeOffset(%v) = %#08x, want %#08x", tt.mv, got, tt.want)
		}
	}
}

func TestDecodeOffsetSignExtends(t *testing.T) {
	if got := DecodeOffset(0xF3400000); math.Abs(got-(-102/countsPerMV)) > 1e-9 {
		t.Fatalf("negative decode = %v", got)
	}
	if got := DecodeOffset(0x06600000); math.Abs(got-(51/countsPerMV)) > 1e-9 {
		t.Fatalf("positive decode = %v", got)
	}
	// Reserved low bits are ignored.
	if got := DecodeOffset(0xF34FFFFF); got != DecodeOffset(0xF3400000) {
		t.Fatalf("low bits leaked into decode: %v", got)
	}
}

func TestNegativeOffsetsEncodeWithSignBit(t *testing.T) {
	for _, mv := range []float64{-100, -50, -1} {
		if EncodeOffset(mv)&0x80000000 == 0 {
			t.Fatalf("expected sign bit for %v mV", mv)
		}
	}
	if EncodeOffset(50)&0x80000000 != 0 {
		t.Fatal("unexpected sign bit for positive offset")
	}
}

func TestBuildControlWordOnlyTouchesPlaneAndWriteBits(t *testing.T) {
	const allowed = uint32(0x00000F01)
	for _, plane := range Planes() {
		for _, write := range []bool{false, true} {
			word := BuildControlWord(plane, write)
			if diff := word ^ controlHeader; diff&^allowed != 0 {
				t.Fatalf("plane %d write=%v: unexpected bits %#08x", plane, write, diff)
			}
			if got := Plane((word >> 8) & 0xF); got != plane {
				t.Fatalf("plane field = %d, want %d", got, plane)
			}
			if (word&writeBit == 1) != write {
				t.Fatalf("write bit mismatch for plane %d write=%v", plane, write)
			}
		}
	}
	if got := BuildControlWord(PlaneGPUCore, true); got != 0x80000111 {
		t.Fatalf("BuildControlWord(1, true) = %#08x", got)
	}
}

func TestValidateOffset(t *testing.T) {
	tests := []struct {
		name    string
		mv      float64
		allow   bool
		limit   float64
		wantErr error
	}{
		{name: "undervolt", mv: -100},
		{name: "boundary", mv: -999},
		{name: "too low", mv: -1000, wantErr: ErrOffsetRange},
		{name: "too high with opt in", mv: 1000, allow: true, wantErr: ErrOffsetRange},
		{name: "overvolt rejected", mv: 50, wantErr: ErrOvervolt},
		{name: "overvolt allowed", mv: 50, allow: true},
		{name: "tightened limit", mv: -150, limit: 125, wantErr: ErrOffsetRange},
		{name: "limit cannot loosen", mv: -1200, limit: 2000, wantErr: ErrOffsetRange},
		{name: "nan", mv: math.NaN(), wantErr: ErrOffsetRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOffset(tt.mv, tt.limit, tt.allow)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
