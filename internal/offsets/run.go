package offsets

import (
	"context"
	"fmt"

	"voltctl/internal/voltage"
)

// Accessor is the register access needed to read and write offsets.
type Accessor interface {
	ReadMSR(index uint32) (eax, edx uint32, err error)
	WriteMSR(index uint32, eax, edx uint32) error
}

// PlaneError reports a register failure on one plane.
type PlaneError struct {
	Plane voltage.Plane
	Op    string
	Err   error
}

func (e *PlaneError) Error() string {
	return fmt.Sprintf("%s voltage offset plane %d: %v", e.Op, e.Plane, e.Err)
}

func (e *PlaneError) Unwrap() error {
	return e.Err
}

// Reading is the decoded offset of one plane.
type Reading struct {
	Plane    voltage.Plane
	OffsetMV float64
	Raw      uint32
}

// ReadPlane selects plane through the control word, then reads its offset.
func ReadPlane(a Accessor, plane voltage.Plane) (Reading, error) {
	if err := a.WriteMSR(voltage.OffsetMSR, 0, voltage.BuildControlWord(plane, false)); err != nil {
		return Reading{}, &PlaneError{Plane: plane, Op: "select", Err: err}
	}
	eax, _, err := a.ReadMSR(voltage.OffsetMSR)
	if err != nil {
		return Reading{}, &PlaneError{Plane: plane, Op: "read", Err: err}
	}
	return Reading{Plane: plane, OffsetMV: voltage.DecodeOffset(eax), Raw: eax}, nil
}

// Read reports every plane in ascending order to fn, stopping at the first
// failure. Readings delivered before the failure stand.
func Read(ctx context.Context, a Accessor, fn func(Reading) error) error {
	for _, plane := range voltage.Planes() {
		if err := ctx.Err(); err != nil {
			return err
		}
		reading, err := ReadPlane(a, plane)
		if err != nil {
			return err
		}
		if err := fn(reading); err != nil {
			return err
		}
	}
	return nil
}

// Apply writes every assignment of req in ascending plane order and calls fn
// after each successful write. The first failure stops the loop; earlier
// writes are not rolled back.
func Apply(ctx context.Context, a Accessor, req *Request, fn func(Assignment)) error {
	for _, asg := range req.Assignments() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.WriteMSR(voltage.OffsetMSR, asg.Word(), voltage.BuildControlWord(asg.Plane, true)); err != nil {
			return &PlaneError{Plane: asg.Plane, Op: "write", Err: err}
		}
		if fn != nil {
			fn(asg)
		}
	}
	return nil
}
