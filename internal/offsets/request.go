package offsets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"voltctl/internal/voltage"
)

const (
	flagCommit        = "--commit"
	flagAllowOvervolt = "--allow-overvolt"
)

var (
	// ErrUsage marks argument lists that do not form plane/value pairs.
	ErrUsage = errors.New("invalid arguments")
	// ErrInvalidPlane marks a plane outside the addressable range.
	ErrInvalidPlane = errors.New("invalid plane")
)

// Assignment is one requested plane offset.
type Assignment struct {
	Plane    voltage.Plane
	OffsetMV float64
}

// Word returns the encoded register value for the assignment.
func (a Assignment) Word() uint32 {
	return voltage.EncodeOffset(a.OffsetMV)
}

// Quantized returns the offset the hardware will actually hold.
func (a Assignment) Quantized() float64 {
	return voltage.DecodeOffset(a.Word())
}

// Policy bounds what a request may contain.
type Policy struct {
	// MaxOffsetMV caps the absolute offset; zero means the hardware bound.
	MaxOffsetMV float64
	// AllowOvervolt permits positive offsets without the command-line flag.
	AllowOvervolt bool
}

// Request is a validated set of plane offsets. Setting a plane twice keeps
// the last value.
type Request struct {
	Commit        bool
	AllowOvervolt bool

	values [voltage.PlaneCount]float64
	set    [voltage.PlaneCount]bool
}

// Set records mv for plane, replacing any earlier value.
func (r *Request) Set(plane voltage.Plane, mv float64) {
	if !plane.Valid() {
		return
	}
	r.values[plane] = mv
	r.set[plane] = true
}

// Empty reports whether no plane was requested.
func (r *Request) Empty() bool {
	for _, ok := range r.set {
		if ok {
			return false
		}
	}
	return true
}

// Assignments returns requested planes in ascending order.
func (r *Request) Assignments() []Assignment {
	out := make([]Assignment, 0, voltage.PlaneCount)
	for i, ok := range r.set {
		if ok {
			out = append(out, Assignment{Plane: voltage.Plane(i), OffsetMV: r.values[i]})
		}
	}
	return out
}

// ParseArgs parses "[--allow-overvolt] [--commit] (plane value)..." where the
// flags may appear anywhere and apply to the whole list.
func ParseArgs(args []string, policy Policy) (*Request, error) {
	req := &Request{AllowOvervolt: policy.AllowOvervolt}
	rest := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg {
		case flagCommit:
			req.Commit = true
		case flagAllowOvervolt:
			req.AllowOvervolt = true
		default:
			rest = append(rest, arg)
		}
	}

	for i := 0; i < len(rest); i++ {
		token := strings.TrimSpace(rest[i])
		if strings.HasPrefix(token, "--") {
			return nil, fmt.Errorf("%w: unknown flag %s", ErrUsage, token)
		}
		plane, err := parsePlaneToken(token)
		if err != nil {
			return nil, err
		}
		i++
		if i >= len(rest) {
			return nil, fmt.Errorf("%w: missing voltage offset for plane %d", ErrUsage, plane)
		}
		mv, err := strconv.ParseFloat(strings.TrimSpace(rest[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: voltage offset %q for plane %d is not a number", ErrUsage, rest[i], plane)
		}
		if err := voltage.ValidateOffset(mv, policy.MaxOffsetMV, req.AllowOvervolt); err != nil {
			return nil, err
		}
		req.Set(plane, mv)
	}
	return req, nil
}

// FromProfile builds a request from a plane-key to millivolt table.
func FromProfile(values map[string]float64, policy Policy) (*Request, error) {
	req := &Request{AllowOvervolt: policy.AllowOvervolt}
	for key, mv := range values {
		plane, err := voltage.ParsePlane(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPlane, err)
		}
		if err := voltage.ValidateOffset(mv, policy.MaxOffsetMV, policy.AllowOvervolt); err != nil {
			return nil, fmt.Errorf("plane %s: %w", key, err)
		}
		req.Set(plane, mv)
	}
	return req, nil
}

func parsePlaneToken(token string) (voltage.Plane, error) {
	if n, err := strconv.Atoi(token); err == nil {
		if n < 0 || n >= voltage.PlaneCount {
			return 0, fmt.Errorf("%w: plane number must be between 0 and %d, got %d", ErrInvalidPlane, voltage.PlaneCount-1, n)
		}
		return voltage.Plane(n), nil
	}
	plane, err := voltage.ParsePlane(token)
	if err != nil {
		return 0, fmt.Errorf("%w: expected a plane number, got %q", ErrUsage, token)
	}
	return plane, nil
}
