package voltage

import (
	"fmt"
	"strconv"
	"strings"
)

// Plane identifies a hardware voltage domain.
type Plane uint8

// Voltage planes on Skylake-class platforms.
const (
	PlaneCPUCore Plane = iota
	PlaneGPUCore
	PlaneCPUCache
	PlaneSystemAgent
	PlaneGPUUncore
)

// PlaneCount is the number of addressable planes.
const PlaneCount = 5

var planeNames = [PlaneCount]string{
	"CPU core",
	"iGPU core/slice",
	"CPU cache",
	"System agent",
	"iGPU uncore/unslice",
}

var planeKeys = [PlaneCount]string{
	"cpu_core",
	"gpu_core",
	"cpu_cache",
	"system_agent",
	"gpu_uncore",
}

// Planes returns every plane in ascending order.
func Planes() []Plane {
	out := make([]Plane, PlaneCount)
	for i := range out {
		out[i] = Plane(i)
	}
	return out
}

// Valid reports whether p names an addressable plane.
func (p Plane) Valid() bool {
	return p < PlaneCount
}

// Name returns the human readable plane name.
func (p Plane) Name() string {
	if !p.Valid() {
		return "unknown"
	}
	return planeNames[p]
}

// Key returns the configuration key used for the plane in profiles.
func (p Plane) Key() string {
	if !p.Valid() {
		return ""
	}
	return planeKeys[p]
}

func (p Plane) String() string {
	return strconv.Itoa(int(p))
}

// ParsePlane accepts a plane number (0..4) or a plane key such as "cpu_core".
func ParsePlane(value string) (Plane, error) {
	trimmed := strings.TrimSpace(value)
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n < 0 || n >= PlaneCount {
			return 0, fmt.Errorf("plane number must be between 0 and %d, got %d", PlaneCount-1, n)
		}
		return Plane(n), nil
	}
	key := strings.ToLower(trimmed)
	for i, k := range planeKeys {
		if k == key {
			return Plane(i), nil
		}
	}
	return 0, fmt.Errorf("unknown plane %q", value)
}
