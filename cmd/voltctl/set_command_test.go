package main

import (
	"errors"
	"fmt"
	"testing"

	"voltctl/internal/offsets"
	"voltctl/internal/testsupport"
	"voltctl/internal/voltage"
)

func TestSetRejectsInvalidPlaneWithoutAcquiring(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "set", "--commit", "5", "-100")
	if !errors.Is(err, offsets.ErrInvalidPlane) {
		t.Fatalf("expected ErrInvalidPlane, got %v", err)
	}
	if env.driver.Inits != 0 || len(env.options) != 0 {
		t.Fatalf("driver must not be touched, inits=%d factories=%d", env.driver.Inits, len(env.options))
	}
}

func TestSetWithoutCommitOnlyEchoes(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, env, "set", "0", "-100")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	requireContains(t, stdout, fmt.Sprintf("Set offset plane 0 to %.1f mV\n", voltage.Quantize(-100)))
	requireContains(t, stdout, "Changes not applied. Use --commit to apply changes.")
	if len(env.driver.Writes) != 0 || env.driver.Inits != 0 {
		t.Fatalf("dry run wrote to hardware: writes=%d inits=%d", len(env.driver.Writes), env.driver.Inits)
	}
}

func TestSetCommitWritesAscending(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, env, "set", "--commit", "1", "-50", "0", "-100")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	writes := env.driver.OffsetWrites()
	if len(writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(writes))
	}
	want := []testsupport.MSRWrite{
		{Index: voltage.OffsetMSR, EAX: 0xF3400000, EDX: voltage.BuildControlWord(voltage.PlaneCPUCore, true)},
		{Index: voltage.OffsetMSR, EAX: 0xF9A00000, EDX: voltage.BuildControlWord(voltage.PlaneGPUCore, true)},
	}
	for i := range want {
		if writes[i] != want[i] {
			t.Fatalf("write %d = %+v, want %+v", i, writes[i], want[i])
		}
	}
	requireContains(t, stdout, "Plane 0: applied\nPlane 1: applied\n")
	if env.driver.Deinits != 1 {
		t.Fatalf("expected driver released once, got %d", env.driver.Deinits)
	}
}

func TestSetOvervoltRequiresOptIn(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "set", "--commit", "0", "50")
	if !errors.Is(err, voltage.ErrOvervolt) {
		t.Fatalf("expected ErrOvervolt, got %v", err)
	}
	if len(env.driver.Writes) != 0 {
		t.Fatalf("rejected overvolt wrote %d times", len(env.driver.Writes))
	}

	if _, _, err := runCLI(t, env, "set", "--allow-overvolt", "--commit", "0", "50"); err != nil {
		t.Fatalf("set with --allow-overvolt: %v", err)
	}
	writes := env.driver.OffsetWrites()
	if len(writes) != 1 || writes[0].EAX != 0x06600000 {
		t.Fatalf("unexpected writes %+v", writes)
	}
}

func TestSetRejectsOutOfRange(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "set", "--allow-overvolt", "--commit", "0", "1000")
	if !errors.Is(err, voltage.ErrOffsetRange) {
		t.Fatalf("expected ErrOffsetRange, got %v", err)
	}
	if env.driver.Inits != 0 {
		t.Fatalf("driver initialized for rejected request")
	}
}

func TestSetHonorsConfiguredLimit(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithMaxOffset(150))

	_, _, err := runCLI(t, env, "set", "0", "-200")
	if !errors.Is(err, voltage.ErrOffsetRange) {
		t.Fatalf("expected ErrOffsetRange, got %v", err)
	}
}

func TestSetWithoutPairsPrintsUsage(t *testing.T) {
	env := setupCLITestEnv(t)

	_, stderr, err := runCLI(t, env, "set", "--commit")
	if !errors.Is(err, offsets.ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
	requireContains(t, stderr, "Usage: voltctl set")
	if env.driver.Inits != 0 {
		t.Fatalf("driver initialized without pairs")
	}
}

func TestSetMalformedPairsPrintUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing value", args: []string{"set", "0"}},
		{name: "non-numeric value", args: []string{"set", "0", "abc"}},
		{name: "non-integer plane", args: []string{"set", "1.5", "-10"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := setupCLITestEnv(t)

			_, stderr, err := runCLI(t, env, tc.args...)
			if !errors.Is(err, offsets.ErrUsage) {
				t.Fatalf("expected ErrUsage, got %v", err)
			}
			requireContains(t, stderr, "Usage: voltctl "+setUsage)
			if env.driver.Inits != 0 {
				t.Fatalf("driver initialized for malformed arguments")
			}
		})
	}
}

func TestSetValidationErrorsOmitUsage(t *testing.T) {
	env := setupCLITestEnv(t)

	_, stderr, err := runCLI(t, env, "set", "0", "1000")
	if !errors.Is(err, voltage.ErrOffsetRange) {
		t.Fatalf("expected ErrOffsetRange, got %v", err)
	}
	if stderr != "" {
		t.Fatalf("expected no usage for range error, got %q", stderr)
	}
}

func TestSetStopsAtFailingPlane(t *testing.T) {
	env := setupCLITestEnv(t)
	env.driver.FailWritePlane = 2

	stdout, _, err := runCLI(t, env, "set", "--commit", "0", "-10", "2", "-20", "3", "-30")
	if !errors.Is(err, testsupport.ErrInjected) {
		t.Fatalf("expected injected failure, got %v", err)
	}
	requireContains(t, stdout, "Plane 0: applied\n")
	if len(env.driver.OffsetWrites()) != 1 {
		t.Fatalf("expected writes to stop at plane 2, got %+v", env.driver.OffsetWrites())
	}
}

func TestSetAcceptsInlineGlobalFlags(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, env, "set", "--backend=devmsr", "--cpu", "3", "--commit", "cpu_cache", "-25"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(env.options) != 1 {
		t.Fatalf("expected one driver, got %d", len(env.options))
	}
	if got := env.options[0]; got.Backend != "devmsr" || got.CPU != 3 {
		t.Fatalf("unexpected driver options %+v", got)
	}
	writes := env.driver.OffsetWrites()
	if len(writes) != 1 || writes[0].EDX != voltage.BuildControlWord(voltage.PlaneCPUCache, true) {
		t.Fatalf("unexpected writes %+v", writes)
	}
}

func TestSetHelp(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, env, "set", "--help")
	if err != nil {
		t.Fatalf("set --help: %v", err)
	}
	requireContains(t, stdout, "--allow-overvolt")
}
