package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voltctl/internal/testsupport"
	"voltctl/internal/voltage"
)

func TestRootWithoutArgsPrintsHelp(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, env)
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	requireContains(t, stdout, "Usage:")
	requireContains(t, stdout, "show")
}

func TestApplyProfile(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithProfile("quiet", false, map[string]float64{
		"system_agent": -30,
		"cpu_core":     -80,
	}))

	stdout, _, err := runCLI(t, env, "apply", "quiet")
	if err != nil {
		t.Fatalf("apply dry run: %v", err)
	}
	requireContains(t, stdout, "Changes not applied")
	if len(env.driver.Writes) != 0 {
		t.Fatalf("dry run wrote %d times", len(env.driver.Writes))
	}

	stdout, _, err = runCLI(t, env, "apply", "quiet", "--commit")
	if err != nil {
		t.Fatalf("apply commit: %v", err)
	}
	requireContains(t, stdout, "Plane 0: applied\nPlane 3: applied\n")
	writes := env.driver.OffsetWrites()
	if len(writes) != 2 || writes[0].EAX != voltage.EncodeOffset(-80) || writes[1].EAX != voltage.EncodeOffset(-30) {
		t.Fatalf("unexpected writes %+v", writes)
	}
}

func TestApplyUnknownProfile(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithProfile("quiet", false, map[string]float64{"cpu_core": -10}))

	_, _, err := runCLI(t, env, "apply", "loud")
	if err == nil || !strings.Contains(err.Error(), "available: quiet") {
		t.Fatalf("expected profile lookup error, got %v", err)
	}
}

func TestPlanesListsKeys(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, env, "planes")
	if err != nil {
		t.Fatalf("planes: %v", err)
	}
	for _, plane := range voltage.Planes() {
		requireContains(t, stdout, plane.Key())
	}
	if env.driver.Inits != 0 {
		t.Fatalf("planes touched the driver")
	}
}

func TestCheckReportsReady(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithBackend("devmsr"))

	stdout, _, err := runCLI(t, env, "check")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, stdout)
	}
	requireContains(t, stdout, "[OK] ready")
	requireContains(t, stdout, env.configPath)
}

func TestCheckReportsDriverFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	env.driver.InitErr = testsupport.ErrInjected

	stdout, _, err := runCLI(t, env, "check")
	if !errors.Is(err, errCheckFailed) {
		t.Fatalf("expected errCheckFailed, got %v", err)
	}
	requireContains(t, stdout, "MSR driver:")
	requireContains(t, stdout, "[ERROR]")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "generated", "voltctl.toml")

	stdout, _, err := runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, stdout, "Wrote sample configuration")
	requireContains(t, stdout, "Safety: offsets limited to ±999 mV, overvolting refused")
	requireContains(t, stdout, "Profile balanced: cpu_core -80.1 mV, gpu_core -49.8 mV, cpu_cache -80.1 mV")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample not written: %v", err)
	}

	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected refusal to overwrite")
	}

	cmd := newRootCommand(env.dependencies())
	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", target, "config", "validate"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out.String(), "Config path: "+target+"\n")
	requireContains(t, out.String(), "Profile balanced: ")
	requireContains(t, out.String(), "Configuration valid")
}

func TestConfigValidateReportsMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)
	missing := filepath.Join(env.baseDir, "absent.toml")

	cmd := newRootCommand(env.dependencies())
	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", missing, "config", "validate"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out.String(), "(not found, defaults in use)")
	requireContains(t, out.String(), "±999 mV")
}

func TestInvalidConfigFailsCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[driver]\nbogus = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, err := runCLI(t, env, "show"); err == nil {
		t.Fatal("expected config error")
	}
	if env.driver.Inits != 0 {
		t.Fatalf("driver initialized with invalid config")
	}
}
