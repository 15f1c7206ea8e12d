package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"voltctl/internal/msr"
	"voltctl/internal/testsupport"
)

type cliTestEnv struct {
	driver     *testsupport.FakeDriver
	configPath string
	baseDir    string
	options    []msr.Options
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("VOLTCTL_BACKEND", "")
	t.Setenv("VOLTCTL_LOG_LEVEL", "")

	configPath := testsupport.WriteConfig(t, filepath.Join(base, "config.toml"), cfg)
	return &cliTestEnv{
		driver:     testsupport.NewFakeDriver(),
		configPath: configPath,
		baseDir:    base,
	}
}

func (env *cliTestEnv) dependencies() dependencies {
	return dependencies{
		newDriver: func(opts msr.Options) (msr.Driver, error) {
			env.options = append(env.options, opts)
			return env.driver, nil
		},
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(env.dependencies())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n%s", needle, haystack)
	}
}
