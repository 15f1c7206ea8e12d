package preflight

import (
	"context"

	"voltctl/internal/config"
	"voltctl/internal/msr"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for cfg against gate.
func RunAll(ctx context.Context, cfg *config.Config, gate *msr.Gate) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckBackend(cfg.Driver.Backend)}

	if cfg.Driver.LockPath != "" {
		results = append(results, CheckLockPath(cfg.Driver.LockPath))
	}

	driver, mailbox := CheckDriver(ctx, gate)
	results = append(results, driver)
	if driver.Passed {
		results = append(results, mailbox)
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
