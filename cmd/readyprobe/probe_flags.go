package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/drblury/readyweaver/config"
)

// probeFlags override the retry and target sections of the configuration.
type probeFlags struct {
	url            string
	attempts       int
	backoff        time.Duration
	maxInterval    time.Duration
	attemptTimeout time.Duration
	retryOnStatus  bool
	expect         string
	json           bool
}

func (f *probeFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.url, "url", "", "Full URL to poll, replacing target.base_url and target.path")
	flags.IntVar(&f.attempts, "attempts", 0, "Maximum number of attempts (default from config, 10)")
	flags.DurationVar(&f.backoff, "backoff", 0, "Initial backoff, doubled after every failure (default 100ms, 0 retries immediately)")
	flags.DurationVar(&f.maxInterval, "max-interval", 0, "Upper bound for a single backoff wait")
	flags.DurationVar(&f.attemptTimeout, "attempt-timeout", 0, "Deadline for a single attempt")
	flags.BoolVar(&f.retryOnStatus, "retry-on-status", false, "Retry non-2xx responses instead of failing")
	flags.StringVar(&f.expect, "expect", "", "Body the target must serve")
	flags.BoolVar(&f.json, "json", false, "Print the result as JSON")
}

// apply copies every flag the user set onto cfg. Replacing the target with
// --url drops the configured body expectation unless --expect is also given.
func (f *probeFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Target.BaseURL = f.url
		cfg.Target.Path = ""
		cfg.Expect.Body = ""
	}
	if flags.Changed("attempts") {
		cfg.Retry.MaxAttempts = f.attempts
	}
	if flags.Changed("backoff") {
		cfg.Retry.InitialInterval = f.backoff.String()
	}
	if flags.Changed("max-interval") {
		cfg.Retry.MaxInterval = f.maxInterval.String()
	}
	if flags.Changed("attempt-timeout") {
		cfg.Retry.AttemptTimeout = f.attemptTimeout.String()
	}
	if flags.Changed("retry-on-status") {
		cfg.Retry.RetryOnStatus = f.retryOnStatus
	}
	if flags.Changed("expect") {
		cfg.Expect.Body = f.expect
	}
}
