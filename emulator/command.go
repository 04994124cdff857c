package emulator

import (
	"errors"
	"strings"
	"time"
)

// DefaultGracePeriod is how long Stop waits after SIGTERM before killing.
const DefaultGracePeriod = 5 * time.Second

// Command describes the process to start.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env entries are appended to the parent environment.
	Env []string
	// GracePeriod defaults to DefaultGracePeriod.
	GracePeriod time.Duration
}

func (c Command) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("emulator: command name is required")
	}
	if c.GracePeriod < 0 {
		return errors.New("emulator: grace period must not be negative")
	}
	return nil
}

func (c Command) gracePeriod() time.Duration {
	if c.GracePeriod == 0 {
		return DefaultGracePeriod
	}
	return c.GracePeriod
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}
