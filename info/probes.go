package info

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type probePayload struct {
	Status string   `json:"status"`
	Checks []string `json:"checks,omitempty"`
}

func (ih *InfoHandler) respondProbe(w http.ResponseWriter, r *http.Request, statusCode int, state string, checks ...string) {
	payload := probePayload{Status: state}
	if len(checks) > 0 {
		payload.Checks = append(payload.Checks, checks...)
	}
	ih.WriteJSON(w, statusCode, payload)
}

// runChecks executes every check under one shared deadline and stops at the
// first failure. It returns the names of the checks that passed.
func (ih *InfoHandler) runChecks(ctx context.Context, checks []Check) ([]string, error) {
	if len(checks) == 0 {
		return nil, nil
	}

	timeout := ih.probeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	passed := make([]string, 0, len(checks))
	for idx, check := range checks {
		name := checkName(idx, check)
		if err := check.Probe(checkCtx); err != nil {
			switch {
			case errors.Is(err, context.DeadlineExceeded):
				return passed, fmt.Errorf("check %s timed out after %s", name, timeout)
			case errors.Is(err, context.Canceled):
				return passed, fmt.Errorf("check %s was cancelled", name)
			default:
				return passed, fmt.Errorf("check %s failed: %w", name, err)
			}
		}
		passed = append(passed, name)
	}
	return passed, nil
}

func checkName(idx int, check Check) string {
	if check.Name != "" {
		return check.Name
	}
	return fmt.Sprintf("#%d", idx+1)
}

func filterChecks(checks []Check) []Check {
	filtered := make([]Check, 0, len(checks))
	for _, check := range checks {
		if check.Probe != nil {
			filtered = append(filtered, check)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}
