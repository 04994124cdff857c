package info

import (
	"context"
	"testing"

	"github.com/drblury/readyweaver/jsonutil"
	"github.com/drblury/readyweaver/responder"
)

func decodeProbePayload(t *testing.T, body []byte) probePayload {
	t.Helper()

	var payload probePayload
	if err := jsonutil.Unmarshal(body, &payload); err != nil {
		t.Fatalf("failed to decode probe payload: %v (body: %s)", err, string(body))
	}
	return payload
}

func decodeProblemDetails(t *testing.T, body []byte) responder.ProblemDetails {
	t.Helper()

	var problem responder.ProblemDetails
	if err := jsonutil.Unmarshal(body, &problem); err != nil {
		t.Fatalf("failed to decode problem details: %v (body: %s)", err, string(body))
	}
	return problem
}

func ok(name string) Check {
	return Check{Name: name, Probe: func(ctx context.Context) error { return nil }}
}
