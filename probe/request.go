package probe

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Request identifies the endpoint a readiness attempt fetches. The method is
// always GET and no body is sent.
type Request struct {
	URL string
}

// NewRequest joins baseURL and path and validates that the result is an
// absolute http or https URL.
func NewRequest(baseURL, path string) (Request, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Request{}, errors.New("probe request: base URL is required")
	}

	target := base
	if p := strings.TrimSpace(path); p != "" {
		target = base + "/" + strings.TrimLeft(p, "/")
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return Request{}, fmt.Errorf("probe request: invalid URL %q: %w", target, err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return Request{}, fmt.Errorf("probe request: URL %q must be absolute", target)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Request{}, fmt.Errorf("probe request: unsupported scheme %q", parsed.Scheme)
	}

	return Request{URL: parsed.String()}, nil
}

func (r Request) String() string {
	return "GET " + r.URL
}
