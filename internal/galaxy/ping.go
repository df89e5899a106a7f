// Package galaxy probes Galaxy server reachability before publish operations.
package galaxy

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/peaqe/orion-utils/pkg/errs"
)

// DefaultTimeout bounds a single reachability probe.
const DefaultTimeout = 10 * time.Second

// Ping performs an HTTP GET against the server's API root and verifies a 2xx
// response. It catches dead or misconfigured servers before an upload is
// attempted.
func Ping(ctx context.Context, serverURL string, timeout time.Duration) error {
	if serverURL == "" {
		return errs.Newf(errs.ErrServerUnreachable, "galaxy.ping", "server url is required")
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > 5 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiRoot(serverURL), nil)
	if err != nil {
		return errs.Wrap(err, errs.ErrServerUnreachable, "galaxy.ping.request")
	}
	req.Header.Set("User-Agent", "orion-utils/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return errs.Wrap(err, errs.ErrServerUnreachable, "galaxy.ping").
			WithResource(serverURL).
			WithAdvice("check the server url and your network connectivity")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errs.Newf(errs.ErrServerUnreachable, "galaxy.ping",
			"non-2xx status: %d", resp.StatusCode).WithResource(serverURL)
	}
	return nil
}

// apiRoot appends the API root path to a server base URL.
func apiRoot(serverURL string) string {
	return strings.TrimRight(serverURL, "/") + "/api/"
}
