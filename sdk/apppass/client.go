// Package apppass determines whether the current user holds an active
// App Pass entitlement. Network access is gated behind an explicit
// origin permission obtained from an injected HostProvider; the status
// endpoint itself is probed with a small bounded-retry policy.
//
// Every invocation is independent: nothing is cached or persisted
// across calls, and no error ever escapes a public operation — callers
// always receive a Result and branch on its Status.
package apppass

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultEndpoint is the App Pass service base URL used when none is configured.
const DefaultEndpoint = "https://chrome-stats.com"

const (
	statusPath   = "/api/check-app-pass"
	activatePath = "/apppass/add/"
)

// permissionDeniedMessage accompanies every no_perm result.
const permissionDeniedMessage = "Permission denied"

// Options configures a Client. Host is required; everything else has a
// working default.
type Options struct {
	// Endpoint is the base URL of the App Pass service. Defaults to
	// DefaultEndpoint.
	Endpoint string

	// Host provides the runtime capabilities the SDK consumes
	// (permission storage, interactive requests, tab creation, identity).
	Host HostProvider

	// HTTPClient overrides the transport used for status probes. When
	// nil a client with an in-memory cookie jar is created so
	// server-set session cookies ride along on later probes.
	HTTPClient *http.Client

	// Cookie is sent verbatim with every probe for same-origin
	// authentication, in addition to anything the jar holds.
	Cookie string

	// RetryBackoff overrides the fixed wait between failed probe
	// attempts. Zero means the default of one second.
	RetryBackoff time.Duration
}

// Client checks App Pass entitlement through a permission-gated,
// bounded-retry status probe. A Client is cheap and holds no mutable
// state; concurrent calls are independent.
type Client struct {
	endpoint   string
	origin     string
	host       HostProvider
	httpClient *http.Client
	cookie     string
	backoff    time.Duration
}

// NewClient builds a Client from opts. It fails only on a missing host
// provider or an unusable endpoint.
func NewClient(opts Options) (*Client, error) {
	if opts.Host == nil {
		return nil, fmt.Errorf("apppass: host provider is required")
	}

	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("apppass: invalid endpoint %q", endpoint)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		jar, errJar := cookiejar.New(nil)
		if errJar != nil {
			return nil, fmt.Errorf("apppass: create cookie jar: %w", errJar)
		}
		httpClient = &http.Client{Jar: jar}
	}

	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	return &Client{
		endpoint:   endpoint,
		origin:     parsed.Scheme + "://" + parsed.Host,
		host:       opts.Host,
		httpClient: httpClient,
		cookie:     opts.Cookie,
		backoff:    backoff,
	}, nil
}

// Origin returns the status endpoint's origin, the scope permission
// grants are keyed by.
func (c *Client) Origin() string {
	return c.origin
}

// CheckAppPass reports the current App Pass entitlement. It is
// read-only: when the host holds no grant for the endpoint's origin it
// short-circuits to no_perm without issuing any network call.
func (c *Client) CheckAppPass(ctx context.Context) *Result {
	if !c.host.HasOrigin(ctx, c.origin) {
		return &Result{Status: StatusNoPermission, Message: permissionDeniedMessage}
	}
	return c.probe(ctx)
}

// ActivateAppPass runs the interactive grant flow, probes the current
// status, and opens the activation page in a new browser tab. The tab
// is fire-and-forget: the probed result is returned regardless of what
// the navigation does afterward. A declined grant returns no_perm with
// no network call and no tab.
func (c *Client) ActivateAppPass(ctx context.Context) *Result {
	if !c.host.RequestOrigin(ctx, c.origin) {
		return &Result{Status: StatusNoPermission, Message: permissionDeniedMessage}
	}

	result := c.probe(ctx)

	activationURL := c.endpoint + activatePath + url.PathEscape(c.host.SelfID())
	if err := c.host.OpenTab(activationURL); err != nil {
		log.Errorf("apppass: open activation tab failed: %v", err)
	}
	return result
}
