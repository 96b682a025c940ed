package apppass

import "context"

// HostProvider exposes the host-runtime capabilities the SDK consumes:
// origin-permission storage, interactive permission requests, tab
// creation, and the calling extension instance's own identity.
//
// Implementations must not contact the App Pass service themselves; the
// SDK performs all network access after the corresponding permission
// call returns true.
type HostProvider interface {
	// HasOrigin reports whether an existing grant covers the given
	// origin. It never fails; a missing grant is a normal false.
	HasOrigin(ctx context.Context, origin string) bool

	// RequestOrigin runs the host's interactive grant flow for the
	// origin and reports whether the grant was obtained. It may block
	// on user interaction until ctx is done.
	RequestOrigin(ctx context.Context, origin string) bool

	// OpenTab opens the given URL in a new browser tab.
	OpenTab(url string) error

	// SelfID returns the identity of the calling extension instance.
	SelfID() string
}
