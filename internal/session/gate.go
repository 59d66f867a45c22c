package session

import (
	domainauth "github.com/hosteldesk/hosteldesk/internal/domain/auth"
)

// Decision is the outcome of gating a request against a session snapshot.
type Decision int

const (
	// Suspend means the role is still resolving; callers hold the request
	// rather than guessing.
	Suspend Decision = iota
	// Allow admits the request.
	Allow
	// RedirectLogin sends an unauthenticated caller to the login page.
	RedirectLogin
	// RedirectHome sends an authenticated caller without a permitted role
	// back to the landing page.
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Suspend:
		return "suspend"
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Evaluate gates a snapshot against the set of roles permitted to proceed.
// It is a pure function of its arguments: no identity is read from anywhere
// else, and calling it repeatedly with the same snapshot yields the same
// decision.
//
// Order of checks is fixed: a resolving snapshot suspends even when no
// identity restriction would apply, a missing identity redirects to login,
// and an identity whose role is outside the permitted set redirects home.
// An empty permitted set admits any authenticated identity.
func Evaluate(snap Snapshot, permitted ...domainauth.Role) Decision {
	if snap.Resolving {
		return Suspend
	}
	if snap.Identity == nil {
		return RedirectLogin
	}
	if len(permitted) == 0 {
		return Allow
	}
	for _, role := range permitted {
		if snap.Role == role {
			return Allow
		}
	}
	return RedirectHome
}
