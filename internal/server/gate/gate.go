// Package gate decides, per request, whether a caller may use a route.
package gate

import (
	"github.com/dmitrijs2005/mysterycard/internal/common"
	"github.com/dmitrijs2005/mysterycard/internal/server/auth"
)

// Access is the requirement a route places on its callers.
type Access int

const (
	Authenticated Access = iota
	Public
	AdminOnly
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case AdminOnly:
		return "admin"
	default:
		return "authenticated"
	}
}

// Policy maps route names to their access requirement. Routes missing from
// the policy require an authenticated caller.
type Policy map[string]Access

func (p Policy) For(route string) Access {
	if a, ok := p[route]; ok {
		return a
	}
	return Authenticated
}

type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateAuthorized
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAuthorized:
		return "authorized"
	case StateDenied:
		return "denied"
	default:
		return "unauthenticated"
	}
}

// Decision is the outcome of a single check. Claims is set whenever a
// valid token was presented. Reason is common.ErrorUnauthorized or
// common.ErrorForbidden when State is StateDenied.
type Decision struct {
	State  State
	Claims *auth.SessionClaims
	Reason error
}

func (d Decision) Allowed() bool {
	return d.State != StateDenied
}

// TokenVerifier validates a session token.
type TokenVerifier interface {
	Verify(token string) (*auth.SessionClaims, error)
}

// Gate holds no per-request state and is safe for concurrent use.
type Gate struct {
	policy   Policy
	verifier TokenVerifier
}

func New(policy Policy, verifier TokenVerifier) *Gate {
	return &Gate{policy: policy, verifier: verifier}
}

// Check evaluates route for a caller presenting token (empty when none).
// Public routes pass without looking at the token.
func (g *Gate) Check(route, token string) Decision {
	access := g.policy.For(route)
	if access == Public {
		return Decision{State: StateUnauthenticated}
	}

	if token == "" {
		return Decision{State: StateDenied, Reason: common.ErrorUnauthorized}
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		return Decision{State: StateDenied, Reason: common.ErrorUnauthorized}
	}

	if access == AdminOnly {
		if !claims.IsAdmin {
			return Decision{State: StateDenied, Claims: claims, Reason: common.ErrorForbidden}
		}
		return Decision{State: StateAuthorized, Claims: claims}
	}

	return Decision{State: StateAuthenticated, Claims: claims}
}
