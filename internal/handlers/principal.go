package handlers

import (
	"context"
	"slices"
)

type contextKey string

const contextPrincipalKey contextKey = "principal"

// Principal is the authenticated identity threaded through the pipeline.
// It is immutable once placed in the request context; later stages read it,
// they never mutate shared state.
type Principal struct {
	// Name is the authenticated account's email.
	Name string

	// Authorities are the grant names recovered from credentials or from
	// a validated token.
	Authorities []string
}

// Anonymous reports whether the principal carries no authenticated name.
func (p Principal) Anonymous() bool {
	return p.Name == ""
}

// HasAnyAuthority reports whether the principal holds at least one of the
// given grants.
func (p Principal) HasAnyAuthority(names ...string) bool {
	for _, name := range names {
		if slices.Contains(p.Authorities, name) {
			return true
		}
	}
	return false
}

func withPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextPrincipalKey, p)
}

// PrincipalFromContext returns the request principal, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextPrincipalKey).(Principal)
	return p, ok
}
