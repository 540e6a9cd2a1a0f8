package dashboard

import "context"

// Identity is what the session provider knows about the caller.
type Identity struct {
	OwnerID       string
	Authenticated bool
}

// Valid reports whether the identity may act on dashboards.
func (i Identity) Valid() bool {
	return i.Authenticated && i.OwnerID != ""
}

type identityContextKey struct{}

// ContextWithIdentity stores the caller identity on the provided context.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFrom extracts the caller identity, returning the anonymous identity
// when none is present.
func IdentityFrom(ctx context.Context) Identity {
	if ctx == nil {
		return Identity{}
	}
	if identity, ok := ctx.Value(identityContextKey{}).(Identity); ok {
		return identity
	}
	return Identity{}
}
