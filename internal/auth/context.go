package auth

import "context"

type identityKey struct{}

// WithIdentity stores verified access-token claims on the context.
func WithIdentity(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, identityKey{}, claims)
}

// IdentityFromContext returns the claims stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Claims, bool) {
	if ctx == nil {
		return Claims{}, false
	}
	claims, ok := ctx.Value(identityKey{}).(Claims)
	return claims, ok
}
