package auth

import "context"

type contextKey string

func (c contextKey) String() string {
	return string(c)
}

// IdentityCtxKey holds the verified Identity of the current request.
var IdentityCtxKey = contextKey("identity")

// WithIdentity attaches a verified identity to ctx.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, IdentityCtxKey, identity)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityCtxKey).(Identity)
	return identity, ok
}
