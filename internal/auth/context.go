package auth

import "context"

type ctxKey struct{}

func WithClaims(ctx context.Context, c AdminClaims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func ClaimsFrom(ctx context.Context) (AdminClaims, bool) {
	c, ok := ctx.Value(ctxKey{}).(AdminClaims)
	return c, ok
}
