package auth

import "context"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Caller identifies the requesting party. A zero Caller is an anonymous
// storefront visitor.
type Caller struct {
	UserID string
	Role   Role
}

// IsStorefront reports whether the caller belongs to the storefront class,
// which is hard-pinned to active, externally visible products.
func (c Caller) IsStorefront() bool {
	return c.Role != RoleAdmin
}

func (c Caller) IsAuthenticated() bool {
	return c.UserID != ""
}

type ctxKey struct{}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// CallerFrom returns the caller attached by the auth middleware, or an
// anonymous storefront caller when none was attached.
func CallerFrom(ctx context.Context) Caller {
	if c, ok := ctx.Value(ctxKey{}).(Caller); ok {
		return c
	}
	return Caller{}
}
