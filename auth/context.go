package auth

import (
	"context"
	"happythoughts/domain"
)

const (
	userKey privateKey = "user"
)

type privateKey string

// SetUser returns a new context carrying the resolved acting user.
func SetUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser returns the user attached to the context, or nil when the
// request is anonymous.
func GetUser(ctx context.Context) *domain.User {
	if temp := ctx.Value(userKey); temp != nil {
		if user, ok := temp.(*domain.User); ok {
			return user
		}
	}
	return nil
}
