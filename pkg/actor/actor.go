// Package actor переносит сведения об инициаторе запроса через context.Context
package actor

import (
	"context"

	"github.com/google/uuid"
)

const RoleAdmin = "admin"

// Actor инициатор операции
type Actor struct {
	UserID    *uuid.UUID
	Role      string
	IP        string
	UserAgent string
}

// IsAdmin true для администратора
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type ctxKey struct{}

// WithContext сохраняет actor в контексте
func WithContext(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext достает actor из контекста. Для фоновых задач возвращается пустой Actor
func FromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(ctxKey{}).(Actor); ok {
		return a
	}
	return Actor{}
}
