// Package session resolves the shopper session a cart belongs to.
package session

import (
	"context"
	"errors"
	"strings"
)

// GuestSessionID is the shared session used when no shopper identity exists.
const GuestSessionID = "guest-session"

var ErrNoSession = errors.New("no session id")

// Provider returns the session id for the current caller.
type Provider interface {
	SessionID(ctx context.Context) (string, error)
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(ctx context.Context) (string, error)

func (f ProviderFunc) SessionID(ctx context.Context) (string, error) { return f(ctx) }

// Static always returns the same id.
type Static string

func (s Static) SessionID(context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrNoSession
	}
	return string(s), nil
}

// Guest returns the shared guest session provider.
func Guest() Provider { return Static(GuestSessionID) }

type ctxKey struct{}

func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// ContextProvider reads the id stored by WithSessionID and falls back to
// Fallback when none is present. A nil Fallback means the guest session.
type ContextProvider struct {
	Fallback Provider
}

func (p ContextProvider) SessionID(ctx context.Context) (string, error) {
	if id, ok := FromContext(ctx); ok {
		return id, nil
	}
	if p.Fallback == nil {
		return GuestSessionID, nil
	}
	return p.Fallback.SessionID(ctx)
}
