// Package sessionctx carries the active wizard session id on request contexts.
//
// The session middleware mints an id before the browser has echoed the
// cookie back, so handlers read the id from context rather than from the
// request cookie directly.
package sessionctx

import (
	"context"
	"strings"
)

type sessionIDKey struct{}

// WithSessionID returns ctx carrying the wizard session id.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// SessionID returns the wizard session id carried by ctx.
func SessionID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	sessionID, ok := ctx.Value(sessionIDKey{}).(string)
	if !ok || strings.TrimSpace(sessionID) == "" {
		return "", false
	}
	return sessionID, true
}
