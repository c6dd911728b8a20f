// Package module defines the feature contract used by intake composition.
package module

import "net/http"

// ResolveSession resolves the wizard session id for a request.
type ResolveSession func(*http.Request) string

// ResolveLanguage returns the effective request language.
type ResolveLanguage func(*http.Request) string

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module declares the minimum contract required by intake composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// HealthReporter is an optional interface for modules that can report their
// operational availability. Modules with gateway dependencies implement this
// so composition can derive service health without centralizing client knowledge.
type HealthReporter interface {
	Healthy() bool
}
