// Package modulehandler provides a composable base for wizard module handlers.
//
// Wizard modules share common handler infrastructure for session resolution,
// localization, page rendering, and error handling. This package extracts that
// shared scaffold so modules embed it rather than duplicating it.
package modulehandler

import (
	"context"
	"net/http"
	"strings"

	module "github.com/millfloor/chipline/internal/services/intake/module"
	"github.com/millfloor/chipline/internal/services/intake/platform/httpx"
	intakei18n "github.com/millfloor/chipline/internal/services/intake/platform/i18n"
	"github.com/millfloor/chipline/internal/services/intake/platform/pagerender"
	"github.com/millfloor/chipline/internal/services/intake/platform/weberror"
	"github.com/millfloor/chipline/internal/services/intake/templates"
)

// Base carries the shared request-scoped resolvers used by wizard module handlers.
// Embed this in module handler structs to get standard session resolution,
// localization, page rendering, and error writing without duplicating boilerplate.
type Base struct {
	resolveSession  module.ResolveSession
	resolveLanguage module.ResolveLanguage
}

// NewBase builds a handler base from explicit resolver functions.
func NewBase(resolveSession module.ResolveSession, resolveLanguage module.ResolveLanguage) Base {
	return Base{
		resolveSession:  resolveSession,
		resolveLanguage: resolveLanguage,
	}
}

// NewTestBase builds a handler base with a fixed session id, suitable for
// tests that do not exercise session or language resolution.
func NewTestBase() Base {
	return Base{
		resolveSession:  func(*http.Request) string { return "test-session" },
		resolveLanguage: func(*http.Request) string { return "" },
	}
}

// ResolveRequestLanguage returns the effective request language.
func (b Base) ResolveRequestLanguage(r *http.Request) string {
	if b.resolveLanguage == nil {
		return ""
	}
	return b.resolveLanguage(r)
}

// RequestSessionID extracts the wizard session id from the request.
func (b Base) RequestSessionID(r *http.Request) string {
	if r == nil || b.resolveSession == nil {
		return ""
	}
	return strings.TrimSpace(b.resolveSession(r))
}

// RequestContextAndSessionID returns the request context and the wizard
// session id in one call, the shape most handlers need.
func (b Base) RequestContextAndSessionID(r *http.Request) (context.Context, string) {
	return httpx.RequestContext(r), b.RequestSessionID(r)
}

// PageLocalizer resolves a localizer and language tag from the request.
func (b Base) PageLocalizer(w http.ResponseWriter, r *http.Request) (templates.Localizer, string) {
	return intakei18n.ResolveLocalizer(w, r, b.resolveLanguage)
}

// WriteError renders a localized module error response.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, &b)
}

// WriteNotFound renders a 404 error page within the wizard shell.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, &b)
}

// WritePage renders a full module page within the wizard shell.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, page pagerender.ModulePage) {
	if err := pagerender.WriteModulePage(w, r, &b, page); err != nil {
		b.WriteError(w, r, err)
	}
}
