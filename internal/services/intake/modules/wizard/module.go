// Package wizard serves the three-step chip intake flow: identify the chips,
// choose a destination, review and save to the ledger.
package wizard

import (
	"net/http"
	"time"

	"github.com/millfloor/chipline/internal/services/intake/domain"
	module "github.com/millfloor/chipline/internal/services/intake/module"
	"github.com/millfloor/chipline/internal/services/intake/platform/modulehandler"
	"github.com/millfloor/chipline/internal/services/intake/platform/requestmeta"
	"github.com/millfloor/chipline/internal/services/intake/routepath"
	"github.com/millfloor/chipline/internal/services/intake/storage"
)

// Option configures a wizard module.
type Option func(*Module)

// WithGateway sets the ledger submission gateway.
func WithGateway(g Gateway) Option {
	return func(m *Module) { m.gateway = g }
}

// WithDraftStore sets the draft persistence backend.
func WithDraftStore(s storage.DraftStore) Option {
	return func(m *Module) { m.drafts = s }
}

// WithOptions sets the option catalogs the wizard validates against.
func WithOptions(opts domain.Options) Option {
	return func(m *Module) { m.options = opts }
}

// WithBase sets the handler base for session and language resolution.
func WithBase(b modulehandler.Base) Option {
	return func(m *Module) { m.base = b }
}

// WithSchemePolicy sets the request scheme policy for cookie handling and
// ledger origin derivation.
func WithSchemePolicy(p requestmeta.SchemePolicy) Option {
	return func(m *Module) { m.schemeMeta = p }
}

// WithClearDelay sets how long a saved record stays on screen before the
// wizard resets for the next one.
func WithClearDelay(d time.Duration) Option {
	return func(m *Module) { m.clearDelay = d }
}

// Module provides the intake wizard routes.
type Module struct {
	gateway    Gateway
	drafts     storage.DraftStore
	options    domain.Options
	base       modulehandler.Base
	schemeMeta requestmeta.SchemePolicy
	clearDelay time.Duration
}

// New returns a wizard module configured by the given options.
// Without options the module starts in degraded mode.
func New(opts ...Option) Module {
	var m Module
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// ID returns a stable module identifier.
func (Module) ID() string { return "wizard" }

// Healthy reports whether the wizard module can reach a ledger.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires wizard route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.gateway, m.drafts, m.options, m.clearDelay)
	h := newHandlers(svc, m.base, m.schemeMeta)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.WizardPrefix, Handler: mux}, nil
}
