// Package app composes intake feature modules into the station root handler.
package app

import (
	"fmt"
	"net/http"
	"strings"

	module "github.com/millfloor/chipline/internal/services/intake/module"
	"github.com/millfloor/chipline/internal/services/intake/platform/httpx"
	"github.com/millfloor/chipline/internal/services/intake/platform/requestmeta"
	"github.com/millfloor/chipline/internal/services/intake/platform/sessioncookie"
	"github.com/millfloor/chipline/internal/services/intake/routepath"
)

// ComposeInput carries the module group and shared composition contracts.
type ComposeInput struct {
	Modules      []module.Module
	SchemePolicy requestmeta.SchemePolicy
}

// Composer wires root mux mounts and station route behavior.
type Composer struct{}

// Compose builds a root HTTP handler from the module group. The root path
// redirects to the first wizard step and /healthz aggregates module health.
func (Composer) Compose(input ComposeInput) (http.Handler, error) {
	root := http.NewServeMux()
	seen := make(map[string]string)

	wrap := requireCookieSessionSameOrigin(input.SchemePolicy)
	for _, feature := range input.Modules {
		if feature == nil {
			return nil, fmt.Errorf("module is nil")
		}
		if err := mountModule(root, feature, seen, wrap); err != nil {
			return nil, err
		}
	}

	root.HandleFunc(http.MethodGet+" /{$}", handleRoot)
	root.HandleFunc(http.MethodGet+" "+routepath.Health, handleHealth(input.Modules))
	return root, nil
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	httpx.WriteRedirect(w, r, routepath.WizardIdentity)
}

type healthPayload struct {
	Status string `json:"status"`
}

// handleHealth reports degraded when any health-reporting module is unhealthy.
// Modules without a health report count as available.
func handleHealth(features []module.Module) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		for _, feature := range features {
			reporter, ok := feature.(module.HealthReporter)
			if !ok {
				continue
			}
			if !reporter.Healthy() {
				_ = httpx.WriteJSON(w, http.StatusServiceUnavailable, healthPayload{Status: "degraded"})
				return
			}
		}
		_ = httpx.WriteJSON(w, http.StatusOK, healthPayload{Status: "ok"})
	}
}

func mountModule(
	root *http.ServeMux,
	feature module.Module,
	seen map[string]string,
	wrap func(http.Handler) http.Handler,
) error {
	mount, prefix, err := resolveMount(feature)
	if err != nil {
		return err
	}
	if previous, ok := seen[prefix]; ok {
		return fmt.Errorf("module %q duplicates prefix %q owned by module %q", feature.ID(), prefix, previous)
	}
	seen[prefix] = feature.ID()

	handler := mount.Handler
	if wrap != nil {
		handler = wrap(handler)
	}
	root.Handle(prefix, handler)
	return nil
}

func resolveMount(feature module.Module) (module.Mount, string, error) {
	if feature == nil {
		return module.Mount{}, "", fmt.Errorf("module is nil")
	}
	mount, err := feature.Mount()
	if err != nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	prefix := normalizePrefix(mount.Prefix)
	if prefix == "" {
		return module.Mount{}, "", fmt.Errorf("mount module %q: prefix is required", feature.ID())
	}
	if mount.Handler == nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	return mount, prefix, nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

// requireCookieSessionSameOrigin rejects cookie-bearing mutations that carry
// no same-origin proof. Requests without a session cookie pass through: there
// is no ambient credential for a cross-site page to ride.
func requireCookieSessionSameOrigin(policy requestmeta.SchemePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutationMethod(r) || !hasSessionCookie(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !hasSameOriginProof(r, policy) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutationMethod(r *http.Request) bool {
	if r == nil {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func hasSessionCookie(r *http.Request) bool {
	_, ok := sessioncookie.Read(r)
	return ok
}

// hasSameOriginProof accepts the Sec-Fetch-Site fetch metadata first; older
// station browsers that omit it fall back to Origin/Referer matching.
func hasSameOriginProof(r *http.Request, policy requestmeta.SchemePolicy) bool {
	if r == nil {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(r.Header.Get("Sec-Fetch-Site")), "same-origin") {
		return true
	}
	return requestmeta.HasSameOriginProofWithPolicy(r, policy)
}
