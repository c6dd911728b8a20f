package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	module "github.com/millfloor/chipline/internal/services/intake/module"
)

func TestComposeRejectsDuplicateModulePrefix(t *testing.T) {
	t.Parallel()

	composer := Composer{}
	_, err := composer.Compose(ComposeInput{
		Modules: []module.Module{
			stubModule{id: "one", mount: module.Mount{Prefix: "/one/", Handler: http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})}},
			stubModule{id: "two", mount: module.Mount{Prefix: "/one/", Handler: http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})}},
		},
	})
	if err == nil {
		t.Fatalf("expected duplicate prefix error")
	}
}

func TestComposeRejectsNilModule(t *testing.T) {
	t.Parallel()

	composer := Composer{}
	_, err := composer.Compose(ComposeInput{
		Modules: []module.Module{nil},
	})
	if err == nil {
		t.Fatalf("expected nil module error")
	}
}

func TestComposeRejectsMountWithoutHandler(t *testing.T) {
	t.Parallel()

	composer := Composer{}
	_, err := composer.Compose(ComposeInput{
		Modules: []module.Module{
			stubModule{id: "bad", mount: module.Mount{Prefix: "/bad/"}},
		},
	})
	if err == nil {
		t.Fatalf("expected missing handler error")
	}
}

func TestComposeMountsModulesAndNormalizesPrefix(t *testing.T) {
	t.Parallel()

	composer := Composer{}
	h, err := composer.Compose(ComposeInput{
		Modules: []module.Module{
			stubModule{id: "scan", mount: module.Mount{Prefix: "scan", Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/scan/labels", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestComposeRedirectsRootToIdentityStep(t *testing.T) {
	t.Parallel()

	composer := Composer{}
	h, err := composer.Compose(ComposeInput{})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
	}
	if got := rr.Header().Get("Location"); got != "/wizard/identity" {
		t.Fatalf("Location = %q, want %q", got, "/wizard/identity")
	}
}

func TestComposeHealthzReportsOK(t *testing.T) {
	t.Parallel()

	composer := Composer{}
	h, err := composer.Compose(ComposeInput{
		Modules: []module.Module{
			stubModule{id: "plain", mount: module.Mount{Prefix: "/plain/", Handler: http.NotFoundHandler()}},
			stubHealthModule{
				stubModule: stubModule{id: "scan", mount: module.Mount{Prefix: "/scan/", Handler: http.NotFoundHandler()}},
				healthy:    true,
			},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Fatalf("Content-Type = %q", got)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"status":"ok"}` {
		t.Fatalf("body = %q, want %q", got, `{"status":"ok"}`)
	}
}

func TestComposeHealthzReportsDegradedWhenModuleUnhealthy(t *testing.T) {
	t.Parallel()

	composer := Composer{}
	h, err := composer.Compose(ComposeInput{
		Modules: []module.Module{
			stubHealthModule{
				stubModule: stubModule{id: "scan", mount: module.Mount{Prefix: "/scan/", Handler: http.NotFoundHandler()}},
				healthy:    false,
			},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"status":"degraded"}` {
		t.Fatalf("body = %q, want %q", got, `{"status":"degraded"}`)
	}
}

func TestComposeRejectsCookieMutationWithoutSameOriginProof(t *testing.T) {
	t.Parallel()

	h := composeScanModule(t)

	req := httptest.NewRequest(http.MethodPost, "/scan/labels", nil)
	req.AddCookie(&http.Cookie{Name: "chipline_session", Value: "cs-1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestComposeAllowsCookieMutationWithSameOriginHeader(t *testing.T) {
	t.Parallel()

	h := composeScanModule(t)

	req := httptest.NewRequest(http.MethodPost, "https://station.plant.lan/scan/labels", nil)
	req.Host = "station.plant.lan"
	req.Header.Set("Origin", "https://station.plant.lan")
	req.AddCookie(&http.Cookie{Name: "chipline_session", Value: "cs-1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestComposeAllowsCookieMutationWithSecFetchSiteSameOrigin(t *testing.T) {
	t.Parallel()

	h := composeScanModule(t)

	req := httptest.NewRequest(http.MethodPost, "/scan/labels", nil)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	req.AddCookie(&http.Cookie{Name: "chipline_session", Value: "cs-1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestComposeRejectsCookieMutationWhenOriginSchemeDiffers(t *testing.T) {
	t.Parallel()

	h := composeScanModule(t)

	req := httptest.NewRequest(http.MethodPost, "https://station.plant.lan/scan/labels", nil)
	req.Host = "station.plant.lan"
	req.Header.Set("Origin", "http://station.plant.lan")
	req.AddCookie(&http.Cookie{Name: "chipline_session", Value: "cs-1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestComposeRejectsCookieMutationWhenOriginOmitsNonDefaultPort(t *testing.T) {
	t.Parallel()

	h := composeScanModule(t)

	req := httptest.NewRequest(http.MethodPost, "https://station.plant.lan:8443/scan/labels", nil)
	req.Host = "station.plant.lan:8443"
	req.Header.Set("Origin", "https://station.plant.lan")
	req.AddCookie(&http.Cookie{Name: "chipline_session", Value: "cs-1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestComposeAllowsMutationWithoutSessionCookie(t *testing.T) {
	t.Parallel()

	h := composeScanModule(t)

	req := httptest.NewRequest(http.MethodPost, "/scan/labels", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func composeScanModule(t *testing.T) http.Handler {
	t.Helper()
	composer := Composer{}
	h, err := composer.Compose(ComposeInput{
		Modules: []module.Module{
			stubModule{id: "scan", mount: module.Mount{Prefix: "/scan/", Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	return h
}

type stubModule struct {
	id    string
	mount module.Mount
	err   error
}

func (s stubModule) ID() string {
	return s.id
}

func (s stubModule) Mount() (module.Mount, error) {
	return s.mount, s.err
}

type stubHealthModule struct {
	stubModule
	healthy bool
}

func (s stubHealthModule) Healthy() bool {
	return s.healthy
}
