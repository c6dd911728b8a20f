// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	flashnotice "github.com/millfloor/chipline/internal/services/intake/platform/flash"
	"github.com/millfloor/chipline/internal/services/intake/platform/httpx"
	intakei18n "github.com/millfloor/chipline/internal/services/intake/platform/i18n"
	"github.com/millfloor/chipline/internal/services/intake/templates"
)

// RequestResolver resolves language state from a request.
// This decouples platform rendering from the module-layer handler types.
type RequestResolver interface {
	ResolveRequestLanguage(r *http.Request) string
}

// ModulePage describes a module page response.
type ModulePage struct {
	Title      string
	StatusCode int
	Step       int
	Refresh    string
	Fragment   templ.Component
}

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// WriteModulePage writes a module page using the shared wizard layout.
func WriteModulePage(w http.ResponseWriter, r *http.Request, resolver RequestResolver, page ModulePage) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = emptyComponent{}
	}

	var resolveLanguage func(*http.Request) string
	if resolver != nil {
		resolveLanguage = resolver.ResolveRequestLanguage
	}
	loc, lang := intakei18n.ResolveLocalizer(w, r, resolveLanguage)
	ctx := httpx.RequestContext(r)

	currentPath := ""
	currentQuery := ""
	if r != nil && r.URL != nil {
		currentPath = r.URL.Path
		currentQuery = r.URL.RawQuery
	}
	layout := templates.Layout(templates.LayoutOptions{
		Title:        page.Title,
		Lang:         lang,
		Loc:          loc,
		CurrentPath:  currentPath,
		CurrentQuery: currentQuery,
		Step:         page.Step,
		Refresh:      page.Refresh,
		Toast:        resolveFlashToast(w, r, loc),
	})
	var buf bytes.Buffer
	if err := layout.Render(templ.WithChildren(ctx, fragment), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}

func resolveFlashToast(w http.ResponseWriter, r *http.Request, loc intakei18n.Localizer) *templates.Toast {
	notice, ok := flashnotice.ReadAndClear(w, r)
	if !ok {
		return nil
	}
	message := strings.TrimSpace(loc.Sprintf(notice.Key))
	if message == "" {
		message = strings.TrimSpace(notice.Key)
	}
	if message == "" {
		return nil
	}
	return &templates.Toast{
		Kind:    string(notice.Kind),
		Message: message,
	}
}
