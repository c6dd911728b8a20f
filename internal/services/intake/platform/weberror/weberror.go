// Package weberror renders shared wizard error responses for intake modules.
package weberror

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	apperrors "github.com/millfloor/chipline/internal/services/intake/platform/errors"
	intakei18n "github.com/millfloor/chipline/internal/services/intake/platform/i18n"
	"github.com/millfloor/chipline/internal/services/intake/templates"
)

// RequestResolver resolves language state from a request.
type RequestResolver interface {
	ResolveRequestLanguage(r *http.Request) string
}

// ShouldRenderAppError reports whether status should use app error-page UX.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc intakei18n.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" {
				return localized
			}
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	if text := strings.TrimSpace(http.StatusText(statusCode)); text != "" {
		return text
	}
	return http.StatusText(http.StatusInternalServerError)
}

// WriteAppError writes a localized wizard-shell error response.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, resolver RequestResolver) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}

	var resolveLanguage func(*http.Request) string
	if resolver != nil {
		resolveLanguage = resolver.ResolveRequestLanguage
	}
	loc, lang := intakei18n.ResolveLocalizer(w, r, resolveLanguage)
	fragment := templates.ErrorState(statusCode, loc)

	currentPath := ""
	currentQuery := ""
	if r != nil && r.URL != nil {
		currentPath = r.URL.Path
		currentQuery = r.URL.RawQuery
	}
	layout := templates.Layout(templates.LayoutOptions{
		Title:        templates.ErrorPageTitle(statusCode, loc),
		Lang:         lang,
		Loc:          loc,
		CurrentPath:  currentPath,
		CurrentQuery: currentQuery,
	})
	var buf bytes.Buffer
	if err := layout.Render(templ.WithChildren(requestContext(r), fragment), &buf); err != nil {
		http.Error(w, PublicMessage(loc, err), statusCode)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
}

func requestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}

// WriteModuleError writes a module-safe localized error response.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, resolver RequestResolver) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, statusCode, resolver)
		return
	}
	var resolveLanguage func(*http.Request) string
	if resolver != nil {
		resolveLanguage = resolver.ResolveRequestLanguage
	}
	loc, _ := intakei18n.ResolveLocalizer(w, r, resolveLanguage)
	http.Error(w, PublicMessage(loc, err), statusCode)
}
