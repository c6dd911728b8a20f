package templates

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/millfloor/chipline/internal/services/intake/routepath"
)

const (
	errorTitleNotFoundKey   = "core.error_title_not_found"
	errorTitleServerKey     = "core.error_title_server"
	errorMessageNotFoundKey = "core.error_not_found"
	errorMessageServerKey   = "core.error_unexpected"
	errorActionRestartKey   = "core.error_action_restart"
)

type errorView struct {
	pageText
	Heading string
	Message string
	HomeURL string
}

// ErrorPageTitle returns the browser page title for app error pages.
func ErrorPageTitle(statusCode int, loc Localizer) string {
	if normalizeErrorStatus(statusCode) == http.StatusNotFound {
		return T(loc, errorTitleNotFoundKey)
	}
	return T(loc, errorTitleServerKey)
}

// ErrorState renders the shared error fragment for statusCode.
func ErrorState(statusCode int, loc Localizer) templ.Component {
	view := errorView{
		pageText: pageText{loc: loc},
		Heading:  ErrorPageTitle(statusCode, loc),
		Message:  errorMessage(statusCode, loc),
		HomeURL:  routepath.WizardIdentity,
	}
	return renderPage("error.html", view)
}

func errorMessage(statusCode int, loc Localizer) string {
	if normalizeErrorStatus(statusCode) == http.StatusNotFound {
		return T(loc, errorMessageNotFoundKey)
	}
	return T(loc, errorMessageServerKey)
}

func normalizeErrorStatus(statusCode int) int {
	if statusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
