package wizard

import (
	"net/http"

	"github.com/millfloor/chipline/internal/services/intake/platform/httpx"
	"github.com/millfloor/chipline/internal/services/intake/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.WizardIdentity, h.handleIdentityGet)
	mux.HandleFunc(http.MethodPost+" "+routepath.WizardIdentity, h.handleIdentityPost)
	mux.HandleFunc(http.MethodGet+" "+routepath.WizardDestination, h.handleDestinationGet)
	mux.HandleFunc(http.MethodPost+" "+routepath.WizardDestination, h.handleDestinationPost)
	mux.HandleFunc(http.MethodGet+" "+routepath.WizardReview, h.handleReviewGet)
	mux.HandleFunc(http.MethodGet+" "+routepath.WizardSubmit, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(http.MethodPost+" "+routepath.WizardSubmit, h.handleSubmit)
	mux.HandleFunc(http.MethodGet+" "+routepath.WizardSaved, h.handleSavedGet)
	mux.HandleFunc(http.MethodGet+" "+routepath.WizardRestPattern, h.WriteNotFound)
	mux.HandleFunc(http.MethodPost+" "+routepath.WizardRestPattern, h.WriteNotFound)
}
