// Package routepath stores canonical HTTP paths for the intake service.
package routepath

import "github.com/millfloor/chipline/internal/services/intake/domain"

const (
	Root              = "/"
	Health            = "/healthz"
	WizardPrefix      = "/wizard/"
	WizardIdentity    = "/wizard/identity"
	WizardDestination = "/wizard/destination"
	WizardReview      = "/wizard/review"
	WizardSubmit      = "/wizard/submit"
	WizardSaved       = "/wizard/saved"

	// WizardRestPattern catches every other path under the wizard prefix.
	WizardRestPattern = WizardPrefix + "{rest...}"
)

// StepPath returns the page path for a wizard step. Unknown steps land on the
// identity page.
func StepPath(step domain.Step) string {
	switch step {
	case domain.StepDestination:
		return WizardDestination
	case domain.StepReview:
		return WizardReview
	default:
		return WizardIdentity
	}
}
