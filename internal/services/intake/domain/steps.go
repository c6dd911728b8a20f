package domain

// Step identifies one wizard surface. Steps unlock in declaration order.
type Step int

const (
	StepIdentity Step = iota + 1
	StepDestination
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepIdentity:
		return "identity"
	case StepDestination:
		return "destination"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

// IdentityComplete reports whether the step-one fields validate.
func IdentityComplete(r Record, opts Options) bool {
	return ValidateIdentity(r, opts) == nil
}

// DestinationComplete reports whether the step-two field validates.
func DestinationComplete(r Record, opts Options) bool {
	return ValidateDestination(r, opts) == nil
}

// FirstIncomplete returns the earliest step whose inputs do not validate.
func FirstIncomplete(r Record, opts Options) Step {
	if !IdentityComplete(r, opts) {
		return StepIdentity
	}
	if !DestinationComplete(r, opts) {
		return StepDestination
	}
	return StepReview
}

// GuardResult reports whether a step may be entered and, when it may not,
// where to send the operator instead. Reason is a localization key suitable
// for a flash notice.
type GuardResult struct {
	Allowed    bool
	RedirectTo Step
	Reason     string
}

// GuardEnter gates direct entry into a wizard step. The identity step is
// always open; later steps require every earlier step to be complete. A
// blocked entry redirects to the first incomplete step.
func GuardEnter(step Step, r Record, opts Options) GuardResult {
	switch step {
	case StepDestination:
		if !IdentityComplete(r, opts) {
			return GuardResult{
				RedirectTo: StepIdentity,
				Reason:     "wizard.flash.identity_first",
			}
		}
	case StepReview:
		if first := FirstIncomplete(r, opts); first != StepReview {
			reason := "wizard.flash.identity_first"
			if first == StepDestination {
				reason = "wizard.flash.destination_next"
			}
			return GuardResult{
				RedirectTo: first,
				Reason:     reason,
			}
		}
	}
	return GuardResult{Allowed: true, RedirectTo: step}
}
