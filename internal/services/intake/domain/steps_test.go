package domain

import "testing"

func TestFirstIncomplete(t *testing.T) {
	t.Parallel()

	opts := testOptions()

	empty := Record{}
	if got := FirstIncomplete(empty, opts); got != StepIdentity {
		t.Fatalf("FirstIncomplete(empty) = %v, want identity", got)
	}

	identityOnly := validBoxRecord()
	identityOnly.Destination = ""
	if got := FirstIncomplete(identityOnly, opts); got != StepDestination {
		t.Fatalf("FirstIncomplete(identity only) = %v, want destination", got)
	}

	full := validBoxRecord()
	if got := FirstIncomplete(full, opts); got != StepReview {
		t.Fatalf("FirstIncomplete(full) = %v, want review", got)
	}
}

func TestGuardEnter(t *testing.T) {
	t.Parallel()

	opts := testOptions()

	tests := []struct {
		name         string
		step         Step
		record       Record
		wantAllowed  bool
		wantRedirect Step
		wantReason   string
	}{
		{
			name:        "identity always allowed",
			step:        StepIdentity,
			record:      Record{},
			wantAllowed: true,
		},
		{
			name:         "destination blocked without identity",
			step:         StepDestination,
			record:       Record{},
			wantRedirect: StepIdentity,
			wantReason:   "wizard.flash.identity_first",
		},
		{
			name: "destination allowed after identity",
			step: StepDestination,
			record: func() Record {
				r := validBoxRecord()
				r.Destination = ""
				return r
			}(),
			wantAllowed: true,
		},
		{
			name:         "review blocked without identity",
			step:         StepReview,
			record:       Record{},
			wantRedirect: StepIdentity,
			wantReason:   "wizard.flash.identity_first",
		},
		{
			name: "review blocked without destination",
			step: StepReview,
			record: func() Record {
				r := validBoxRecord()
				r.Destination = ""
				return r
			}(),
			wantRedirect: StepDestination,
			wantReason:   "wizard.flash.destination_next",
		},
		{
			name:        "review allowed when complete",
			step:        StepReview,
			record:      validBoxRecord(),
			wantAllowed: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := GuardEnter(tc.step, tc.record, opts)
			if result.Allowed != tc.wantAllowed {
				t.Fatalf("allowed = %v, want %v", result.Allowed, tc.wantAllowed)
			}
			if tc.wantAllowed {
				if result.RedirectTo != tc.step {
					t.Fatalf("redirect = %v, want the entered step %v", result.RedirectTo, tc.step)
				}
				return
			}
			if result.RedirectTo != tc.wantRedirect {
				t.Fatalf("redirect = %v, want %v", result.RedirectTo, tc.wantRedirect)
			}
			if result.Reason != tc.wantReason {
				t.Fatalf("reason = %q, want %q", result.Reason, tc.wantReason)
			}
		})
	}
}

func TestStepString(t *testing.T) {
	t.Parallel()

	if StepIdentity.String() != "identity" || StepDestination.String() != "destination" || StepReview.String() != "review" {
		t.Fatal("unexpected step names")
	}
	if Step(0).String() != "unknown" {
		t.Fatalf("zero step = %q, want unknown", Step(0).String())
	}
}
